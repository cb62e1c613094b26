//go:build unit

package config_test

import (
	"testing"

	"hotel-reservation-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, config.NewTestConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{"unknown zone", func(c *config.Config) { c.Booking.TimeZone = "Mars/Olympus" }, "BOOKING_TIMEZONE"},
		{"long prefix", func(c *config.Config) { c.Booking.CodePrefix = "HBX" }, "BOOKING_CODE_PREFIX"},
		{"no attempts", func(c *config.Config) { c.Booking.CodeMaxAttempts = 0 }, "BOOKING_CODE_MAX_ATTEMPTS"},
		{"negative lead", func(c *config.Config) { c.Booking.CancellationLeadDays = -1 }, "LEAD_DAYS"},
		{"bad token duration", func(c *config.Config) { c.JWT.AccessTokenDuration = "soon" }, "JWT_ACCESS_TOKEN_DURATION"},
		{"zero bucket", func(c *config.Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Capacity = 0
		}, "RATE_LIMIT"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
