//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/user"
	"hotel-reservation-engine/internal/pkg/config"
	"hotel-reservation-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the identity service would.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role, email string) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.AccessTokenDuration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(userID, role, email)
	require.NoError(t, err)
	return token
}

// Customer returns a fresh customer identity and its token.
func (h *JWTHelper) Customer(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, user.RoleCustomer, email)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(userID, role, "expired@example.com")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
