//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1000.00", "33.33", "0.01", "123456789.99"} {
		d := decimal.RequireFromString(s)
		back, err := pgconv.DecimalFromNumeric(pgconv.DecimalToNumeric(d))
		require.NoError(t, err, s)
		assert.True(t, d.Equal(back), s)
	}

	_, err := pgconv.DecimalFromNumeric(pgtype.Numeric{})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumeric)

	_, err = pgconv.DecimalFromNumeric(pgtype.Numeric{NaN: true, Valid: true})
	assert.ErrorIs(t, err, pgconv.ErrInvalidNumeric)
}

func TestDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	in := time.Date(2030, 5, 1, 23, 30, 0, 0, tokyo)

	pd := pgconv.DateToPgtype(in)
	assert.True(t, pd.Valid)
	assert.Equal(t, time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), pgconv.DateFromPgtype(pd))
	assert.True(t, pgconv.DateFromPgtype(pgtype.Date{}).IsZero())
}
