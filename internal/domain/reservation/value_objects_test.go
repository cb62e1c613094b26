//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"hotel-reservation-engine/internal/domain/reservation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(t *testing.T, in, out string) reservation.StayWindow {
	t.Helper()
	s, err := reservation.NewStayWindow(day(in), day(out))
	require.NoError(t, err)
	return s
}

func TestMoney(t *testing.T) {
	t.Run("rounds half up to two places", func(t *testing.T) {
		cases := map[string]string{
			"10":      "10.00",
			"10.005":  "10.01",
			"10.004":  "10.00",
			"0.125":   "0.13",
			"99.9999": "100.00",
		}
		for in, want := range cases {
			m, err := reservation.MoneyFromString(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, m.String(), in)
		}
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := reservation.NewMoney(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, reservation.ErrNegativeAmount)
	})

	t.Run("price is rate times nights", func(t *testing.T) {
		rate, err := reservation.MoneyFromString("1000.00")
		require.NoError(t, err)
		assert.Equal(t, "3000.00", reservation.Price(rate, 3).String())

		odd, err := reservation.MoneyFromString("33.33")
		require.NoError(t, err)
		assert.Equal(t, "99.99", reservation.Price(odd, 3).String())
	})
}

func TestStayWindow(t *testing.T) {
	t.Run("check-out must follow check-in", func(t *testing.T) {
		_, err := reservation.NewStayWindow(day("2030-05-02"), day("2030-05-02"))
		assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)

		_, err = reservation.NewStayWindow(day("2030-05-03"), day("2030-05-02"))
		assert.ErrorIs(t, err, reservation.ErrInvalidDateRange)
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		s, err := reservation.NewStayWindow(
			time.Date(2030, 5, 1, 23, 59, 0, 0, time.UTC),
			time.Date(2030, 5, 2, 0, 1, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Nights())
		assert.Equal(t, day("2030-05-01"), s.CheckIn())
	})

	t.Run("nights and dates", func(t *testing.T) {
		s := stay(t, "2030-02-27", "2030-03-02")
		assert.Equal(t, 3, s.Nights())
		assert.Equal(t, []time.Time{day("2030-02-27"), day("2030-02-28"), day("2030-03-01")}, s.Dates())
	})

	t.Run("validate from today", func(t *testing.T) {
		s := stay(t, "2030-05-01", "2030-05-03")
		assert.NoError(t, s.ValidateFrom(day("2030-05-01")))
		assert.NoError(t, s.ValidateFrom(day("2030-04-01")))
		assert.ErrorIs(t, s.ValidateFrom(day("2030-05-02")), reservation.ErrInvalidDateRange)
	})

	t.Run("overlap is half-open and symmetric", func(t *testing.T) {
		base := stay(t, "2030-05-10", "2030-05-13")
		cases := []struct {
			name    string
			in, out string
			want    bool
		}{
			{"adjacent after", "2030-05-13", "2030-05-14", false},
			{"adjacent before", "2030-05-08", "2030-05-10", false},
			{"inside", "2030-05-11", "2030-05-12", true},
			{"covering", "2030-05-01", "2030-05-30", true},
			{"last night", "2030-05-12", "2030-05-15", true},
			{"first night", "2030-05-09", "2030-05-11", true},
			{"identical", "2030-05-10", "2030-05-13", true},
			{"disjoint", "2030-06-01", "2030-06-02", false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				other := stay(t, tc.in, tc.out)
				assert.Equal(t, tc.want, base.Overlaps(other))
				assert.Equal(t, tc.want, other.Overlaps(base))
			})
		}
	})
}

func TestGuestCount(t *testing.T) {
	_, err := reservation.NewGuestCount(0)
	assert.ErrorIs(t, err, reservation.ErrInvalidGuestCount)

	g, err := reservation.NewGuestCount(3)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Int())
}

func TestConfirmationCode(t *testing.T) {
	_, err := reservation.ParseConfirmationCode("HBAB12CD34")
	assert.NoError(t, err)

	for _, bad := range []string{"", "HB123", "hbAB12CD34", "HBAB12CD3!", "1BAB12CD34", "HBAB12CD345"} {
		_, err := reservation.ParseConfirmationCode(bad)
		assert.ErrorIs(t, err, reservation.ErrInvalidConfirmationCode, bad)
	}
}
