package calendar

import (
	"errors"
	"time"
)

// DateLayout is the ISO calendar date format used on every boundary.
const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("check-out must be after check-in")

// DateOf drops the time-of-day and normalizes to UTC midnight so that
// calendar dates compare and subtract exactly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(date time.Time, days int) time.Time {
	return DateOf(date).AddDate(0, 0, days)
}

// Nights counts calendar-day nights in the half-open stay [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) (int, error) {
	in, out := DateOf(checkIn), DateOf(checkOut)
	if !out.After(in) {
		return 0, ErrInvalidRange
	}
	return int(out.Sub(in) / (24 * time.Hour)), nil
}

func IsPastOrToday(date, today time.Time) bool {
	return !DateOf(date).After(DateOf(today))
}

func IsBefore(date, today time.Time) bool {
	return DateOf(date).Before(DateOf(today))
}

// Dates lists every night of the stay, check-in included and check-out excluded.
func Dates(checkIn, checkOut time.Time) []time.Time {
	n, err := Nights(checkIn, checkOut)
	if err != nil {
		return nil
	}
	out := make([]time.Time, n)
	for i := range n {
		out[i] = AddDays(checkIn, i)
	}
	return out
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

func Format(date time.Time) string {
	return DateOf(date).Format(DateLayout)
}
