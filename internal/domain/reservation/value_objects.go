package reservation

import (
	"regexp"
	"time"

	"hotel-reservation-engine/internal/pkg/calendar"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Money is a non-negative amount in the single house currency with two decimal places.
type Money struct {
	amount decimal.Decimal
}

// NewMoney rounds half-up to two decimals.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: amount.Round(moneyScale)}, nil
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d)
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Times(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))).Round(moneyScale)}
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// StayWindow is the half-open date range [checkIn, checkOut).
type StayWindow struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayWindow(checkIn, checkOut time.Time) (StayWindow, error) {
	in, out := calendar.DateOf(checkIn), calendar.DateOf(checkOut)
	if !in.Before(out) {
		return StayWindow{}, ErrInvalidDateRange
	}
	return StayWindow{checkIn: in, checkOut: out}, nil
}

// ValidateFrom rejects stays that start before today.
func (s StayWindow) ValidateFrom(today time.Time) error {
	if calendar.IsBefore(s.checkIn, today) {
		return ErrInvalidDateRange
	}
	return nil
}

func (s StayWindow) Nights() int {
	n, _ := calendar.Nights(s.checkIn, s.checkOut)
	return n
}

// Overlaps applies a < d && c < b, so a check-out and a check-in on the same day do not overlap.
func (s StayWindow) Overlaps(other StayWindow) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

func (s StayWindow) Dates() []time.Time {
	return calendar.Dates(s.checkIn, s.checkOut)
}

func (s StayWindow) CheckIn() time.Time  { return s.checkIn }
func (s StayWindow) CheckOut() time.Time { return s.checkOut }
func (s StayWindow) IsZero() bool        { return s.checkIn.IsZero() && s.checkOut.IsZero() }

type GuestCount struct {
	value int
}

func NewGuestCount(n int) (GuestCount, error) {
	if n <= 0 {
		return GuestCount{}, ErrInvalidGuestCount
	}
	return GuestCount{value: n}, nil
}

func (g GuestCount) Int() int {
	return g.value
}

var codePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{8}$`)

type ConfirmationCode struct {
	value string
}

func ParseConfirmationCode(s string) (ConfirmationCode, error) {
	if !codePattern.MatchString(s) {
		return ConfirmationCode{}, ErrInvalidConfirmationCode
	}
	return ConfirmationCode{value: s}, nil
}

func (c ConfirmationCode) String() string {
	return c.value
}

func (c ConfirmationCode) IsZero() bool {
	return c.value == ""
}
