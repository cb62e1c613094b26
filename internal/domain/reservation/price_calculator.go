package reservation

import (
	"hotel-reservation-engine/internal/domain/roomtype"
)

type PriceCalculator interface {
	CalculatePrice(room *roomtype.RoomType, stay StayWindow) (Money, error)
}

// NightlyRateCalculator prices a stay at base rate x nights.
type NightlyRateCalculator struct{}

func NewNightlyRateCalculator() *NightlyRateCalculator {
	return &NightlyRateCalculator{}
}

func (NightlyRateCalculator) CalculatePrice(room *roomtype.RoomType, stay StayWindow) (Money, error) {
	rate, err := NewMoney(room.NightlyRate())
	if err != nil {
		return Money{}, err
	}
	return Price(rate, stay.Nights()), nil
}

// Price is rate x nights rounded half-up to two decimals.
func Price(rate Money, nights int) Money {
	return rate.Times(nights)
}

// OverrideAwareCalculator prices each night at its override when the catalog has one.
type OverrideAwareCalculator struct {
	fallback NightlyRateCalculator
}

func NewOverrideAwareCalculator() *OverrideAwareCalculator {
	return &OverrideAwareCalculator{}
}

func (c OverrideAwareCalculator) CalculatePrice(room *roomtype.RoomType, stay StayWindow) (Money, error) {
	if !room.HasOverrides() {
		return c.fallback.CalculatePrice(room, stay)
	}

	total := ZeroMoney()
	for _, night := range stay.Dates() {
		nightly, err := NewMoney(room.RateFor(night))
		if err != nil {
			return Money{}, err
		}
		total = total.Add(nightly)
	}
	return NewMoney(total.Decimal())
}
