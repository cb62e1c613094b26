//go:build unit || e2e

package builder

import (
	"time"

	"hotel-reservation-engine/internal/domain/roomtype"
	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoomTypeBuilder struct {
	ID          uuid.UUID
	HotelID     uuid.UUID
	Name        string
	Capacity    int
	NightlyRate string
	Overrides   map[time.Time]string
}

func NewRoomTypeBuilder() *RoomTypeBuilder {
	return &RoomTypeBuilder{
		ID:          uuid.New(),
		HotelID:     uuid.New(),
		Name:        "Deluxe Double",
		Capacity:    2,
		NightlyRate: "1000.00",
		Overrides:   map[time.Time]string{},
	}
}

func (b *RoomTypeBuilder) With(mutate func(*RoomTypeBuilder)) *RoomTypeBuilder {
	mutate(b)
	return b
}

func (b *RoomTypeBuilder) WithCapacity(capacity int) *RoomTypeBuilder {
	b.Capacity = capacity
	return b
}

func (b *RoomTypeBuilder) WithRate(rate string) *RoomTypeBuilder {
	b.NightlyRate = rate
	return b
}

func (b *RoomTypeBuilder) WithOverride(date time.Time, price string) *RoomTypeBuilder {
	b.Overrides[date] = price
	return b
}

func (b *RoomTypeBuilder) BuildSnapshot() *shared.RoomTypeSnapshot {
	snap := &shared.RoomTypeSnapshot{
		ID:          b.ID,
		HotelID:     b.HotelID,
		Name:        b.Name,
		Capacity:    b.Capacity,
		NightlyRate: decimal.RequireFromString(b.NightlyRate),
	}
	for date, price := range b.Overrides {
		snap.Overrides = append(snap.Overrides, shared.RateOverrideSnapshot{
			Date:  date,
			Price: decimal.RequireFromString(price),
		})
	}
	return snap
}

func (b *RoomTypeBuilder) BuildDomain() (*roomtype.RoomType, error) {
	overrides := make([]roomtype.RateOverride, 0, len(b.Overrides))
	for date, price := range b.Overrides {
		overrides = append(overrides, roomtype.RateOverride{Date: date, Price: decimal.RequireFromString(price)})
	}
	return roomtype.NewRoomType(b.ID, b.HotelID, b.Name, b.Capacity, decimal.RequireFromString(b.NightlyRate), overrides)
}

func (b *RoomTypeBuilder) MustBuildDomain() *roomtype.RoomType {
	rt, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return rt
}
