package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getRoomType = `
SELECT id, hotel_id, name, capacity, nightly_rate
FROM room_types
WHERE id = $1`

func (q *Queries) GetRoomType(ctx context.Context, db DBTX, id uuid.UUID) (RoomType, error) {
	var i RoomType
	err := db.QueryRow(ctx, getRoomType, id).Scan(
		&i.ID,
		&i.HotelID,
		&i.Name,
		&i.Capacity,
		&i.NightlyRate,
	)
	return i, err
}

const listRateOverrides = `
SELECT stay_date, price
FROM room_rate_overrides
WHERE room_type_id = $1 AND stay_date >= $2 AND stay_date < $3
ORDER BY stay_date`

type ListRateOverridesParams struct {
	RoomTypeID uuid.UUID
	From       pgtype.Date
	To         pgtype.Date
}

func (q *Queries) ListRateOverrides(ctx context.Context, db DBTX, arg ListRateOverridesParams) ([]RateOverride, error) {
	rows, err := db.Query(ctx, listRateOverrides, arg.RoomTypeID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RateOverride
	for rows.Next() {
		var i RateOverride
		if err := rows.Scan(&i.StayDate, &i.Price); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
