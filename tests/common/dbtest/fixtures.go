//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both a pool and a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestHotel(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	hotelID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO hotels (id, name, city) VALUES ($1, $2, 'Testville')", hotelID, name)
	require.NoError(t, err)
	return hotelID
}

// CreateTestRoomType inserts a room type; rate is a decimal string such as "120.00".
func CreateTestRoomType(t *testing.T, db DBLike, hotelID uuid.UUID, name string, capacity int, rate string) uuid.UUID {
	t.Helper()

	roomTypeID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO room_types (id, hotel_id, name, capacity, nightly_rate) VALUES ($1, $2, $3, $4, $5::numeric)",
		roomTypeID, hotelID, name, capacity, rate)
	require.NoError(t, err)
	return roomTypeID
}

func CreateRateOverride(t *testing.T, db DBLike, roomTypeID uuid.UUID, date, price string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO room_rate_overrides (room_type_id, stay_date, price) VALUES ($1, $2::date, $3::numeric)",
		roomTypeID, date, price)
	require.NoError(t, err)
}

// CreateTestReservation writes a reservation row directly, bypassing the booking rules.
func CreateTestReservation(
	t *testing.T,
	db DBLike,
	hotelID, roomTypeID, customerID uuid.UUID,
	checkIn, checkOut string,
	status string,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	code := "TS" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:8]
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, confirmation_code, customer_id, hotel_id, room_type_id,
			check_in, check_out, guest_count, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, 1, 100.00, $8, $9, $9)`,
		id, code, customerID, hotelID, roomTypeID, checkIn, checkOut, status, now)
	require.NoError(t, err)
	return id
}

func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

func CountReservations(t *testing.T, db DBLike, roomTypeID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservations WHERE room_type_id = $1", roomTypeID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table except the migration ledger.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
