package repository // repository for the room inventory ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// InventoryRepo is the inventory ledger: it owns the per-(room type,
// date) capacity counters and is the only component allowed to mutate
// them.  Reserve and release are expressed as conditionally-guarded
// UPDATE statements so that concurrent requests against the same rows
// can never oversell capacity; the guard replaces the unsafe
// read-compare-write sequence.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo given a DB handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the ledger and the reservation row.
func (r *InventoryRepo) DB() *sql.DB { return r.db }

// InitCalendar seeds one inventory row per date of the half-open range
// [from, to) with the given total room count and full availability.
// It inserts all rows in a single multi-VALUES statement; the unique
// key on (room_type_id, date) rejects re-seeding dates that already
// exist.
func (r *InventoryRepo) InitCalendar(ctx context.Context, roomTypeID uint64, from, to time.Time, totalRooms int) (int, error) {
	dates := utils.DateRange(from, to)
	if len(dates) == 0 {
		return 0, nil
	}
	query := `INSERT INTO room_inventory (room_type_id, date, total_rooms, available_rooms, blocked_rooms) VALUES `
	args := make([]interface{}, 0, len(dates)*5)
	for i, d := range dates {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, 0)"
		args = append(args, roomTypeID, d.Format("2006-01-02"), totalRooms, totalRooms)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return len(dates), nil
}

// CheckAvailability reports whether every date of [checkIn, checkOut)
// has an inventory row with at least roomCount available rooms.  A
// missing row for any date counts as unavailable.  The check is purely
// advisory: the authoritative guard is the conditional decrement in
// ReserveTx, which re-validates under concurrency.
func (r *InventoryRepo) CheckAvailability(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time, roomCount int) (bool, error) {
	nights := len(utils.DateRange(checkIn, checkOut))
	if nights == 0 {
		return false, nil
	}
	const q = `SELECT COUNT(*) FROM room_inventory
               WHERE room_type_id = ? AND date >= ? AND date < ? AND available_rooms >= ?`
	var n int
	err := r.db.QueryRowContext(ctx, q,
		roomTypeID,
		utils.DateOnly(checkIn).Format("2006-01-02"),
		utils.DateOnly(checkOut).Format("2006-01-02"),
		roomCount,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == nights, nil
}

// ReserveTx decrements available_rooms by count for every date of the
// half-open range inside the caller's transaction.  Each UPDATE is
// guarded by `available_rooms >= count`; if any date matches no row
// (missing or short on capacity) the method returns
// ErrInsufficientAvailability and the caller must roll back, so no
// partial decrement ever survives.
func (r *InventoryRepo) ReserveTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, checkIn, checkOut time.Time, count int) error {
	const q = `UPDATE room_inventory
               SET available_rooms = available_rooms - ?
               WHERE room_type_id = ? AND date = ? AND available_rooms >= ?`
	for _, d := range utils.DateRange(checkIn, checkOut) {
		res, err := tx.ExecContext(ctx, q, count, roomTypeID, d.Format("2006-01-02"), count)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrInsufficientAvailability
		}
	}
	return nil
}

// ReleaseTx increments available_rooms by count for every date of the
// range.  It is a compensating action for a prior successful ReserveTx
// with the same range and count, not a general replenishment; a date
// without an inventory row indicates ledger corruption and is surfaced
// as sql.ErrNoRows.
func (r *InventoryRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, checkIn, checkOut time.Time, count int) error {
	const q = `UPDATE room_inventory
               SET available_rooms = available_rooms + ?
               WHERE room_type_id = ? AND date = ?`
	for _, d := range utils.DateRange(checkIn, checkOut) {
		res, err := tx.ExecContext(ctx, q, count, roomTypeID, d.Format("2006-01-02"))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
	}
	return nil
}

// ListCalendar returns the inventory rows for a room type over the
// half-open range, ordered by date.  Used by the catalog endpoints to
// display the calendar; the booking path never reads through here.
func (r *InventoryRepo) ListCalendar(ctx context.Context, roomTypeID uint64, from, to time.Time) ([]model.RoomInventory, error) {
	const q = `SELECT id, room_type_id, date, total_rooms, available_rooms, blocked_rooms, block_reason, created_at, updated_at
               FROM room_inventory
               WHERE room_type_id = ? AND date >= ? AND date < ?
               ORDER BY date`
	rows, err := r.db.QueryContext(ctx, q,
		roomTypeID,
		utils.DateOnly(from).Format("2006-01-02"),
		utils.DateOnly(to).Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomInventory, 0)
	for rows.Next() {
		var inv model.RoomInventory
		var reason sql.NullString
		if err := rows.Scan(&inv.ID, &inv.RoomTypeID, &inv.Date, &inv.TotalRooms, &inv.AvailableRooms, &inv.BlockedRooms, &reason, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			s := reason.String
			inv.BlockReason = &s
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
