package repository // repository for transfer schedules and the seat ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// ScheduleRepo provides data access to transfer_schedules.  Besides the
// catalog lookups it implements the seat ledger: booked_seats is only
// ever moved through the conditionally-guarded statements below, never
// through a read-modify-write cycle.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo given a DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the seat ledger and the booking row.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, transfer_id, vehicle_id, schedule_date, departure_time, arrival_time,
       available_seats, booked_seats, special_price_cents, notes, is_active, created_at, updated_at`

func scanSchedule(row interface{ Scan(...interface{}) error }) (*model.TransferSchedule, error) {
	var s model.TransferSchedule
	var arrival, notes sql.NullString
	var special sql.NullInt64
	err := row.Scan(&s.ID, &s.TransferID, &s.VehicleID, &s.ScheduleDate, &s.DepartureTime, &arrival,
		&s.AvailableSeats, &s.BookedSeats, &special, &notes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if arrival.Valid {
		v := arrival.String
		s.ArrivalTime = &v
	}
	if notes.Valid {
		v := notes.String
		s.Notes = &v
	}
	if special.Valid {
		v := special.Int64
		s.SpecialPriceCents = &v
	}
	return &s, nil
}

// Create inserts a schedule row and populates the generated ID.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.TransferSchedule) error {
	const q = `INSERT INTO transfer_schedules
               (transfer_id, vehicle_id, schedule_date, departure_time, arrival_time, available_seats, booked_seats, special_price_cents, notes, is_active)
               VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q,
		s.TransferID, s.VehicleID, utils.DateOnly(s.ScheduleDate).Format("2006-01-02"), s.DepartureTime,
		s.ArrivalTime, s.AvailableSeats, s.SpecialPriceCents, s.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns an active schedule or ErrScheduleNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.TransferSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM transfer_schedules WHERE id = ? AND is_active = TRUE`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	return s, err
}

// ScheduleFilter narrows the schedule search.  Zero values mean the
// dimension is not filtered.
type ScheduleFilter struct {
	TransferID         uint64
	VehicleID          uint64
	DateFrom           time.Time
	DateTo             time.Time
	AvailableSeatsOnly bool
}

// Search returns active schedules matching the filter ordered by date.
func (r *ScheduleRepo) Search(ctx context.Context, f ScheduleFilter) ([]model.TransferSchedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM transfer_schedules WHERE is_active = TRUE`
	args := make([]interface{}, 0, 4)
	if f.TransferID != 0 {
		q += " AND transfer_id = ?"
		args = append(args, f.TransferID)
	}
	if f.VehicleID != 0 {
		q += " AND vehicle_id = ?"
		args = append(args, f.VehicleID)
	}
	if !f.DateFrom.IsZero() {
		q += " AND schedule_date >= ?"
		args = append(args, utils.DateOnly(f.DateFrom).Format("2006-01-02"))
	}
	if !f.DateTo.IsZero() {
		q += " AND schedule_date <= ?"
		args = append(args, utils.DateOnly(f.DateTo).Format("2006-01-02"))
	}
	if f.AvailableSeatsOnly {
		q += " AND booked_seats < available_seats"
	}
	q += " ORDER BY schedule_date, departure_time"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TransferSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// ReserveSeatsTx increments booked_seats by count inside the caller's
// transaction, guarded by the remaining-seat invariant.  When the guard
// rejects the update (zero rows affected) the schedule either does not
// exist or cannot seat the party, and ErrInsufficientSeats is returned;
// callers resolve the schedule beforehand so the ambiguity is theirs to
// rule out.
func (r *ScheduleRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, count int) error {
	const q = `UPDATE transfer_schedules
               SET booked_seats = booked_seats + ?
               WHERE id = ? AND is_active = TRUE AND available_seats - booked_seats >= ?`
	res, err := tx.ExecContext(ctx, q, count, scheduleID, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientSeats
	}
	return nil
}

// ReleaseSeatsTx decrements booked_seats by count, clamped so the
// counter never goes below zero.  Compensating action for a prior
// successful ReserveSeatsTx.
func (r *ScheduleRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, count int) error {
	const q = `UPDATE transfer_schedules
               SET booked_seats = GREATEST(booked_seats - ?, 0)
               WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, count, scheduleID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
