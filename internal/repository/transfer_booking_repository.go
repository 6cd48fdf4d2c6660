package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/tourism-booking/internal/model"
)

// TransferBookingRepo provides CRUD operations for transfer bookings.
// Like reservations, booking rows only change state through the guarded
// confirm and cancel updates.
type TransferBookingRepo struct {
	db *sql.DB
}

// NewTransferBookingRepo returns a new TransferBookingRepo.
func NewTransferBookingRepo(db *sql.DB) *TransferBookingRepo { return &TransferBookingRepo{db: db} }

// DB exposes the underlying handle for handlers that open transactions.
func (r *TransferBookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, booking_reference, schedule_id, customer_id, agent_id, passenger_count,
       passenger_details, total_price_cents, paid_amount_cents, currency, status, payment_status,
       payment_due_date, pickup_location, dropoff_location, special_requests,
       cancellation_reason, cancelled_at, notes, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*model.TransferBooking, error) {
	var b model.TransferBooking
	var agentID sql.NullInt64
	var pickup, dropoff, special, cancelReason, notes sql.NullString
	var dueDate, cancelledAt sql.NullTime
	var passengerDetails []byte
	err := row.Scan(
		&b.ID, &b.BookingReference, &b.ScheduleID, &b.CustomerID, &agentID, &b.PassengerCount,
		&passengerDetails, &b.TotalPriceCents, &b.PaidAmountCents, &b.Currency, &b.Status, &b.PaymentStatus,
		&dueDate, &pickup, &dropoff, &special,
		&cancelReason, &cancelledAt, &notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.PassengerDetails = passengerDetails
	if agentID.Valid {
		v := uint64(agentID.Int64)
		b.AgentID = &v
	}
	if dueDate.Valid {
		t := dueDate.Time
		b.PaymentDueDate = &t
	}
	if pickup.Valid {
		v := pickup.String
		b.PickupLocation = &v
	}
	if dropoff.Valid {
		v := dropoff.String
		b.DropoffLocation = &v
	}
	if special.Valid {
		v := special.String
		b.SpecialRequests = &v
	}
	if cancelReason.Valid {
		v := cancelReason.String
		b.CancellationReason = &v
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	if notes.Valid {
		v := notes.String
		b.Notes = &v
	}
	return &b, nil
}

// ReferenceExists reports whether a booking reference is already taken.
// Used by the bounded retry loop that generates references.
func (r *TransferBookingRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	const q = `SELECT COUNT(*) FROM transfer_bookings WHERE booking_reference = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, reference).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a booking inside the caller's transaction and
// populates the generated ID.  The seat increment on the schedule row
// belongs to the same transaction.
func (r *TransferBookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.TransferBooking) error {
	const q = `INSERT INTO transfer_bookings
               (booking_reference, schedule_id, customer_id, agent_id, passenger_count,
                passenger_details, total_price_cents, paid_amount_cents, currency, status, payment_status,
                payment_due_date, pickup_location, dropoff_location, special_requests, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.BookingReference, b.ScheduleID, b.CustomerID, b.AgentID, b.PassengerCount,
		[]byte(b.PassengerDetails), b.TotalPriceCents, b.PaidAmountCents, b.Currency, b.Status, b.PaymentStatus,
		b.PaymentDueDate, b.PickupLocation, b.DropoffLocation, b.SpecialRequests, b.Notes,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns a booking or ErrBookingNotFound.
func (r *TransferBookingRepo) GetByID(ctx context.Context, id uint64) (*model.TransferBooking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM transfer_bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetByReference returns a booking by its external reference.
func (r *TransferBookingRepo) GetByReference(ctx context.Context, reference string) (*model.TransferBooking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM transfer_bookings WHERE booking_reference = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, reference))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// BookingFilter narrows List.  Zero values mean the dimension is not
// filtered.
type BookingFilter struct {
	Status     string
	CustomerID uint64
	AgentID    uint64
	ScheduleID uint64
}

// List returns bookings matching the filter, newest first.
func (r *TransferBookingRepo) List(ctx context.Context, f BookingFilter) ([]model.TransferBooking, error) {
	q := `SELECT ` + bookingColumns + ` FROM transfer_bookings WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.CustomerID != 0 {
		q += " AND customer_id = ?"
		args = append(args, f.CustomerID)
	}
	if f.AgentID != 0 {
		q += " AND agent_id = ?"
		args = append(args, f.AgentID)
	}
	if f.ScheduleID != 0 {
		q += " AND schedule_id = ?"
		args = append(args, f.ScheduleID)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TransferBooking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Confirm transitions a booking from pending to confirmed.  Zero rows
// affected means the booking has already left the pending state.
func (r *TransferBookingRepo) Confirm(ctx context.Context, id uint64) error {
	const q = `UPDATE transfer_bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.StatusConfirmed, id, model.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotPending
	}
	return nil
}

// CancelTx marks a booking cancelled inside the caller's transaction.
// The status guard keeps a repeated cancel from affecting any row, so
// seats are never released twice.
func (r *TransferBookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, reason string) error {
	const q = `UPDATE transfer_bookings
               SET status = ?, cancelled_at = UTC_TIMESTAMP(), cancellation_reason = ?
               WHERE id = ? AND status IN (?, ?)`
	res, err := tx.ExecContext(ctx, q, model.StatusCancelled, reason, id, model.StatusPending, model.StatusConfirmed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotCancellable
	}
	return nil
}
