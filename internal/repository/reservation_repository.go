package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tourism-booking/internal/model"
)

// ReservationRepo provides CRUD operations for hotel reservations.
// Reservation rows are write-once-then-status-transitioned: after
// CreateTx the only mutations are the guarded confirm and cancel
// updates below.  All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for handlers that open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, reservation_number, hotel_id, room_type_id, customer_id, agent_id,
       check_in_date, check_out_date, nights, adult_count, child_count, room_count, guest_details,
       total_price_cents, paid_amount_cents, remaining_cents, currency, status, payment_status,
       special_requests, cancellation_policy, cancelled_at, cancellation_reason, confirmation_code,
       created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	var agentID sql.NullInt64
	var specialRequests, cancellationReason, confirmationCode sql.NullString
	var cancelledAt sql.NullTime
	var guestDetails, cancellationPolicy []byte
	err := row.Scan(
		&res.ID, &res.ReservationNumber, &res.HotelID, &res.RoomTypeID, &res.CustomerID, &agentID,
		&res.CheckInDate, &res.CheckOutDate, &res.Nights, &res.AdultCount, &res.ChildCount, &res.RoomCount, &guestDetails,
		&res.TotalPriceCents, &res.PaidAmountCents, &res.RemainingCents, &res.Currency, &res.Status, &res.PaymentStatus,
		&specialRequests, &cancellationPolicy, &cancelledAt, &cancellationReason, &confirmationCode,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.GuestDetails = guestDetails
	res.CancellationPolicy = cancellationPolicy
	if agentID.Valid {
		v := uint64(agentID.Int64)
		res.AgentID = &v
	}
	if specialRequests.Valid {
		v := specialRequests.String
		res.SpecialRequests = &v
	}
	if cancellationReason.Valid {
		v := cancellationReason.String
		res.CancellationReason = &v
	}
	if confirmationCode.Valid {
		v := confirmationCode.String
		res.ConfirmationCode = &v
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID.  The caller must commit
// or roll back; the inventory decrement for the same stay lives in the
// same transaction so record and ledger can never diverge.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
               (reservation_number, hotel_id, room_type_id, customer_id, agent_id,
                check_in_date, check_out_date, nights, adult_count, child_count, room_count, guest_details,
                total_price_cents, paid_amount_cents, remaining_cents, currency, status, payment_status,
                special_requests, cancellation_policy)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.ReservationNumber, res.HotelID, res.RoomTypeID, res.CustomerID, res.AgentID,
		res.CheckInDate.Format("2006-01-02"), res.CheckOutDate.Format("2006-01-02"),
		res.Nights, res.AdultCount, res.ChildCount, res.RoomCount, []byte(res.GuestDetails),
		res.TotalPriceCents, res.PaidAmountCents, res.RemainingCents, res.Currency, res.Status, res.PaymentStatus,
		res.SpecialRequests, []byte(res.CancellationPolicy),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// GetByNumber returns a reservation by its external reservation number.
func (r *ReservationRepo) GetByNumber(ctx context.Context, number string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_number = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, number))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ReservationFilter narrows List.  Zero values mean the dimension is
// not filtered; the check-in window applies only when both bounds are
// set.
type ReservationFilter struct {
	Status      string
	CustomerID  uint64
	AgentID     uint64
	HotelID     uint64
	CheckInFrom time.Time
	CheckInTo   time.Time
}

// List returns reservations matching the filter, newest first.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := make([]interface{}, 0, 6)
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
	if f.HotelID != 0 {
		q += " AND hotel_id = ?"
		args = append(args, f.HotelID)
	}
	if !f.CheckInFrom.IsZero() && !f.CheckInTo.IsZero() {
		q += " AND check_in_date BETWEEN ? AND ?"
		args = append(args, f.CheckInFrom.Format("2006-01-02"), f.CheckInTo.Format("2006-01-02"))
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Confirm transitions a reservation from pending to confirmed and
// assigns the confirmation code.  The status guard makes the update a
// no-op on any other state; zero rows affected means the reservation
// either does not exist or is not pending, which the caller
// distinguishes with a follow-up read.
func (r *ReservationRepo) Confirm(ctx context.Context, id uint64, confirmationCode string) error {
	const q = `UPDATE reservations
               SET status = ?, confirmation_code = ?
               WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.StatusConfirmed, confirmationCode, id, model.StatusPending)
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

// CancelTx marks a reservation cancelled within the caller's
// transaction, recording the reason and timestamp.  The status guard
// restricts the transition to active reservations, so a repeated
// cancel affects zero rows and returns ErrNotCancellable without the
// caller ever double-releasing inventory.
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64, reason string) error {
	const q = `UPDATE reservations
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
