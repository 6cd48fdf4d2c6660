package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/tourism-booking/internal/model"
)

// TransferRepo provides access to the transfer route catalog.
type TransferRepo struct {
	db *sql.DB
}

// NewTransferRepo returns a new TransferRepo bound to the given database.
func NewTransferRepo(db *sql.DB) *TransferRepo { return &TransferRepo{db: db} }

// Create inserts a transfer route and populates the generated ID.
func (r *TransferRepo) Create(ctx context.Context, t *model.Transfer) error {
	const q = `INSERT INTO transfers (name, from_location, to_location, is_active) VALUES (?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.FromLocation, t.ToLocation)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns an active transfer or ErrTransferNotFound.
func (r *TransferRepo) GetByID(ctx context.Context, id uint64) (*model.Transfer, error) {
	const q = `SELECT id, name, from_location, to_location, is_active, created_at, updated_at
               FROM transfers WHERE id = ? AND is_active = TRUE`
	var t model.Transfer
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.FromLocation, &t.ToLocation, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all active transfers ordered by name.
func (r *TransferRepo) List(ctx context.Context) ([]model.Transfer, error) {
	const q = `SELECT id, name, from_location, to_location, is_active, created_at, updated_at
               FROM transfers WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Transfer, 0)
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(&t.ID, &t.Name, &t.FromLocation, &t.ToLocation, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// VehicleRepo provides access to the transfer vehicle catalog.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a new VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

// Create inserts a vehicle and populates the generated ID.
func (r *VehicleRepo) Create(ctx context.Context, v *model.TransferVehicle) error {
	const q = `INSERT INTO transfer_vehicles (name, plate_number, capacity, is_active) VALUES (?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.PlateNumber, v.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID returns an active vehicle or ErrVehicleNotFound.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*model.TransferVehicle, error) {
	const q = `SELECT id, name, plate_number, capacity, is_active, created_at, updated_at
               FROM transfer_vehicles WHERE id = ? AND is_active = TRUE`
	var v model.TransferVehicle
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Name, &v.PlateNumber, &v.Capacity, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all active vehicles ordered by name.
func (r *VehicleRepo) List(ctx context.Context) ([]model.TransferVehicle, error) {
	const q = `SELECT id, name, plate_number, capacity, is_active, created_at, updated_at
               FROM transfer_vehicles WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TransferVehicle, 0)
	for rows.Next() {
		var v model.TransferVehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.PlateNumber, &v.Capacity, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
