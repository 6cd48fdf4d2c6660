package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/tourism-booking/internal/model"
	"github.com/iliyamo/tourism-booking/internal/utils"
)

// UserRepo provides access to the users table.  Customers and agents
// share the table; the role column distinguishes them.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &phone,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = phone.String
	}
	return &u, nil
}

// Create inserts a new user and populates the generated ID.  A unique
// index on email maps duplicate registrations to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_active)
               VALUES (?, ?, ?, ?, ?, ?, TRUE)`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail returns a user by email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// GetByID returns a user by ID or ErrCustomerNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	return u, err
}

// ResolveCustomerTx finds the customer account matching the email or
// creates one inside the caller's transaction.  New accounts get the
// customer role and a random placeholder password; the account is a
// booking anchor, not a login the guest chose, so a real credential is
// established later through the usual reset flow.
func (r *UserRepo) ResolveCustomerTx(ctx context.Context, tx *sql.Tx, email, firstName, lastName, phone string, bcryptCost int) (uint64, error) {
	const sel = `SELECT id FROM users WHERE email = ?`
	var id uint64
	err := tx.QueryRowContext(ctx, sel, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	pw, err := utils.RandomPassword(24)
	if err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(pw, bcryptCost)
	if err != nil {
		return 0, err
	}
	const ins = `INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_active)
                 VALUES (?, ?, ?, ?, ?, ?, TRUE)`
	res, err := tx.ExecContext(ctx, ins, email, hash, firstName, lastName, phone, model.RoleCustomer)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}
