package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tourism-booking/internal/model"
)

func TestUserRepo_ResolveCustomerTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	ctx := context.Background()

	t.Run("ExistingEmailIsReused", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM users WHERE email = \\?").
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

		tx, err := db.Begin()
		require.NoError(t, err)
		id, err := repo.ResolveCustomerTx(ctx, tx, "ada@example.com", "Ada", "Lovelace", "", 4)
		assert.NoError(t, err)
		assert.Equal(t, uint64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownEmailCreatesCustomer", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM users WHERE email = \\?").
			WithArgs("new@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO users").
			WithArgs("new@example.com", sqlmock.AnyArg(), "New", "Guest", "+90 555 000 0000", model.RoleCustomer).
			WillReturnResult(sqlmock.NewResult(43, 1))

		tx, err := db.Begin()
		require.NoError(t, err)
		id, err := repo.ResolveCustomerTx(ctx, tx, "new@example.com", "New", "Guest", "+90 555 000 0000", 4)
		assert.NoError(t, err)
		assert.Equal(t, uint64(43), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
