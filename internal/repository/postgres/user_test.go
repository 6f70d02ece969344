package postgres_test

import (
	"context"
	"testing"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1 AND deleted_at IS NULL FOR UPDATE").
		WithArgs(int32(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "name", "address", "role", "status", "is_verified", "balance", "created_at", "updated_at"}).
			AddRow(2, "buyer@test.com", "", "Buyer", "", "user", "active", true, "120.50", now, now))

	u, err := repo.GetByIDForUpdate(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusActive, u.Status)
	assert.True(t, u.Balance.Equal(decimal.RequireFromString("120.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance = \\$1").
			WithArgs(decimal.NewFromInt(350), sqlmock.AnyArg(), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateBalance(ctx, 2, decimal.NewFromInt(350)))
	})

	t.Run("Deleted user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance = \\$1").
			WithArgs(decimal.NewFromInt(10), sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateBalance(ctx, 3, decimal.NewFromInt(10))
		assert.True(t, apperror.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
