package postgres

import (
	"context"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	userColumns = `id, email, COALESCE(phone, ''), name, COALESCE(address, ''), role, status, is_verified, balance, created_at, updated_at`

	selectUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	selectUserByIDForUpdate = selectUserByID + ` FOR UPDATE`

	updateUserBalance = `UPDATE users SET balance = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
)

type userRepository struct {
	db repository.DBTX
}

func NewUserRepository(db repository.DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	return r.get(ctx, selectUserByID, id)
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "users", "userID", id)
	return r.get(ctx, selectUserByIDForUpdate, id)
}

func (r *userRepository) get(ctx context.Context, query string, id int32) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Phone, &u.Name, &u.Address, &u.Role, &u.Status, &u.IsVerified, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "User %d not found", id)
	}
	return u, nil
}

func (r *userRepository) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) error {
	logger.DatabaseCall("UPDATE", "users", "userID", id, "balance", balance.StringFixed(2))
	res, err := r.db.ExecContext(ctx, updateUserBalance, balance, time.Now(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return classify(err, "update balance")
	}
	return requireAffected(res, "User %d not found", id)
}
