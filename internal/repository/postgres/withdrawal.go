package postgres

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"
)

const (
	withdrawalColumns = `id, user_id, amount, status, processed_at, created_at, updated_at`

	insertWithdrawal = `INSERT INTO withdrawal_requests (user_id, amount, status, created_at, updated_at)
	                    VALUES ($1, $2, $3, $4, $4) RETURNING id`

	selectWithdrawalByIDForUpdate = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`

	updateWithdrawalStatus = `UPDATE withdrawal_requests SET status = $1, processed_at = $2, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	countWithdrawalsByUser = `SELECT count(*) FROM withdrawal_requests WHERE user_id = $1 AND deleted_at IS NULL`

	selectWithdrawalsByUser = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_id = $1 AND deleted_at IS NULL
	                           ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	countWithdrawals = `SELECT count(*) FROM withdrawal_requests WHERE ($1 = '' OR status = $1) AND deleted_at IS NULL`

	selectWithdrawals = `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE ($1 = '' OR status = $1) AND deleted_at IS NULL
	                     ORDER BY created_at DESC LIMIT $2 OFFSET $3`
)

type withdrawalRepository struct {
	db repository.DBTX
}

func NewWithdrawalRepository(db repository.DBTX) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func scanWithdrawal(row rowScanner, w *domain.WithdrawalRequest) error {
	return row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Status, &w.ProcessedAt, &w.CreatedAt, &w.UpdatedAt)
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertWithdrawal, w.UserID, w.Amount, w.Status, now).Scan(&w.ID)
	return classify(err, "create withdrawal request")
}

func (r *withdrawalRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.WithdrawalRequest, error) {
	w := &domain.WithdrawalRequest{}
	if err := scanWithdrawal(r.db.QueryRowContext(ctx, selectWithdrawalByIDForUpdate, id), w); err != nil {
		return nil, notFound(err, "Withdrawal request not found")
	}
	return w, nil
}

func (r *withdrawalRepository) UpdateStatus(ctx context.Context, id int32, status domain.WithdrawalStatus, processedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, updateWithdrawalStatus, status, processedAt, id)
	if err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	return requireAffected(res, "Withdrawal request not found")
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countWithdrawalsByUser, userID).Scan(&count); err != nil {
		return nil, 0, err
	}
	limit, offset := paginate(page, pageSize)
	list, err := r.list(ctx, selectWithdrawalsByUser, userID, limit, offset)
	return list, count, err
}

func (r *withdrawalRepository) List(ctx context.Context, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countWithdrawals, string(status)).Scan(&count); err != nil {
		return nil, 0, err
	}
	limit, offset := paginate(page, pageSize)
	list, err := r.list(ctx, selectWithdrawals, string(status), limit, offset)
	return list, count, err
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]domain.WithdrawalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list withdrawal requests: %w", err)
	}
	defer rows.Close()

	var list []domain.WithdrawalRequest
	for rows.Next() {
		var w domain.WithdrawalRequest
		if err := scanWithdrawal(rows, &w); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
