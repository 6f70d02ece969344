package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"
)

const (
	transactionColumns = `id, user_id, order_id, withdrawal_id, amount, type, status, COALESCE(description, ''), created_at`

	insertTransaction = `INSERT INTO transactions (user_id, order_id, withdrawal_id, amount, type, status, description, created_at)
	                     VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	countTransactionsByUser = `SELECT count(*) FROM transactions WHERE user_id = $1 AND deleted_at IS NULL`

	selectTransactionsByUser = `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND deleted_at IS NULL
	                            ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	updateTransactionStatusByWithdrawal = `UPDATE transactions SET status = $1
	                                       WHERE withdrawal_id = $2 AND type = 'withdrawal' AND deleted_at IS NULL`

	selectRevenueByType = `SELECT type, COALESCE(SUM(amount), 0), count(*) FROM transactions
	                       WHERE type = $1 AND created_at >= $2 AND created_at <= $3 AND deleted_at IS NULL
	                       GROUP BY type`

	selectTransactionsFiltered = `SELECT ` + transactionColumns + ` FROM transactions WHERE deleted_at IS NULL`
)

type transactionRepository struct {
	db repository.DBTX
}

func NewTransactionRepository(db repository.DBTX) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func scanTransaction(row rowScanner, t *domain.Transaction) error {
	return row.Scan(&t.ID, &t.UserID, &t.OrderID, &t.WithdrawalID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.CreatedAt)
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	logger.DatabaseCall("INSERT", "transactions", "userID", t.UserID, "type", t.Type, "amount", t.Amount.StringFixed(2))
	t.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, insertTransaction, t.UserID, t.OrderID, t.WithdrawalID, t.Amount, t.Type, t.Status, t.Description, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return classify(err, "create transaction")
	}
	logger.DatabaseResult("INSERT", 1, nil, "transactionID", t.ID)
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countTransactionsByUser, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	list, err := r.list(ctx, selectTransactionsByUser, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

// List applies the optional filter fields as additional predicates.
func (r *transactionRepository) List(ctx context.Context, f domain.TransactionFilter, page, pageSize int32) ([]domain.Transaction, int32, error) {
	var sb strings.Builder
	sb.WriteString(selectTransactionsFiltered)
	args := []any{}
	add := func(clause string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, " AND %s $%d", clause, len(args))
	}
	if f.Type != "" {
		add("type =", f.Type)
	}
	if f.Status != "" {
		add("status =", f.Status)
	}
	if f.From != nil {
		add("created_at >=", *f.From)
	}
	if f.To != nil {
		add("created_at <=", *f.To)
	}
	query := sb.String()

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM ("+query+") AS sub", args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *transactionRepository) UpdateStatusByWithdrawal(ctx context.Context, withdrawalID int32, status domain.TransactionStatus) error {
	res, err := r.db.ExecContext(ctx, updateTransactionStatusByWithdrawal, status, withdrawalID)
	if err != nil {
		return fmt.Errorf("update withdrawal transaction: %w", err)
	}
	return requireAffected(res, "Transaction for withdrawal %d not found", withdrawalID)
}

func (r *transactionRepository) RevenueByType(ctx context.Context, txnType domain.TransactionType, from, to time.Time) ([]domain.RevenueLine, error) {
	rows, err := r.db.QueryContext(ctx, selectRevenueByType, txnType, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue report: %w", err)
	}
	defer rows.Close()

	var lines []domain.RevenueLine
	for rows.Next() {
		var l domain.RevenueLine
		if err := rows.Scan(&l.Type, &l.Total, &l.Count); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
