package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"

	"github.com/lib/pq"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	uniqueViolation = "23505"
)

type repos struct {
	users         repository.UserRepository
	items         repository.ItemRepository
	carts         repository.CartRepository
	negotiations  repository.NegotiationRepository
	orders        repository.OrderRepository
	rentals       repository.RentalRepository
	deliveries    repository.DeliveryRepository
	transactions  repository.TransactionRepository
	withdrawals   repository.WithdrawalRepository
	notifications repository.NotificationRepository
	adminConfigs  repository.AdminConfigRepository
}

func newRepos(q repository.DBTX) *repos {
	return &repos{
		users:         NewUserRepository(q),
		items:         NewItemRepository(q),
		carts:         NewCartRepository(q),
		negotiations:  NewNegotiationRepository(q),
		orders:        NewOrderRepository(q),
		rentals:       NewRentalRepository(q),
		deliveries:    NewDeliveryRepository(q),
		transactions:  NewTransactionRepository(q),
		withdrawals:   NewWithdrawalRepository(q),
		notifications: NewNotificationRepository(q),
		adminConfigs:  NewAdminConfigRepository(q),
	}
}

func (r *repos) Users() repository.UserRepository                 { return r.users }
func (r *repos) Items() repository.ItemRepository                 { return r.items }
func (r *repos) Carts() repository.CartRepository                 { return r.carts }
func (r *repos) Negotiations() repository.NegotiationRepository   { return r.negotiations }
func (r *repos) Orders() repository.OrderRepository               { return r.orders }
func (r *repos) Rentals() repository.RentalRepository             { return r.rentals }
func (r *repos) Deliveries() repository.DeliveryRepository        { return r.deliveries }
func (r *repos) Transactions() repository.TransactionRepository   { return r.transactions }
func (r *repos) Withdrawals() repository.WithdrawalRepository     { return r.withdrawals }
func (r *repos) Notifications() repository.NotificationRepository { return r.notifications }
func (r *repos) AdminConfigs() repository.AdminConfigRepository   { return r.adminConfigs }

// Store exposes every repository bound to the connection pool and runs
// units of work against a single *sql.Tx.
type Store struct {
	*repos
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		repos: newRepos(db),
		db:    db,
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx begins a transaction, hands fn repositories bound to it and commits
// when fn succeeds. Any error or panic from fn rolls the transaction back.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Repos) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// notFound maps sql.ErrNoRows to a NotFound application error.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// classify maps unique violations to Conflict and wraps anything else.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperror.Wrap(apperror.KindConflict, err, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns a zero-row update into a NotFound error.
func requireAffected(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound(format, args...)
	}
	return nil
}

func paginate(page, pageSize int32) (limit, offset int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
