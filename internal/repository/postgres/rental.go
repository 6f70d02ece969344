package postgres

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"
)

const (
	insertRental = `INSERT INTO rentals (order_item_id, rental_start, rental_end, return_status, refund_amount, late_fee, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`

	rentalDetailSelect = `SELECT r.id, r.order_item_id, r.rental_start, r.rental_end, r.return_status, COALESCE(r.inspection_result, ''),
	                             r.refund_amount, r.late_fee, r.created_at, r.updated_at,
	                             oi.order_id, o.buyer_id, oi.item_id, oi.price
	                      FROM rentals r
	                      JOIN order_items oi ON oi.id = r.order_item_id
	                      JOIN orders o ON o.id = oi.order_id`

	selectRentalDetailByID = rentalDetailSelect + ` WHERE r.id = $1 AND r.deleted_at IS NULL AND o.deleted_at IS NULL`

	selectRentalDetailByIDForUpdate = selectRentalDetailByID + ` FOR UPDATE OF r`

	updateRental = `UPDATE rentals SET return_status = $1, inspection_result = $2, refund_amount = $3, late_fee = $4, updated_at = $5
	                WHERE id = $6 AND deleted_at IS NULL`

	countRentalsByBuyer = `SELECT count(*) FROM rentals r
	                       JOIN order_items oi ON oi.id = r.order_item_id
	                       JOIN orders o ON o.id = oi.order_id
	                       WHERE o.buyer_id = $1 AND r.deleted_at IS NULL AND o.deleted_at IS NULL`

	selectRentalsByBuyer = rentalDetailSelect + ` WHERE o.buyer_id = $1 AND r.deleted_at IS NULL AND o.deleted_at IS NULL
	                       ORDER BY r.rental_end DESC LIMIT $2 OFFSET $3`

	selectRentalsDueBetween = rentalDetailSelect + ` WHERE r.return_status = 'pending' AND r.rental_end >= $1 AND r.rental_end < $2
	                          AND r.deleted_at IS NULL AND o.deleted_at IS NULL ORDER BY r.rental_end`
)

type rentalRepository struct {
	db repository.DBTX
}

func NewRentalRepository(db repository.DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRentalDetail(row rowScanner, d *domain.RentalDetail) error {
	return row.Scan(&d.ID, &d.OrderLineID, &d.RentalStart, &d.RentalEnd, &d.ReturnStatus, &d.InspectionResult,
		&d.RefundAmount, &d.LateFee, &d.CreatedAt, &d.UpdatedAt,
		&d.OrderID, &d.BuyerID, &d.ItemID, &d.LinePrice)
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	now := time.Now()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertRental, rt.OrderLineID, rt.RentalStart, rt.RentalEnd, rt.ReturnStatus, rt.RefundAmount, rt.LateFee, now).Scan(&rt.ID)
	return classify(err, "create rental")
}

func (r *rentalRepository) GetDetailByID(ctx context.Context, id int32) (*domain.RentalDetail, error) {
	d := &domain.RentalDetail{}
	if err := scanRentalDetail(r.db.QueryRowContext(ctx, selectRentalDetailByID, id), d); err != nil {
		return nil, notFound(err, "Rental not found")
	}
	return d, nil
}

func (r *rentalRepository) GetDetailByIDForUpdate(ctx context.Context, id int32) (*domain.RentalDetail, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "rentals", "rentalID", id)
	d := &domain.RentalDetail{}
	if err := scanRentalDetail(r.db.QueryRowContext(ctx, selectRentalDetailByIDForUpdate, id), d); err != nil {
		return nil, notFound(err, "Rental not found")
	}
	return d, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	rt.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, updateRental, rt.ReturnStatus, rt.InspectionResult, rt.RefundAmount, rt.LateFee, rt.UpdatedAt, rt.ID)
	if err != nil {
		return fmt.Errorf("update rental: %w", err)
	}
	return requireAffected(res, "Rental not found")
}

func (r *rentalRepository) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.RentalDetail, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countRentalsByBuyer, buyerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	list, err := r.list(ctx, selectRentalsByBuyer, buyerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

func (r *rentalRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.RentalDetail, error) {
	return r.list(ctx, selectRentalsDueBetween, from, to)
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...any) ([]domain.RentalDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	defer rows.Close()

	var list []domain.RentalDetail
	for rows.Next() {
		var d domain.RentalDetail
		if err := scanRentalDetail(rows, &d); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
