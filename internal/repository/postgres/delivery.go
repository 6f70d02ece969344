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
	deliveryColumns = `d.id, d.order_id, o.buyer_id, d.from_address, d.to_address, d.tracking_id, d.is_return, d.status, d.created_at, d.updated_at`

	insertDelivery = `INSERT INTO deliveries (order_id, from_address, to_address, tracking_id, is_return, status, created_at, updated_at)
	                  VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`

	selectDeliveries = `SELECT ` + deliveryColumns + ` FROM deliveries d JOIN orders o ON o.id = d.order_id
	                    WHERE d.deleted_at IS NULL AND o.deleted_at IS NULL`

	selectDeliveryByID = selectDeliveries + ` AND d.id = $1`

	// A null tracking id keeps the one already stored.
	updateDeliveryStatus = `UPDATE deliveries SET status = $1, tracking_id = COALESCE($2, tracking_id), updated_at = $3
	                        WHERE id = $4 AND deleted_at IS NULL`
)

type deliveryRepository struct {
	db repository.DBTX
}

func NewDeliveryRepository(db repository.DBTX) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func scanDelivery(row rowScanner, d *domain.Delivery) error {
	return row.Scan(&d.ID, &d.OrderID, &d.BuyerID, &d.FromAddress, &d.ToAddress, &d.TrackingID, &d.IsReturn, &d.Status, &d.CreatedAt, &d.UpdatedAt)
}

func (r *deliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	logger.DatabaseCall("INSERT", "deliveries", "orderID", d.OrderID, "isReturn", d.IsReturn)
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertDelivery,
		d.OrderID, d.FromAddress, d.ToAddress, d.TrackingID, d.IsReturn, d.Status, now,
	).Scan(&d.ID)
	if err != nil {
		return classify(err, "create delivery")
	}
	return nil
}

func (r *deliveryRepository) GetByID(ctx context.Context, id int32) (*domain.Delivery, error) {
	d := &domain.Delivery{}
	if err := scanDelivery(r.db.QueryRowContext(ctx, selectDeliveryByID, id), d); err != nil {
		return nil, notFound(err, "Delivery not found")
	}
	return d, nil
}

func (r *deliveryRepository) List(ctx context.Context, f domain.DeliveryFilter, page, pageSize int32) ([]domain.Delivery, int32, error) {
	var sb strings.Builder
	sb.WriteString(selectDeliveries)
	args := []any{}
	add := func(clause string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, " AND %s $%d", clause, len(args))
	}
	if f.OrderID != 0 {
		add("d.order_id =", f.OrderID)
	}
	if f.BuyerID != 0 {
		add("o.buyer_id =", f.BuyerID)
	}
	query := sb.String()

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM ("+query+") AS sub", args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	query += fmt.Sprintf(" ORDER BY d.created_at DESC, d.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var list []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := scanDelivery(rows, &d); err != nil {
			return nil, 0, err
		}
		list = append(list, d)
	}
	return list, count, rows.Err()
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, id int32, status domain.DeliveryStatus, trackingID *string) error {
	res, err := r.db.ExecContext(ctx, updateDeliveryStatus, status, trackingID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	return requireAffected(res, "Delivery not found")
}
