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
	orderColumns = `id, buyer_id, status, total_amount, delivery_charge, safety_deposit, delivery_charge_paid, payment_method, payment_due_at, created_at, updated_at`

	insertOrder = `INSERT INTO orders (buyer_id, status, total_amount, delivery_charge, safety_deposit, delivery_charge_paid, payment_method, payment_due_at, created_at, updated_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`

	insertOrderLine = `INSERT INTO order_items (order_id, item_id, quantity, price, type, created_at)
	                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	selectOrderByID = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND deleted_at IS NULL`

	selectOrderLines = `SELECT id, order_id, item_id, quantity, price, type, created_at FROM order_items WHERE order_id = $1 ORDER BY id`

	countOrdersByBuyer = `SELECT count(*) FROM orders WHERE buyer_id = $1 AND deleted_at IS NULL`

	selectOrdersByBuyer = `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 AND deleted_at IS NULL
	                       ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	updateOrderPaymentState = `UPDATE orders SET status = $1, delivery_charge_paid = $2, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL`

	updateOrderStatus = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	claimOrderPayment = `UPDATE orders SET payment_attempted_at = $1
	                     WHERE id = $2 AND status = 'pending' AND payment_method = 'online' AND deleted_at IS NULL
	                     AND (payment_attempted_at IS NULL OR payment_attempted_at < $3)`

	releaseOrderPaymentClaim = `UPDATE orders SET payment_attempted_at = NULL WHERE id = $1 AND status = 'pending' AND deleted_at IS NULL`

	markOrderPaid = `UPDATE orders SET status = 'paid', delivery_charge_paid = TRUE, updated_at = $1
	                 WHERE id = $2 AND status = 'pending' AND deleted_at IS NULL`

	selectPendingOnlineOrders = `SELECT ` + orderColumns + ` FROM orders
	                             WHERE status = 'pending' AND payment_method = 'online' AND payment_due_at > $1 AND deleted_at IS NULL
	                             ORDER BY id`
)

type orderRepository struct {
	db repository.DBTX
}

func NewOrderRepository(db repository.DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row rowScanner, o *domain.Order) error {
	return row.Scan(&o.ID, &o.BuyerID, &o.Status, &o.TotalAmount, &o.DeliveryCharge, &o.SafetyDeposit, &o.DeliveryChargePaid, &o.PaymentMethod, &o.PaymentDueAt, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	logger.EnterMethod("orderRepository.Create", "buyerID", o.BuyerID, "total", o.TotalAmount.StringFixed(2))
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertOrder,
		o.BuyerID, o.Status, o.TotalAmount, o.DeliveryCharge, o.SafetyDeposit, o.DeliveryChargePaid, o.PaymentMethod, o.PaymentDueAt, now,
	).Scan(&o.ID)
	if err != nil {
		logger.ExitMethodWithError("orderRepository.Create", err, "buyerID", o.BuyerID)
		return classify(err, "create order")
	}
	logger.ExitMethod("orderRepository.Create", "orderID", o.ID)
	return nil
}

func (r *orderRepository) CreateLine(ctx context.Context, l *domain.OrderLine) error {
	l.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, insertOrderLine, l.OrderID, l.ItemID, l.Quantity, l.Price, l.Type, l.CreatedAt).Scan(&l.ID)
	return classify(err, "create order item")
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	o := &domain.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, selectOrderByID, id), o); err != nil {
		return nil, notFound(err, "Order not found")
	}
	return o, nil
}

func (r *orderRepository) ListLines(ctx context.Context, orderID int32) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, selectOrderLines, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.Price, &l.Type, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countOrdersByBuyer, buyerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	orders, err := r.list(ctx, selectOrdersByBuyer, buyerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *orderRepository) ListPendingOnline(ctx context.Context, now time.Time) ([]domain.Order, error) {
	return r.list(ctx, selectPendingOnlineOrders, now)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) UpdatePaymentState(ctx context.Context, id int32, status domain.OrderStatus, deliveryChargePaid bool) error {
	res, err := r.db.ExecContext(ctx, updateOrderPaymentState, status, deliveryChargePaid, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update order payment state: %w", err)
	}
	return requireAffected(res, "Order not found")
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, updateOrderStatus, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireAffected(res, "Order not found")
}

func (r *orderRepository) ClaimPayment(ctx context.Context, id int32, now, staleBefore time.Time) (bool, error) {
	logger.DatabaseCall("UPDATE", "orders", "orderID", id, "op", "claim payment")
	res, err := r.db.ExecContext(ctx, claimOrderPayment, now, id, staleBefore)
	if err != nil {
		return false, fmt.Errorf("claim order payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logger.DatabaseResult("UPDATE", n, nil, "orderID", id)
	return n == 1, nil
}

func (r *orderRepository) ReleasePaymentClaim(ctx context.Context, id int32) error {
	if _, err := r.db.ExecContext(ctx, releaseOrderPaymentClaim, id); err != nil {
		return fmt.Errorf("release order payment claim: %w", err)
	}
	return nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, markOrderPaid, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
