package postgres

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/repository"
)

const (
	cartColumns = `id, user_id, item_id, quantity, type, negotiated_price, negotiated_expires_at, negotiation_id, created_at, updated_at`

	selectCartByUser = `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY item_id, type`

	selectCartByKey = `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 AND item_id = $2 AND type = $3`

	insertCartLine = `INSERT INTO cart_items (user_id, item_id, quantity, type, created_at, updated_at)
	                  VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`

	updateCartQuantity = `UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3 AND user_id = $4
	                      RETURNING ` + cartColumns

	deleteCartLine = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	deleteCartByUser = `DELETE FROM cart_items WHERE user_id = $1`

	upsertNegotiatedCartLine = `INSERT INTO cart_items (user_id, item_id, quantity, type, negotiated_price, negotiated_expires_at, negotiation_id, created_at, updated_at)
	                            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	                            ON CONFLICT (user_id, item_id, type) DO UPDATE
	                            SET negotiated_price = EXCLUDED.negotiated_price,
	                                negotiated_expires_at = EXCLUDED.negotiated_expires_at,
	                                negotiation_id = EXCLUDED.negotiation_id,
	                                updated_at = EXCLUDED.updated_at
	                            RETURNING id, quantity`

	clearExpiredNegotiations = `UPDATE cart_items SET negotiated_price = NULL, negotiated_expires_at = NULL, negotiation_id = NULL, updated_at = $1
	                            WHERE negotiated_expires_at IS NOT NULL AND negotiated_expires_at <= $1`
)

type cartRepository struct {
	db repository.DBTX
}

func NewCartRepository(db repository.DBTX) repository.CartRepository {
	return &cartRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCartLine(row rowScanner, c *domain.CartLine) error {
	return row.Scan(&c.ID, &c.UserID, &c.ItemID, &c.Quantity, &c.Type, &c.NegotiatedPrice, &c.NegotiatedExpiresAt, &c.NegotiationID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *cartRepository) ListByUser(ctx context.Context, userID int32) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, selectCartByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var c domain.CartLine
		if err := scanCartLine(rows, &c); err != nil {
			return nil, err
		}
		lines = append(lines, c)
	}
	return lines, rows.Err()
}

func (r *cartRepository) GetByKey(ctx context.Context, userID, itemID int32, lineType domain.LineType) (*domain.CartLine, error) {
	c := &domain.CartLine{}
	if err := scanCartLine(r.db.QueryRowContext(ctx, selectCartByKey, userID, itemID, lineType), c); err != nil {
		return nil, notFound(err, "Cart item not found")
	}
	return c, nil
}

func (r *cartRepository) Create(ctx context.Context, c *domain.CartLine) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertCartLine, c.UserID, c.ItemID, c.Quantity, c.Type, now).Scan(&c.ID)
	return classify(err, "create cart item")
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id, userID, quantity int32) (*domain.CartLine, error) {
	c := &domain.CartLine{}
	if err := scanCartLine(r.db.QueryRowContext(ctx, updateCartQuantity, quantity, time.Now(), id, userID), c); err != nil {
		return nil, notFound(err, "Cart item not found")
	}
	return c, nil
}

func (r *cartRepository) Delete(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, deleteCartLine, id, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return requireAffected(res, "Cart item not found")
}

func (r *cartRepository) ClearByUser(ctx context.Context, userID int32) error {
	_, err := r.db.ExecContext(ctx, deleteCartByUser, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *cartRepository) UpsertNegotiated(ctx context.Context, c *domain.CartLine) error {
	now := time.Now()
	c.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, upsertNegotiatedCartLine,
		c.UserID, c.ItemID, c.Quantity, c.Type, c.NegotiatedPrice, c.NegotiatedExpiresAt, c.NegotiationID, now,
	).Scan(&c.ID, &c.Quantity)
	if err != nil {
		return fmt.Errorf("upsert negotiated cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) ClearExpiredNegotiations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, clearExpiredNegotiations, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired negotiations: %w", err)
	}
	return res.RowsAffected()
}
