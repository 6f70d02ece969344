package postgres

import (
	"context"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"
)

const (
	itemColumns = `id, owner_id, title, availability, sell_price, rent_price, quantity, status, created_at, updated_at`

	selectItemByID = `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`

	// The row lock serialises concurrent checkouts of the same item.
	selectItemByIDForUpdate = selectItemByID + ` FOR UPDATE`

	decrementItemQuantity = `UPDATE items SET quantity = quantity - $1, updated_at = $2
	                         WHERE id = $3 AND deleted_at IS NULL AND quantity >= $1`
)

type itemRepository struct {
	db repository.DBTX
}

func NewItemRepository(db repository.DBTX) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	return r.get(ctx, selectItemByID, id)
}

func (r *itemRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "items", "itemID", id)
	return r.get(ctx, selectItemByIDForUpdate, id)
}

func (r *itemRepository) get(ctx context.Context, query string, id int32) (*domain.Item, error) {
	it := &domain.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.OwnerID, &it.Title, &it.Availability, &it.SellPrice, &it.RentPrice, &it.Quantity, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Item %d not found", id)
	}
	return it, nil
}

func (r *itemRepository) DecrementQuantity(ctx context.Context, id int32, by int32) error {
	logger.DatabaseCall("UPDATE", "items", "itemID", id, "by", by)
	res, err := r.db.ExecContext(ctx, decrementItemQuantity, by, time.Now(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return classify(err, "decrement item quantity")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", n, nil)
	if n == 0 {
		return apperror.Validation("Insufficient quantity for item %d", id)
	}
	return nil
}
