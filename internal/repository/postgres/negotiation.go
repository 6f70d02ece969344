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
	negotiationColumns = `id, item_id, buyer_id, offer_price, status, expires_at, created_at, updated_at`

	insertNegotiation = `INSERT INTO negotiations (item_id, buyer_id, offer_price, status, expires_at, created_at, updated_at)
	                     VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`

	selectNegotiationByID = `SELECT ` + negotiationColumns + ` FROM negotiations WHERE id = $1 AND deleted_at IS NULL`

	selectNegotiationByIDForUpdate = selectNegotiationByID + ` FOR UPDATE`

	updateNegotiationStatus = `UPDATE negotiations SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	countNegotiationsByBuyer = `SELECT count(*) FROM negotiations WHERE buyer_id = $1 AND deleted_at IS NULL`

	selectNegotiationsByBuyer = `SELECT ` + negotiationColumns + ` FROM negotiations WHERE buyer_id = $1 AND deleted_at IS NULL
	                             ORDER BY created_at DESC LIMIT $2 OFFSET $3`
)

type negotiationRepository struct {
	db repository.DBTX
}

func NewNegotiationRepository(db repository.DBTX) repository.NegotiationRepository {
	return &negotiationRepository{db: db}
}

func (r *negotiationRepository) Create(ctx context.Context, n *domain.Negotiation) error {
	logger.EnterMethod("negotiationRepository.Create", "itemID", n.ItemID, "buyerID", n.BuyerID)
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, insertNegotiation, n.ItemID, n.BuyerID, n.OfferPrice, n.Status, n.ExpiresAt, now).Scan(&n.ID)
	if err != nil {
		logger.ExitMethodWithError("negotiationRepository.Create", err, "itemID", n.ItemID)
		return classify(err, "create negotiation")
	}
	logger.ExitMethod("negotiationRepository.Create", "negotiationID", n.ID)
	return nil
}

func (r *negotiationRepository) GetByID(ctx context.Context, id int32) (*domain.Negotiation, error) {
	return r.get(ctx, selectNegotiationByID, id)
}

func (r *negotiationRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Negotiation, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "negotiations", "negotiationID", id)
	return r.get(ctx, selectNegotiationByIDForUpdate, id)
}

func (r *negotiationRepository) get(ctx context.Context, query string, id int32) (*domain.Negotiation, error) {
	n := &domain.Negotiation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.ItemID, &n.BuyerID, &n.OfferPrice, &n.Status, &n.ExpiresAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Negotiation not found")
	}
	return n, nil
}

func (r *negotiationRepository) UpdateStatus(ctx context.Context, id int32, status domain.NegotiationStatus) error {
	res, err := r.db.ExecContext(ctx, updateNegotiationStatus, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update negotiation status: %w", err)
	}
	return requireAffected(res, "Negotiation not found")
}

func (r *negotiationRepository) ListByBuyer(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Negotiation, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, countNegotiationsByBuyer, buyerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(page, pageSize)
	rows, err := r.db.QueryContext(ctx, selectNegotiationsByBuyer, buyerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.Negotiation
	for rows.Next() {
		var n domain.Negotiation
		if err := rows.Scan(&n.ID, &n.ItemID, &n.BuyerID, &n.OfferPrice, &n.Status, &n.ExpiresAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, count, rows.Err()
}
