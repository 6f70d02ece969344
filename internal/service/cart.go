package service

import (
	"context"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
)

type cartService struct {
	store Store
}

func NewCartService(store Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) AddToCart(ctx context.Context, userID, itemID, quantity int32, lineType domain.LineType) (*domain.CartLine, error) {
	logger.EnterMethod("cartService.AddToCart", "userID", userID, "itemID", itemID, "quantity", quantity, "type", lineType)

	if quantity < 1 {
		return nil, apperror.Validation("Quantity must be at least 1")
	}
	if !lineType.Valid() {
		return nil, apperror.Validation("Invalid cart item type: %s", lineType)
	}

	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("cartService.AddToCart", err, "itemID", itemID)
		return nil, err
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, apperror.Validation("Item is not available")
	}
	if !item.Supports(lineType) {
		if lineType == domain.LineTypeBuy {
			return nil, apperror.Validation("This item is only available for rent")
		}
		return nil, apperror.Validation("This item is only available for sale")
	}

	existing, err := s.store.Carts().GetByKey(ctx, userID, itemID, lineType)
	switch {
	case err == nil:
		line, err := s.store.Carts().UpdateQuantity(ctx, existing.ID, userID, existing.Quantity+quantity)
		if err != nil {
			return nil, err
		}
		logger.ExitMethod("cartService.AddToCart", "lineID", line.ID, "quantity", line.Quantity)
		return line, nil
	case !apperror.IsNotFound(err):
		return nil, err
	}

	line := &domain.CartLine{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: quantity,
		Type:     lineType,
	}
	if err := s.store.Carts().Create(ctx, line); err != nil {
		logger.ExitMethodWithError("cartService.AddToCart", err, "itemID", itemID)
		return nil, err
	}

	logger.ExitMethod("cartService.AddToCart", "lineID", line.ID)
	return line, nil
}

func (s *cartService) GetCart(ctx context.Context, userID int32) ([]domain.CartLine, error) {
	return s.store.Carts().ListByUser(ctx, userID)
}

func (s *cartService) UpdateCartLine(ctx context.Context, userID, lineID, quantity int32) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, apperror.Validation("Quantity must be at least 1")
	}
	return s.store.Carts().UpdateQuantity(ctx, lineID, userID, quantity)
}

func (s *cartService) RemoveCartLine(ctx context.Context, userID, lineID int32) error {
	return s.store.Carts().Delete(ctx, lineID, userID)
}

func (s *cartService) ClearCart(ctx context.Context, userID int32) error {
	return s.store.Carts().ClearByUser(ctx, userID)
}
