package service

import (
	"context"
	"fmt"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type negotiationService struct {
	store    Store
	resolver *pricing.Resolver
	notifier Notifier
	now      func() time.Time
}

func NewNegotiationService(store Store, resolver *pricing.Resolver, notifier Notifier) NegotiationService {
	return &negotiationService{
		store:    store,
		resolver: resolver,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *negotiationService) CreateNegotiation(ctx context.Context, buyerID, itemID int32, offerPrice decimal.Decimal, expiresAt *time.Time) (*domain.Negotiation, error) {
	logger.EnterMethod("negotiationService.CreateNegotiation", "buyerID", buyerID, "itemID", itemID, "offerPrice", offerPrice)

	if offerPrice.IsNegative() {
		return nil, apperror.Validation("Offer price must not be negative")
	}

	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("negotiationService.CreateNegotiation", err, "itemID", itemID)
		return nil, err
	}
	if item.OwnerID == buyerID {
		return nil, apperror.Validation("You cannot negotiate on your own items")
	}

	n := &domain.Negotiation{
		ItemID:     itemID,
		BuyerID:    buyerID,
		OfferPrice: offerPrice,
		Status:     domain.NegotiationStatusPending,
		ExpiresAt:  expiresAt,
	}
	if err := s.store.Negotiations().Create(ctx, n); err != nil {
		logger.ExitMethodWithError("negotiationService.CreateNegotiation", err, "itemID", itemID)
		return nil, err
	}

	s.notifier.Notify(ctx, item.OwnerID, domain.NotificationTypeNegotiation,
		fmt.Sprintf("New offer of %s TK on %s", offerPrice.StringFixed(2), item.Title))

	logger.ExitMethod("negotiationService.CreateNegotiation", "negotiationID", n.ID)
	return n, nil
}

func (s *negotiationService) RespondToNegotiation(ctx context.Context, ownerID, negotiationID int32, accept bool) (*domain.Negotiation, error) {
	logger.EnterMethod("negotiationService.RespondToNegotiation", "ownerID", ownerID, "negotiationID", negotiationID, "accept", accept)

	hold := s.resolver.NegotiationHold(ctx)
	now := s.now()

	var n *domain.Negotiation
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		var err error
		n, err = tx.Negotiations().GetByIDForUpdate(ctx, negotiationID)
		if err != nil {
			return err
		}

		item, err := tx.Items().GetByID(ctx, n.ItemID)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if item == nil || item.OwnerID != ownerID {
			return apperror.Forbidden("You can only respond to negotiations on your own items")
		}

		switch {
		case n.Status == domain.NegotiationStatusPending:
			if accept && n.ExpiresAt != nil && !now.Before(*n.ExpiresAt) {
				return apperror.Validation("Negotiation offer has expired")
			}
		case n.Status == domain.NegotiationStatusAccepted && accept:
			// re-accepting refreshes the cart hold
		default:
			return apperror.Validation("Negotiation has already been %s", n.Status)
		}

		if !accept {
			n.Status = domain.NegotiationStatusRejected
			return tx.Negotiations().UpdateStatus(ctx, n.ID, n.Status)
		}

		n.Status = domain.NegotiationStatusAccepted
		if err := tx.Negotiations().UpdateStatus(ctx, n.ID, n.Status); err != nil {
			return err
		}

		holdUntil := now.Add(hold)
		linkID := n.ID
		return tx.Carts().UpsertNegotiated(ctx, &domain.CartLine{
			UserID:              n.BuyerID,
			ItemID:              n.ItemID,
			Quantity:            1,
			Type:                domain.LineTypeBuy,
			NegotiatedPrice:     decimal.NewNullDecimal(n.OfferPrice),
			NegotiatedExpiresAt: &holdUntil,
			NegotiationID:       &linkID,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("negotiationService.RespondToNegotiation", err, "negotiationID", negotiationID)
		return nil, err
	}

	verdict := "rejected"
	if accept {
		verdict = "accepted and added to your cart"
	}
	s.notifier.Notify(ctx, n.BuyerID, domain.NotificationTypeNegotiation,
		fmt.Sprintf("Your offer #%d was %s", n.ID, verdict))

	logger.ExitMethod("negotiationService.RespondToNegotiation", "negotiationID", n.ID, "status", n.Status)
	return n, nil
}

func (s *negotiationService) GetNegotiation(ctx context.Context, requester *domain.User, negotiationID int32) (*domain.Negotiation, error) {
	n, err := s.store.Negotiations().GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.BuyerID == requester.ID || requester.IsAdmin() {
		return n, nil
	}

	item, err := s.store.Items().GetByID(ctx, n.ItemID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if item == nil || item.OwnerID != requester.ID {
		return nil, apperror.Forbidden("You are not a party to this negotiation")
	}
	return n, nil
}

func (s *negotiationService) ListNegotiations(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Negotiation, int32, error) {
	return s.store.Negotiations().ListByBuyer(ctx, buyerID, page, pageSize)
}

// ExpireNegotiationHolds drops locked prices whose hold has passed so the
// lines fall back to catalog pricing.
func (s *negotiationService) ExpireNegotiationHolds(ctx context.Context) (int64, error) {
	n, err := s.store.Carts().ClearExpiredNegotiations(ctx, s.now())
	if err != nil {
		return 0, err
	}
	logger.Info("Expired negotiation holds", "cleared", n)
	return n, nil
}
