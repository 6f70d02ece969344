package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/gateway"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"
	"sharewardrobe-backend/internal/repository"
)

const returnWarehouseAddress = "warehouse"

type rentalService struct {
	store    Store
	resolver *pricing.Resolver
	delivery gateway.DeliveryGateway
	notifier Notifier
	now      func() time.Time
}

func NewRentalService(store Store, resolver *pricing.Resolver, delivery gateway.DeliveryGateway, notifier Notifier) RentalService {
	return &rentalService{
		store:    store,
		resolver: resolver,
		delivery: delivery,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *rentalService) InitiateReturn(ctx context.Context, requesterID, rentalID int32) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.InitiateReturn", "requesterID", requesterID, "rentalID", rentalID)

	rate := s.resolver.LateFeePercentPerDay(ctx)
	now := s.now()

	var detail *domain.RentalDetail
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		var err error
		detail, err = tx.Rentals().GetDetailByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if detail.BuyerID != requesterID {
			return apperror.Forbidden("You can only return your own rentals")
		}
		if detail.ReturnStatus != domain.ReturnStatusPending {
			return apperror.Validation("Rental return already initiated")
		}

		detail.LateFee = pricing.LateFee(detail.RentalEnd, now, detail.LinePrice, rate)
		detail.ReturnStatus = domain.ReturnStatusInitiated
		return tx.Rentals().Update(ctx, &detail.Rental)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.InitiateReturn", err, "rentalID", rentalID)
		return nil, err
	}

	s.requestPickup(ctx, detail)

	s.notifier.Notify(ctx, detail.BuyerID, domain.NotificationTypeSystem,
		fmt.Sprintf("Return initiated for rental #%d. Late fee: %s TK", detail.ID, detail.LateFee.StringFixed(2)))

	logger.ExitMethod("rentalService.InitiateReturn", "rentalID", detail.ID, "lateFee", detail.LateFee.String())
	return &detail.Rental, nil
}

// requestPickup books the return courier and records the booking. A failure
// here never undoes the committed return.
func (s *rentalService) requestPickup(ctx context.Context, detail *domain.RentalDetail) {
	from := strconv.Itoa(int(detail.BuyerID))
	if buyer, err := s.store.Users().GetByID(ctx, detail.BuyerID); err == nil && buyer.Address != "" {
		from = buyer.Address
	}

	d, err := bookDelivery(ctx, s.store.Deliveries(), s.delivery, gateway.DeliveryRequest{
		OrderID:     detail.OrderID,
		FromAddress: from,
		ToAddress:   returnWarehouseAddress,
		IsReturn:    true,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to record return pickup", "rentalID", detail.ID, "orderID", detail.OrderID, "error", err)
		return
	}
	logger.InfoContext(ctx, "Return pickup recorded", "rentalID", detail.ID, "deliveryID", d.ID, "tracked", d.TrackingID != nil)
}

func (s *rentalService) InspectReturn(ctx context.Context, rentalID int32, in InspectionInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.InspectReturn", "rentalID", rentalID, "refundAmount", in.RefundAmount.String())

	if in.RefundAmount.IsNegative() {
		return nil, apperror.Validation("Refund amount must not be negative")
	}
	if in.LateFee.Valid && in.LateFee.Decimal.IsNegative() {
		return nil, apperror.Validation("Late fee must not be negative")
	}

	var detail *domain.RentalDetail
	var net = in.RefundAmount
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		var err error
		detail, err = tx.Rentals().GetDetailByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if detail.ReturnStatus != domain.ReturnStatusPending && detail.ReturnStatus != domain.ReturnStatusInitiated {
			return apperror.Validation("Rental is not pending inspection")
		}

		fee := detail.LateFee
		if in.LateFee.Valid {
			fee = in.LateFee.Decimal
		}

		detail.ReturnStatus = domain.ReturnStatusInspected
		detail.InspectionResult = in.Result
		detail.RefundAmount = in.RefundAmount
		detail.LateFee = fee
		if err := tx.Rentals().Update(ctx, &detail.Rental); err != nil {
			return err
		}

		orderID := detail.OrderID
		net = pricing.NetRefund(in.RefundAmount, fee)
		if net.IsPositive() {
			if err := tx.Transactions().Create(ctx, &domain.Transaction{
				UserID:      detail.BuyerID,
				OrderID:     &orderID,
				Amount:      net,
				Type:        domain.TransactionTypeRefund,
				Status:      domain.TransactionStatusCompleted,
				Description: fmt.Sprintf("Refund for rental #%d after inspection", detail.ID),
			}); err != nil {
				return err
			}

			buyer, err := tx.Users().GetByIDForUpdate(ctx, detail.BuyerID)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdateBalance(ctx, buyer.ID, buyer.Balance.Add(net)); err != nil {
				return err
			}
		}

		// Recorded for reporting only; the fee is already netted out of the credit.
		if fee.IsPositive() {
			return tx.Transactions().Create(ctx, &domain.Transaction{
				UserID:      detail.BuyerID,
				OrderID:     &orderID,
				Amount:      fee,
				Type:        domain.TransactionTypeFee,
				Status:      domain.TransactionStatusCompleted,
				Description: fmt.Sprintf("Late fee for rental #%d", detail.ID),
			})
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.InspectReturn", err, "rentalID", rentalID)
		return nil, err
	}

	msg := fmt.Sprintf("Rental #%d inspected: %s.", detail.ID, detail.InspectionResult)
	if net.IsPositive() {
		msg += fmt.Sprintf(" %s TK has been credited to your balance.", net.StringFixed(2))
	}
	s.notifier.Notify(ctx, detail.BuyerID, domain.NotificationTypeSystem, msg)

	logger.ExitMethod("rentalService.InspectReturn", "rentalID", detail.ID, "netRefund", net.String())
	return &detail.Rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, requester *domain.User, rentalID int32) (*domain.RentalDetail, error) {
	detail, err := s.store.Rentals().GetDetailByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if detail.BuyerID != requester.ID && !requester.IsAdmin() {
		return nil, apperror.Forbidden("You can only view your own rentals")
	}
	return detail, nil
}

func (s *rentalService) ListRentals(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.RentalDetail, int32, error) {
	return s.store.Rentals().ListByBuyer(ctx, buyerID, page, pageSize)
}

func (s *rentalService) SendDueReminders(ctx context.Context, within time.Duration) (int, error) {
	now := s.now()
	due, err := s.store.Rentals().ListDueBetween(ctx, now, now.Add(within))
	if err != nil {
		return 0, err
	}

	for _, r := range due {
		s.notifier.Notify(ctx, r.BuyerID, domain.NotificationTypeRentalReminder,
			fmt.Sprintf("Rental #%d is due back on %s", r.ID, r.RentalEnd.Format("2006-01-02 15:04")))
	}
	logger.Info("Sent rental due reminders", "count", len(due))
	return len(due), nil
}
