package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/gateway"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"
	"sharewardrobe-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type orderService struct {
	store    Store
	resolver *pricing.Resolver
	payments gateway.PaymentGateway
	notifier Notifier
	now      func() time.Time
}

func NewOrderService(store Store, resolver *pricing.Resolver, payments gateway.PaymentGateway, notifier Notifier) OrderService {
	return &orderService{
		store:    store,
		resolver: resolver,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

type checkoutRules struct {
	deliveryCharge decimal.Decimal
	depositPercent decimal.Decimal
	paymentTimeout time.Duration
	rentalPeriod   time.Duration
}

func (s *orderService) Checkout(ctx context.Context, buyerID int32, method domain.PaymentMethod) (*domain.Order, error) {
	logger.EnterMethod("orderService.Checkout", "buyerID", buyerID, "paymentMethod", method)

	if !method.Valid() {
		err := apperror.Validation("Invalid payment method: %s", method)
		logger.ExitMethodWithError("orderService.Checkout", err, "buyerID", buyerID)
		return nil, err
	}

	rules := checkoutRules{
		deliveryCharge: s.resolver.DeliveryCharge(ctx),
		depositPercent: s.resolver.SafetyDepositPercent(ctx),
		paymentTimeout: s.resolver.PaymentTimeout(ctx),
		rentalPeriod:   s.resolver.RentalPeriod(ctx),
	}

	var order *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Repos) error {
		var err error
		order, err = s.placeOrder(ctx, tx, buyerID, method, rules)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("orderService.Checkout", err, "buyerID", buyerID)
		return nil, err
	}

	s.settle(ctx, order)

	s.notifier.Notify(ctx, buyerID, domain.NotificationTypeOrderConfirmation,
		fmt.Sprintf("Your order #%d has been placed. Total: %s TK", order.ID, order.TotalAmount.StringFixed(2)))

	logger.ExitMethod("orderService.Checkout", "orderID", order.ID, "status", order.Status)
	return order, nil
}

// placeOrder runs inside the checkout transaction. Item rows stay locked
// until commit so concurrent checkouts of the same item serialise here.
// Rows are always locked in item id order.
func (s *orderService) placeOrder(ctx context.Context, tx repository.Repos, buyerID int32, method domain.PaymentMethod, rules checkoutRules) (*domain.Order, error) {
	cart, err := tx.Carts().ListByUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, apperror.Validation("Cart is empty")
	}
	slices.SortStableFunc(cart, func(a, b domain.CartLine) int {
		if c := cmp.Compare(a.ItemID, b.ItemID); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})

	now := s.now()
	total := rules.deliveryCharge
	deposit := decimal.Zero
	reserved := make(map[int32]int32)
	lines := make([]domain.OrderLine, 0, len(cart))

	for _, cl := range cart {
		item, err := tx.Items().GetByIDForUpdate(ctx, cl.ItemID)
		if err != nil {
			return nil, err
		}

		available := item.Quantity - reserved[item.ID]
		if available < cl.Quantity {
			return nil, apperror.Validation("Insufficient quantity for item %s. Available: %d, Requested: %d", item.Title, available, cl.Quantity)
		}
		reserved[item.ID] += cl.Quantity

		price, ok := cl.ActiveNegotiatedPrice(now)
		if !ok {
			catalog := item.CatalogPrice(cl.Type)
			if !catalog.Valid {
				return nil, apperror.Validation("Price not available for item %s", item.Title)
			}
			price = catalog.Decimal
		}

		lineTotal := pricing.LineTotal(price, cl.Quantity)
		total = total.Add(lineTotal)
		if cl.Type == domain.LineTypeRent {
			deposit = deposit.Add(pricing.Percent(lineTotal, rules.depositPercent))
		}

		lines = append(lines, domain.OrderLine{
			ItemID:   item.ID,
			Quantity: cl.Quantity,
			Price:    price,
			Type:     cl.Type,
		})
	}

	order := &domain.Order{
		BuyerID:        buyerID,
		Status:         domain.OrderStatusPending,
		TotalAmount:    total,
		DeliveryCharge: rules.deliveryCharge,
		SafetyDeposit:  deposit,
		PaymentMethod:  method,
		PaymentDueAt:   now.Add(rules.paymentTimeout),
	}
	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, err
	}

	for i := range lines {
		line := &lines[i]
		line.OrderID = order.ID
		if err := tx.Orders().CreateLine(ctx, line); err != nil {
			return nil, err
		}
		if err := tx.Items().DecrementQuantity(ctx, line.ItemID, line.Quantity); err != nil {
			return nil, err
		}
		if line.Type == domain.LineTypeRent {
			rental := &domain.Rental{
				OrderLineID:  line.ID,
				RentalStart:  now,
				RentalEnd:    now.Add(rules.rentalPeriod),
				ReturnStatus: domain.ReturnStatusPending,
			}
			if err := tx.Rentals().Create(ctx, rental); err != nil {
				return nil, err
			}
		}
	}
	order.Lines = lines

	if err := tx.Carts().ClearByUser(ctx, buyerID); err != nil {
		return nil, err
	}
	return order, nil
}

// settle runs after commit. Failures leave the order pending for
// RetryPendingPayments and are never returned to the caller.
func (s *orderService) settle(ctx context.Context, order *domain.Order) {
	switch order.PaymentMethod {
	case domain.PaymentMethodCOD:
		if err := s.store.Orders().UpdatePaymentState(ctx, order.ID, order.Status, true); err != nil {
			logger.ErrorContext(ctx, "Failed to mark delivery charge paid", "orderID", order.ID, "error", err)
			return
		}
		order.DeliveryChargePaid = true
	case domain.PaymentMethodOnline:
		s.capturePayment(ctx, order)
	}
}

// paymentClaimLease bounds how long a capture claim blocks retries. A claim
// left behind by a capture whose bookkeeping failed is retried after it
// lapses, and the per-order idempotency key keeps the provider from charging
// twice.
const paymentClaimLease = 10 * time.Minute

func paymentIdempotencyKey(orderID int32) string {
	return fmt.Sprintf("order-%d", orderID)
}

func (s *orderService) capturePayment(ctx context.Context, order *domain.Order) bool {
	now := s.now()
	claimed, err := s.store.Orders().ClaimPayment(ctx, order.ID, now, now.Add(-paymentClaimLease))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to claim order for payment", "orderID", order.ID, "error", err)
		return false
	}
	if !claimed {
		logger.InfoContext(ctx, "Order payment already in flight or settled", "orderID", order.ID)
		return false
	}

	res, err := s.payments.CreatePayment(ctx, gateway.PaymentRequest{
		OrderID:        order.ID,
		Amount:         order.TotalAmount,
		Description:    fmt.Sprintf("Order #%d", order.ID),
		IdempotencyKey: paymentIdempotencyKey(order.ID),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Payment gateway call failed, order left pending", "orderID", order.ID, "error", err)
		s.releasePaymentClaim(ctx, order.ID)
		return false
	}
	if res == nil || !res.Success {
		reason := ""
		if res != nil {
			reason = res.Error
		}
		logger.WarnContext(ctx, "Payment not successful, order left pending", "orderID", order.ID, "reason", reason)
		s.releasePaymentClaim(ctx, order.ID)
		return false
	}

	settled := false
	err = s.store.WithTx(ctx, func(tx repository.Repos) error {
		ok, err := tx.Orders().MarkPaid(ctx, order.ID)
		if err != nil || !ok {
			return err
		}
		orderID := order.ID
		if err := tx.Transactions().Create(ctx, &domain.Transaction{
			UserID:      order.BuyerID,
			OrderID:     &orderID,
			Amount:      order.TotalAmount,
			Type:        domain.TransactionTypePayment,
			Status:      domain.TransactionStatusCompleted,
			Description: fmt.Sprintf("Payment for order #%d (%s)", order.ID, res.TransactionID),
		}); err != nil {
			return err
		}
		settled = true
		return nil
	})
	if err != nil {
		// The claim stays until the lease lapses.
		logger.ErrorContext(ctx, "Payment captured but order update failed", "orderID", order.ID, "transactionID", res.TransactionID, "error", err)
		return false
	}
	if !settled {
		logger.WarnContext(ctx, "Order no longer pending after capture, ledger untouched", "orderID", order.ID, "transactionID", res.TransactionID)
		return false
	}

	order.Status = domain.OrderStatusPaid
	order.DeliveryChargePaid = true
	return true
}

func (s *orderService) releasePaymentClaim(ctx context.Context, orderID int32) {
	if err := s.store.Orders().ReleasePaymentClaim(ctx, orderID); err != nil {
		logger.WarnContext(ctx, "Failed to release payment claim", "orderID", orderID, "error", err)
	}
}

func (s *orderService) RetryPendingPayments(ctx context.Context) (int, error) {
	orders, err := s.store.Orders().ListPendingOnline(ctx, s.now())
	if err != nil {
		return 0, err
	}

	paid := 0
	for i := range orders {
		if ctx.Err() != nil {
			return paid, ctx.Err()
		}
		if s.capturePayment(ctx, &orders[i]) {
			paid++
		}
	}
	logger.Info("Retried pending payments", "candidates", len(orders), "paid", paid)
	return paid, nil
}

func (s *orderService) GetOrder(ctx context.Context, requester *domain.User, orderID int32) (*domain.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != requester.ID && !requester.IsAdmin() {
		return nil, apperror.Forbidden("You can only view your own orders")
	}

	lines, err := s.store.Orders().ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, buyerID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.store.Orders().ListByBuyer(ctx, buyerID, page, pageSize)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int32, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperror.Validation("Invalid order status: %s", status)
	}
	if err := s.store.Orders().UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.store.Orders().GetByID(ctx, orderID)
}
