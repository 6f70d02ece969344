package service

import (
	"context"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/gateway"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/repository"
)

type deliveryService struct {
	store   Store
	courier gateway.DeliveryGateway
}

func NewDeliveryService(store Store, courier gateway.DeliveryGateway) DeliveryService {
	return &deliveryService{store: store, courier: courier}
}

func (s *deliveryService) CreateDelivery(ctx context.Context, requester *domain.User, in CreateDeliveryInput) (*domain.Delivery, error) {
	logger.EnterMethod("deliveryService.CreateDelivery", "requesterID", requester.ID, "orderID", in.OrderID, "isReturn", in.IsReturn)

	if in.FromAddress == "" || in.ToAddress == "" {
		return nil, apperror.Validation("From and to addresses are required")
	}

	order, err := s.store.Orders().GetByID(ctx, in.OrderID)
	if err != nil {
		logger.ExitMethodWithError("deliveryService.CreateDelivery", err, "orderID", in.OrderID)
		return nil, err
	}
	if order.BuyerID != requester.ID && !requester.IsAdmin() {
		return nil, apperror.Forbidden("You can only create deliveries for your own orders")
	}

	d, err := bookDelivery(ctx, s.store.Deliveries(), s.courier, gateway.DeliveryRequest{
		OrderID:     order.ID,
		FromAddress: in.FromAddress,
		ToAddress:   in.ToAddress,
		IsReturn:    in.IsReturn,
	})
	if err != nil {
		logger.ExitMethodWithError("deliveryService.CreateDelivery", err, "orderID", in.OrderID)
		return nil, err
	}
	d.BuyerID = order.BuyerID

	logger.ExitMethod("deliveryService.CreateDelivery", "deliveryID", d.ID)
	return d, nil
}

// ListDeliveries shows everything to admins and only the requester's own
// orders to anyone else.
func (s *deliveryService) ListDeliveries(ctx context.Context, requester *domain.User, orderID int32, page, pageSize int32) ([]domain.Delivery, int32, error) {
	f := domain.DeliveryFilter{OrderID: orderID}
	if !requester.IsAdmin() {
		f.BuyerID = requester.ID
	}
	return s.store.Deliveries().List(ctx, f, page, pageSize)
}

func (s *deliveryService) GetDelivery(ctx context.Context, requester *domain.User, id int32) (*domain.Delivery, error) {
	d, err := s.store.Deliveries().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.BuyerID != requester.ID && !requester.IsAdmin() {
		return nil, apperror.Forbidden("You can only view your own deliveries")
	}
	return d, nil
}

func (s *deliveryService) UpdateDeliveryStatus(ctx context.Context, id int32, status domain.DeliveryStatus, trackingID *string) (*domain.Delivery, error) {
	if !status.Valid() {
		return nil, apperror.Validation("Invalid delivery status: %s", status)
	}
	if trackingID != nil && *trackingID == "" {
		trackingID = nil
	}
	if err := s.store.Deliveries().UpdateStatus(ctx, id, status, trackingID); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Delivery status updated", "deliveryID", id, "status", status)
	return s.store.Deliveries().GetByID(ctx, id)
}

// bookDelivery asks the courier for a booking and records it. A courier
// failure is logged and the record is stored without a tracking id.
func bookDelivery(ctx context.Context, deliveries repository.DeliveryRepository, courier gateway.DeliveryGateway, req gateway.DeliveryRequest) (*domain.Delivery, error) {
	d := &domain.Delivery{
		OrderID:     req.OrderID,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		IsReturn:    req.IsReturn,
		Status:      domain.DeliveryStatusPending,
	}

	res, err := courier.RequestDelivery(ctx, req)
	switch {
	case err != nil:
		logger.ErrorContext(ctx, "Courier booking failed", "orderID", req.OrderID, "isReturn", req.IsReturn, "error", err)
	case res == nil || !res.Success || res.TrackingID == "":
		reason := ""
		if res != nil {
			reason = res.Error
		}
		logger.WarnContext(ctx, "Courier returned no tracking id", "orderID", req.OrderID, "reason", reason)
	default:
		tracking := res.TrackingID
		d.TrackingID = &tracking
	}

	if err := deliveries.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
