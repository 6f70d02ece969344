package http

import (
	"net/http"
	"strconv"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/service"
)

type DeliveryHandler struct {
	svc service.DeliveryService
}

func NewDeliveryHandler(svc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

type createDeliveryRequest struct {
	OrderID     int32  `json:"order_id"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	IsReturn    bool   `json:"is_return"`
}

type updateDeliveryStatusRequest struct {
	Status     domain.DeliveryStatus `json:"status"`
	TrackingID *string               `json:"tracking_id"`
}

func (h *DeliveryHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.OrderID <= 0 {
		writeError(w, r, apperror.Validation("order_id must be positive"))
		return
	}
	d, err := h.svc.CreateDelivery(r.Context(), currentUser(r), service.CreateDeliveryInput{
		OrderID:     req.OrderID,
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		IsReturn:    req.IsReturn,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, d)
}

func (h *DeliveryHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	var orderID int32
	if raw := r.URL.Query().Get("order_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 {
			writeError(w, r, apperror.Validation("Invalid order_id: %q", raw))
			return
		}
		orderID = int32(v)
	}
	list, total, err := h.svc.ListDeliveries(r.Context(), currentUser(r), orderID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *DeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.GetDelivery(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (h *DeliveryHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateDeliveryStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.UpdateDeliveryStatus(r.Context(), id, req.Status, req.TrackingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}
