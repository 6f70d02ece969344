package http

import (
	"net/http"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type checkoutRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.Checkout(r.Context(), currentUser(r).ID, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orders, total, err := h.svc.ListOrders(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, orders, page, limit, total)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.GetOrder(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}
