package http

import (
	"net/http"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/service"
)

type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type addToCartRequest struct {
	ItemID   int32           `json:"item_id"`
	Quantity int32           `json:"quantity"`
	Type     domain.LineType `json:"type"`
}

type updateCartLineRequest struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.svc.GetCart(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lines)
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.svc.AddToCart(r.Context(), currentUser(r).ID, req.ItemID, req.Quantity, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, line)
}

func (h *CartHandler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateCartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.svc.UpdateCartLine(r.Context(), currentUser(r).ID, lineID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, line)
}

func (h *CartHandler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.RemoveCartLine(r.Context(), currentUser(r).ID, lineID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCart(r.Context(), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
