package http

import (
	"net/http"
	"time"

	"sharewardrobe-backend/internal/service"

	"github.com/shopspring/decimal"
)

type NegotiationHandler struct {
	svc service.NegotiationService
}

func NewNegotiationHandler(svc service.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{svc: svc}
}

type createNegotiationRequest struct {
	ItemID     int32           `json:"item_id"`
	OfferPrice decimal.Decimal `json:"offer_price"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

type respondNegotiationRequest struct {
	Accept bool `json:"accept"`
}

func (h *NegotiationHandler) CreateNegotiation(w http.ResponseWriter, r *http.Request) {
	var req createNegotiationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	neg, err := h.svc.CreateNegotiation(r.Context(), currentUser(r).ID, req.ItemID, req.OfferPrice, req.ExpiresAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, neg)
}

func (h *NegotiationHandler) ListNegotiations(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	list, total, err := h.svc.ListNegotiations(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *NegotiationHandler) GetNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	neg, err := h.svc.GetNegotiation(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, neg)
}

func (h *NegotiationHandler) RespondNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req respondNegotiationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	neg, err := h.svc.RespondToNegotiation(r.Context(), currentUser(r).ID, id, req.Accept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, neg)
}
