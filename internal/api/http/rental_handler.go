package http

import (
	"net/http"

	"sharewardrobe-backend/internal/service"

	"github.com/shopspring/decimal"
)

type RentalHandler struct {
	svc service.RentalService
}

func NewRentalHandler(svc service.RentalService) *RentalHandler {
	return &RentalHandler{svc: svc}
}

type inspectReturnRequest struct {
	InspectionResult string              `json:"inspection_result"`
	RefundAmount     decimal.Decimal     `json:"refund_amount"`
	LateFee          decimal.NullDecimal `json:"late_fee"`
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	list, total, err := h.svc.ListRentals(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.svc.GetRental(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}

func (h *RentalHandler) InitiateReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.svc.InitiateReturn(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}

func (h *RentalHandler) InspectReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req inspectReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.svc.InspectReturn(r.Context(), id, service.InspectionInput{
		Result:       req.InspectionResult,
		RefundAmount: req.RefundAmount,
		LateFee:      req.LateFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rental)
}
