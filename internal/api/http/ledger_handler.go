package http

import (
	"net/http"

	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/service"

	"github.com/shopspring/decimal"
)

type LedgerHandler struct {
	svc service.LedgerService
}

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

type withdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type processWithdrawalRequest struct {
	Approve bool `json:"approve"`
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	list, total, err := h.svc.GetTransactions(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *LedgerHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wr, err := h.svc.RequestWithdrawal(r.Context(), currentUser(r).ID, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wr)
}

func (h *LedgerHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	list, total, err := h.svc.ListWithdrawals(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

// ListAllWithdrawals accepts an optional ?status= filter.
func (h *LedgerHandler) ListAllWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	list, total, err := h.svc.ListAllWithdrawals(r.Context(), status, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *LedgerHandler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req processWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wr, err := h.svc.ProcessWithdrawal(r.Context(), id, req.Approve)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wr)
}
