package http

import (
	"net/http"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type upsertConfigRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (h *AdminHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListConfigs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetConfig(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}

func (h *AdminHandler) UpsertConfig(w http.ResponseWriter, r *http.Request) {
	var req upsertConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cfg, err := h.svc.UpsertConfig(r.Context(), mux.Vars(r)["key"], req.Value, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cfg)
}

// RevenueReport defaults to the last 30 days when ?from= and ?to= are absent.
func (h *AdminHandler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := parseTime(v, "from")
		if err != nil {
			writeError(w, r, err)
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseTime(v, "to")
		if err != nil {
			writeError(w, r, err)
			return
		}
		to = t
	}

	report, err := h.svc.RevenueReport(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (h *AdminHandler) TransactionLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TransactionFilter{
		Type:   domain.TransactionType(q.Get("type")),
		Status: domain.TransactionStatus(q.Get("status")),
	}
	if v := q.Get("from"); v != "" {
		t, err := parseTime(v, "from")
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseTime(v, "to")
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.To = &t
	}

	page, limit := pageParams(r)
	list, total, err := h.svc.TransactionLedger(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(v, name string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation("Invalid %s date: %q", name, v)
}
