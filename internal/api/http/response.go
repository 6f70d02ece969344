package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/logger"

	"github.com/gorilla/mux"
)

type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      *errorBody  `json:"error,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type pagination struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
	Total int32 `json:"total"`
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	body.RequestID = logger.RequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WarnContext(r.Context(), "Failed to encode response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, r, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, r *http.Request, data any, page, limit, total int32) {
	writeEnvelope(w, r, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Pagination: &pagination{Page: page, Limit: limit, Total: total},
	})
}

// writeError renders err with the status of its kind. Internal errors are
// logged and their message hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	msg := "An unexpected error occurred"

	var appErr *apperror.Error
	if kind != apperror.KindInternal && errors.As(err, &appErr) {
		msg = appErr.Message
	} else {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}

	writeEnvelope(w, r, kind.HTTPStatus(), envelope{
		Error: &errorBody{Code: kind.String(), Message: msg},
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Validation("Invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Invalid %s: %q", name, raw)
	}
	return int32(id), nil
}

// pageParams reads ?page= and ?limit=, defaulting to 1 and 20.
func pageParams(r *http.Request) (int32, int32) {
	page, limit := int32(1), int32(20)
	q := r.URL.Query()
	if v, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil && v > 0 {
		limit = int32(v)
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
