package http

import (
	"net/http"

	"sharewardrobe-backend/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	list, total, err := h.svc.GetNotifications(r.Context(), currentUser(r).ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, r, list, page, limit, total)
}

func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.MarkAsRead(r.Context(), currentUser(r).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
