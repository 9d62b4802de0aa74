package notificationshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/notifications"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Store *notifications.Store
}

func NewHandler(store *notifications.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Post("/read-all", h.handleMarkAllRead)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	list, err := h.Store.List(r.Context(), unreadOnly, page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	count, err := h.Store.CountUnread(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_count_failed", "failed to count notifications", reqID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "notificationID")

	if err := h.Store.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, notifications.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "notification not found or already read", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "notification_read_failed", "failed to mark notification read", reqID)
		return
	}
	api.Success(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	updated, err := h.Store.MarkAllRead(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_read_failed", "failed to mark notifications read", reqID)
		return
	}
	api.Success(w, map[string]int64{"updated": updated}, reqID)
}
