package periodshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/periodlock"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Service *periodlock.Service
	Audit   *audit.Service
}

func NewHandler(service *periodlock.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/period-locks", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/status", h.handleStatus)
		r.Post("/lock", h.handleLock)
		r.Post("/unlock", h.handleUnlock)
	})
}

type lockPayload struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Reason string `json:"reason"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	locks, err := h.Service.List(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lock_list_failed", "failed to list period locks", reqID)
		return
	}
	api.Success(w, locks, reqID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	v := shared.NewValidator()
	v.Year("year", year)
	v.Month("month", month)
	if v.Reject(w, reqID) {
		return
	}

	lock, found, err := h.Service.Get(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lock_status_failed", "failed to check period lock", reqID)
		return
	}
	if !found {
		api.Success(w, map[string]any{"year": year, "month": month, "isLocked": false}, reqID)
		return
	}
	api.Success(w, lock, reqID)
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload lockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	before, after, err := h.Service.Lock(r.Context(), payload.Year, payload.Month, user.UserID, payload.Reason)
	switch {
	case errors.Is(err, periodlock.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year/month is out of range", reqID)
		return
	case errors.Is(err, periodlock.ErrAlreadyLocked):
		api.Fail(w, http.StatusConflict, "already_locked", "the period is already locked", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "lock_failed", "failed to lock period", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionLock,
		EntityType: "period_lock",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload lockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	before, after, err := h.Service.Unlock(r.Context(), payload.Year, payload.Month, user.UserID, payload.Reason)
	switch {
	case errors.Is(err, periodlock.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year/month is out of range", reqID)
		return
	case errors.Is(err, periodlock.ErrReasonRequired):
		api.Fail(w, http.StatusBadRequest, "reason_required", "unlocking requires a reason", reqID)
		return
	case errors.Is(err, periodlock.ErrNotLocked):
		api.Fail(w, http.StatusConflict, "not_locked", "the period is not locked", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "unlock_failed", "failed to unlock period", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUnlock,
		EntityType: "period_lock",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}
