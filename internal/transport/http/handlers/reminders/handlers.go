package remindershandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/reminders"
	"hroffice/internal/domain/settings"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Store    *reminders.Store
	Settings *settings.Service
	Audit    *audit.Service
}

func NewHandler(store *reminders.Store, settingsSvc *settings.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Settings: settingsSvc, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reminders", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{reminderID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
			r.Post("/complete", h.handleComplete)
		})
	})
}

func (h *Handler) dueSoonDays(r *http.Request) int {
	days := h.Settings.GetNumber(r.Context(), reminders.SettingDueSoonDays, reminders.DueSoonDays)
	if days < 0 {
		return reminders.DueSoonDays
	}
	return int(days)
}

func (h *Handler) withStatus(r *http.Request, list []reminders.Reminder) []reminders.Reminder {
	now := time.Now()
	days := h.dueSoonDays(r)
	for i := range list {
		list[i].Status = reminders.Status(list[i], now, days)
	}
	return list
}

type reminderPayload struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	EmployeeID  string `json:"employeeId"`
	StartDate   string `json:"startDate"`
	DueDate     string `json:"dueDate"`
	Notes       string `json:"notes"`
	IsCompleted bool   `json:"isCompleted"`
}

func (h *Handler) parseReminder(w http.ResponseWriter, r *http.Request, payload reminderPayload) (reminders.Reminder, bool) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	dueDate, _ := v.Date("dueDate", payload.DueDate)
	typ := strings.ToLower(strings.TrimSpace(payload.Type))
	if typ == "" {
		typ = reminders.TypeGeneral
	}
	if !reminders.ValidType(typ) {
		v.Add("type", "unknown reminder type")
	}

	reminder := reminders.Reminder{
		Title:       strings.TrimSpace(payload.Title),
		Type:        typ,
		EmployeeID:  strings.TrimSpace(payload.EmployeeID),
		DueDate:     dueDate,
		Notes:       payload.Notes,
		IsCompleted: payload.IsCompleted,
	}
	if payload.StartDate != "" {
		start, ok := v.Date("startDate", payload.StartDate)
		if ok {
			reminder.StartDate = &start
		}
	}
	if v.Reject(w, reqID) {
		return reminders.Reminder{}, false
	}
	return reminder, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	includeCompleted := r.URL.Query().Get("includeCompleted") == "true"
	list, err := h.Store.List(r.Context(), includeCompleted)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_list_failed", "failed to list reminders", reqID)
		return
	}
	api.Success(w, h.withStatus(r, list), reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	reminder, err := h.Store.Get(r.Context(), chi.URLParam(r, "reminderID"))
	if errors.Is(err, reminders.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "reminder not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_get_failed", "failed to load reminder", reqID)
		return
	}
	reminder.Status = reminders.Status(reminder, time.Now(), h.dueSoonDays(r))
	api.Success(w, reminder, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload reminderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	reminder, ok := h.parseReminder(w, r, payload)
	if !ok {
		return
	}

	created, err := h.Store.Create(r.Context(), reminder)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_create_failed", "failed to create reminder", reqID)
		return
	}
	created.Status = reminders.Status(created, time.Now(), h.dueSoonDays(r))

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "reminder",
		EntityID:   created.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    created,
	})
	api.Created(w, created, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "reminderID")

	before, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, reminders.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "reminder not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_get_failed", "failed to load reminder", reqID)
		return
	}

	var payload reminderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	reminder, ok := h.parseReminder(w, r, payload)
	if !ok {
		return
	}
	reminder.ID = id

	after, err := h.Store.Update(r.Context(), reminder)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_update_failed", "failed to update reminder", reqID)
		return
	}
	after.Status = reminders.Status(after, time.Now(), h.dueSoonDays(r))

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "reminder",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "reminderID")

	before, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, reminders.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "reminder not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_get_failed", "failed to load reminder", reqID)
		return
	}

	updated := before
	updated.IsCompleted = true
	after, err := h.Store.Update(r.Context(), updated)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_update_failed", "failed to complete reminder", reqID)
		return
	}
	after.Status = reminders.StatusCompleted

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "reminder",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "reminderID")

	before, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, reminders.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "reminder not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_get_failed", "failed to load reminder", reqID)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "reminder_delete_failed", "failed to delete reminder", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "reminder",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}
