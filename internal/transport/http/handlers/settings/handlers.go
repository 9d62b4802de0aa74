package settingshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/settings"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Service *settings.Service
	Audit   *audit.Service
}

func NewHandler(service *settings.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{key}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_list_failed", "failed to list settings", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	setting, err := h.Service.Get(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, settings.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "setting not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_get_failed", "failed to load setting", reqID)
		return
	}
	api.Success(w, setting, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Key         string `json:"key"`
		Value       string `json:"value"`
		DataType    string `json:"dataType"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("key", payload.Key, "key is required")
	v.Required("value", payload.Value, "value is required")
	v.Enum("dataType", payload.DataType,
		[]string{settings.DataTypeString, settings.DataTypeNumber, settings.DataTypeBoolean},
		"must be string, number or boolean")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Create(r.Context(), settings.Setting{
		Key:         strings.TrimSpace(payload.Key),
		Value:       payload.Value,
		DataType:    strings.ToLower(strings.TrimSpace(payload.DataType)),
		Category:    strings.TrimSpace(payload.Category),
		Description: payload.Description,
		IsEditable:  true,
		UpdatedBy:   user.UserID,
	})
	if errors.Is(err, settings.ErrDuplicateKey) {
		api.Fail(w, http.StatusConflict, "duplicate_key", "a setting with this key already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_create_failed", "failed to create setting", reqID)
		return
	}

	created, err := h.Service.Get(r.Context(), strings.TrimSpace(payload.Key))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_get_failed", "failed to load setting", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "setting",
		EntityID:   id,
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
	key := chi.URLParam(r, "key")

	var payload struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	before, after, err := h.Service.Update(r.Context(), key, payload.Value, user.UserID)
	if errors.Is(err, settings.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "setting not found", reqID)
		return
	}
	if errors.Is(err, settings.ErrNotEditable) {
		api.Fail(w, http.StatusForbidden, "not_editable", "this setting cannot be changed", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update setting", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "setting",
		EntityID:   after.ID,
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
	key := chi.URLParam(r, "key")

	before, err := h.Service.Delete(r.Context(), key)
	if errors.Is(err, settings.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "setting not found", reqID)
		return
	}
	if errors.Is(err, settings.ErrNotEditable) {
		api.Fail(w, http.StatusForbidden, "not_editable", "this setting cannot be deleted", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_delete_failed", "failed to delete setting", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "setting",
		EntityID:   before.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}
