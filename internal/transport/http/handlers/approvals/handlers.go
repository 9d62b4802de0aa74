package approvalshandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/approval"
	"hroffice/internal/domain/audit"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Service *approval.Service
	Audit   *audit.Service
}

func NewHandler(service *approval.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/approvals", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSubmit)
		r.Route("/{approvalID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/approve", h.handleApprove)
			r.Post("/reject", h.handleReject)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	requests, total, err := h.Service.List(r.Context(),
		r.URL.Query().Get("status"), r.URL.Query().Get("entityType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "approval_list_failed", "failed to list approval requests", reqID)
		return
	}
	api.Success(w, map[string]any{"items": requests, "total": total}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	request, err := h.Service.Get(r.Context(), chi.URLParam(r, "approvalID"))
	if errors.Is(err, approval.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "approval request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "approval_get_failed", "failed to load approval request", reqID)
		return
	}
	api.Success(w, request, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		EntityType  string          `json:"entityType"`
		EntityID    string          `json:"entityId"`
		Operation   string          `json:"operation"`
		RequestData json.RawMessage `json:"requestData"`
		CurrentData json.RawMessage `json:"currentData"`
		Comment     string          `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	id, err := h.Service.Submit(r.Context(), approval.Submission{
		EntityType:   payload.EntityType,
		EntityID:     payload.EntityID,
		Operation:    strings.ToUpper(strings.TrimSpace(payload.Operation)),
		RequestData:  payload.RequestData,
		CurrentData:  payload.CurrentData,
		Maker:        user.UserID,
		MakerComment: payload.Comment,
	})
	switch {
	case errors.Is(err, approval.ErrInvalidOperation):
		api.Fail(w, http.StatusBadRequest, "invalid_operation", "operation must be create, update or delete", reqID)
		return
	case errors.Is(err, approval.ErrMissingRequest):
		api.Fail(w, http.StatusBadRequest, "validation_error", "requestData is required", reqID)
		return
	case errors.Is(err, approval.ErrMissingCurrent):
		api.Fail(w, http.StatusBadRequest, "validation_error", "currentData is required for update and delete requests", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "approval_submit_failed", "failed to submit approval request", reqID)
		return
	}

	request, err := h.Service.Get(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "approval_get_failed", "failed to load approval request", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "approval_request",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    request,
	})
	api.Created(w, request, reqID)
}

type decisionPayload struct {
	Comment string `json:"comment"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

// decide records the checker's verdict. Approving does not replay the
// requested mutation; the maker performs it as a separate write once the
// request is approved, which keeps both steps independently audited.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "approvalID")

	var payload decisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	var request approval.Request
	var err error
	if approve {
		request, err = h.Service.Approve(r.Context(), id, user.UserID, payload.Comment)
	} else {
		request, err = h.Service.Reject(r.Context(), id, user.UserID, payload.Comment)
	}
	switch {
	case errors.Is(err, approval.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "approval request not found", reqID)
		return
	case errors.Is(err, approval.ErrAlreadyProcessed):
		api.Fail(w, http.StatusConflict, "already_processed", "the request has already been decided", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "approval_decide_failed", "failed to record decision", reqID)
		return
	}

	action := audit.ActionApprove
	if !approve {
		action = audit.ActionReject
	}
	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     action,
		EntityType: "approval_request",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    request,
	})
	api.Success(w, request, reqID)
}
