package staffhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/staff"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Store *staff.Store
	Audit *audit.Service
}

func NewHandler(store *staff.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.Put("/", h.handleUpdateEmployee)
			r.Delete("/", h.handleDeactivateEmployee)
		})
	})
	r.Route("/contractors", func(r chi.Router) {
		r.Get("/", h.handleListContractors)
		r.Post("/", h.handleCreateContractor)
		r.Route("/{contractorID}", func(r chi.Router) {
			r.Get("/", h.handleGetContractor)
			r.Put("/", h.handleUpdateContractor)
			r.Delete("/", h.handleDeactivateContractor)
		})
	})
}

type employeePayload struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	BaseSalary      float64 `json:"baseSalary"`
	SocialInsurance float64 `json:"socialInsurance"`
	LeaveBalance    float64 `json:"leaveBalance"`
	SortOrder       int     `json:"sortOrder"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("includeInactive") != "true"
	employees, err := h.Store.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	emp, err := h.Store.CreateEmployee(r.Context(), staff.Employee{
		Name:            strings.TrimSpace(payload.Name),
		Position:        strings.TrimSpace(payload.Position),
		BaseSalary:      payload.BaseSalary,
		SocialInsurance: payload.SocialInsurance,
		LeaveBalance:    payload.LeaveBalance,
		SortOrder:       payload.SortOrder,
		IsActive:        true,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "employee",
		EntityID:   emp.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    emp,
	})
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "employeeID")

	before, err := h.Store.GetEmployee(r.Context(), id)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	updated := before
	updated.Name = strings.TrimSpace(payload.Name)
	updated.Position = strings.TrimSpace(payload.Position)
	updated.BaseSalary = payload.BaseSalary
	updated.SocialInsurance = payload.SocialInsurance
	updated.LeaveBalance = payload.LeaveBalance
	updated.SortOrder = payload.SortOrder

	after, err := h.Store.UpdateEmployee(r.Context(), updated)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "employee",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "employeeID")

	before, err := h.Store.GetEmployee(r.Context(), id)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}

	after, err := h.Store.DeactivateEmployee(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to deactivate employee", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "employee",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

type contractorPayload struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	BaseSalary float64 `json:"baseSalary"`
	SortOrder  int     `json:"sortOrder"`
}

func (h *Handler) handleListContractors(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("includeInactive") != "true"
	contractors, err := h.Store.ListContractors(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_list_failed", "failed to list contractors", reqID)
		return
	}
	api.Success(w, contractors, reqID)
}

func (h *Handler) handleGetContractor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	c, err := h.Store.GetContractor(r.Context(), chi.URLParam(r, "contractorID"))
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contractor not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_get_failed", "failed to load contractor", reqID)
		return
	}
	api.Success(w, c, reqID)
}

func (h *Handler) handleCreateContractor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload contractorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	c, err := h.Store.CreateContractor(r.Context(), staff.Contractor{
		Name:       strings.TrimSpace(payload.Name),
		Position:   strings.TrimSpace(payload.Position),
		BaseSalary: payload.BaseSalary,
		SortOrder:  payload.SortOrder,
		IsActive:   true,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_create_failed", "failed to create contractor", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "contractor",
		EntityID:   c.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    c,
	})
	api.Created(w, c, reqID)
}

func (h *Handler) handleUpdateContractor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "contractorID")

	before, err := h.Store.GetContractor(r.Context(), id)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contractor not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_get_failed", "failed to load contractor", reqID)
		return
	}

	var payload contractorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	updated := before
	updated.Name = strings.TrimSpace(payload.Name)
	updated.Position = strings.TrimSpace(payload.Position)
	updated.BaseSalary = payload.BaseSalary
	updated.SortOrder = payload.SortOrder

	after, err := h.Store.UpdateContractor(r.Context(), updated)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_update_failed", "failed to update contractor", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "contractor",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeactivateContractor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "contractorID")

	before, err := h.Store.GetContractor(r.Context(), id)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "contractor not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_get_failed", "failed to load contractor", reqID)
		return
	}

	after, err := h.Store.DeactivateContractor(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contractor_delete_failed", "failed to deactivate contractor", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "contractor",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}
