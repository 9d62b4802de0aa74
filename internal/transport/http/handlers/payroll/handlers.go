package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/payroll"
	"hroffice/internal/domain/periodlock"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Store *payroll.Store
	Locks *periodlock.Service
	Audit *audit.Service
}

func NewHandler(store *payroll.Store, locks *periodlock.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Locks: locks, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/summary", h.handleMonthSummary)
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.handleListEmployeePayrolls)
			r.Post("/", h.handleUpsertEmployeePayroll)
			r.Route("/{payrollID}", func(r chi.Router) {
				r.Get("/", h.handleGetEmployeePayroll)
				r.Delete("/", h.handleDeleteEmployeePayroll)
			})
		})
		r.Route("/contractors", func(r chi.Router) {
			r.Get("/", h.handleListContractorPayrolls)
			r.Post("/", h.handleUpsertContractorPayroll)
			r.Route("/{payrollID}", func(r chi.Router) {
				r.Get("/", h.handleGetContractorPayroll)
				r.Delete("/", h.handleDeleteContractorPayroll)
			})
		})
	})
}

func periodQuery(r *http.Request) (int, int) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	return year, month
}

func (h *Handler) rejectLocked(w http.ResponseWriter, r *http.Request, year, month int) bool {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Locks.ValidateNotLocked(r.Context(), year, month)
	if errors.Is(err, periodlock.ErrPeriodLocked) {
		api.Fail(w, http.StatusConflict, "period_locked", "the period is locked against changes", reqID)
		return true
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lock_check_failed", "failed to check period lock", reqID)
		return true
	}
	return false
}

type employeePayrollPayload struct {
	EmployeeID      string  `json:"employeeId"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	BaseSalary      float64 `json:"baseSalary"`
	Allowances      float64 `json:"allowances"`
	Deductions      float64 `json:"deductions"`
	SocialInsurance float64 `json:"socialInsurance"`
	Notes           string  `json:"notes"`
}

func (h *Handler) handleListEmployeePayrolls(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month := periodQuery(r)
	rows, err := h.Store.ListEmployeePayrolls(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll rows", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleGetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	row, err := h.Store.GetEmployeePayroll(r.Context(), chi.URLParam(r, "payrollID"))
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll row", reqID)
		return
	}
	api.Success(w, row, reqID)
}

// handleUpsertEmployeePayroll writes the single payroll row per employee and
// month. Net salary is always recomputed server side.
func (h *Handler) handleUpsertEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload employeePayrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Year("year", payload.Year)
	v.Month("month", payload.Month)
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}
	if h.rejectLocked(w, r, payload.Year, payload.Month) {
		return
	}

	net := payroll.ComputeNet(payroll.Components{
		BaseSalary:      payload.BaseSalary,
		Allowances:      payload.Allowances,
		Deductions:      payload.Deductions,
		SocialInsurance: payload.SocialInsurance,
	})
	row, err := h.Store.UpsertEmployeePayroll(r.Context(), payroll.EmployeePayroll{
		EmployeeID:      payload.EmployeeID,
		Year:            payload.Year,
		Month:           payload.Month,
		BaseSalary:      payload.BaseSalary,
		Allowances:      payload.Allowances,
		Deductions:      payload.Deductions,
		SocialInsurance: payload.SocialInsurance,
		NetSalary:       net,
		Notes:           payload.Notes,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_upsert_failed", "failed to save payroll row", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "employee_payroll",
		EntityID:   row.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    row,
	})
	api.Success(w, row, reqID)
}

func (h *Handler) handleDeleteEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "payrollID")

	before, err := h.Store.GetEmployeePayroll(r.Context(), id)
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll row", reqID)
		return
	}
	if h.rejectLocked(w, r, before.Year, before.Month) {
		return
	}

	if err := h.Store.DeleteEmployeePayroll(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_delete_failed", "failed to delete payroll row", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "employee_payroll",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}

type contractorPayrollPayload struct {
	ContractorID string  `json:"contractorId"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	BaseSalary   float64 `json:"baseSalary"`
	Allowances   float64 `json:"allowances"`
	Deductions   float64 `json:"deductions"`
	Notes        string  `json:"notes"`
}

func (h *Handler) handleListContractorPayrolls(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month := periodQuery(r)
	rows, err := h.Store.ListContractorPayrolls(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll rows", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleGetContractorPayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	row, err := h.Store.GetContractorPayroll(r.Context(), chi.URLParam(r, "payrollID"))
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll row", reqID)
		return
	}
	api.Success(w, row, reqID)
}

func (h *Handler) handleUpsertContractorPayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload contractorPayrollPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("contractorId", payload.ContractorID, "contractorId is required")
	v.Year("year", payload.Year)
	v.Month("month", payload.Month)
	if payload.BaseSalary < 0 {
		v.Add("baseSalary", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}
	if h.rejectLocked(w, r, payload.Year, payload.Month) {
		return
	}

	net := payroll.ComputeNet(payroll.Components{
		BaseSalary: payload.BaseSalary,
		Allowances: payload.Allowances,
		Deductions: payload.Deductions,
	})
	row, err := h.Store.UpsertContractorPayroll(r.Context(), payroll.ContractorPayroll{
		ContractorID: payload.ContractorID,
		Year:         payload.Year,
		Month:        payload.Month,
		BaseSalary:   payload.BaseSalary,
		Allowances:   payload.Allowances,
		Deductions:   payload.Deductions,
		NetSalary:    net,
		Notes:        payload.Notes,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_upsert_failed", "failed to save payroll row", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "contractor_payroll",
		EntityID:   row.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    row,
	})
	api.Success(w, row, reqID)
}

func (h *Handler) handleDeleteContractorPayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "payrollID")

	before, err := h.Store.GetContractorPayroll(r.Context(), id)
	if errors.Is(err, payroll.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll row not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_get_failed", "failed to load payroll row", reqID)
		return
	}
	if h.rejectLocked(w, r, before.Year, before.Month) {
		return
	}

	if err := h.Store.DeleteContractorPayroll(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_delete_failed", "failed to delete payroll row", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "contractor_payroll",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}

func (h *Handler) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month := periodQuery(r)

	v := shared.NewValidator()
	v.Year("year", year)
	v.Month("month", month)
	if v.Reject(w, reqID) {
		return
	}

	summary, err := h.Store.MonthSummary(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_summary_failed", "failed to build payroll summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}
