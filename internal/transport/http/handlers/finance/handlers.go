package financehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/finance"
	"hroffice/internal/domain/periodlock"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Service *finance.Service
	Audit   *audit.Service
}

func NewHandler(service *finance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.handleListExpenses)
		r.Post("/", h.handleCreateExpense)
		r.Route("/{expenseID}", func(r chi.Router) {
			r.Get("/", h.handleGetExpense)
			r.Put("/", h.handleUpdateExpense)
			r.Delete("/", h.handleDeleteExpense)
		})
	})
	r.Route("/revenues", func(r chi.Router) {
		r.Get("/", h.handleListRevenues)
		r.Post("/", h.handleCreateRevenue)
		r.Route("/{revenueID}", func(r chi.Router) {
			r.Get("/", h.handleGetRevenue)
			r.Put("/", h.handleUpdateRevenue)
			r.Delete("/", h.handleDeleteRevenue)
		})
	})
	r.Route("/expense-categories", func(r chi.Router) {
		r.Get("/", h.handleListCategories)
		r.Post("/", h.handleCreateCategory)
		r.Delete("/{categoryID}", h.handleDeleteCategory)
	})
	r.Get("/budget/summary", h.handleYearSummary)
}

// translateWriteError maps domain failures onto the API error taxonomy.
func translateWriteError(w http.ResponseWriter, err error, reqID, fallbackCode, fallbackMsg string) {
	switch {
	case errors.Is(err, finance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "financial record not found", reqID)
	case errors.Is(err, finance.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year/month is out of range", reqID)
	case errors.Is(err, periodlock.ErrPeriodLocked):
		api.Fail(w, http.StatusConflict, "period_locked", "the period is locked against changes", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMsg, reqID)
	}
}

func parseFilter(r *http.Request) finance.Filter {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	quarter, _ := strconv.Atoi(r.URL.Query().Get("quarter"))
	return finance.Filter{Year: year, Month: month, Quarter: quarter}
}

type expensePayload struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	CategoryID  string  `json:"categoryId"`
	Amount      float64 `json:"amount"`
	ExpenseDate string  `json:"expenseDate"`
	Notes       string  `json:"notes"`
}

func (p expensePayload) validate(v *shared.Validator) (time.Time, bool) {
	v.Year("year", p.Year)
	v.Month("month", p.Month)
	if p.Amount <= 0 {
		v.Add("amount", "must be greater than zero")
	}
	return v.Date("expenseDate", p.ExpenseDate)
}

func (h *Handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	expenses, err := h.Service.ListExpenses(r.Context(), parseFilter(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_list_failed", "failed to list expenses", reqID)
		return
	}
	api.Success(w, expenses, reqID)
}

func (h *Handler) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	expense, err := h.Service.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if errors.Is(err, finance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_get_failed", "failed to load expense", reqID)
		return
	}
	api.Success(w, expense, reqID)
}

func (h *Handler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	date, _ := payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), finance.Expense{
		Year:        payload.Year,
		Month:       payload.Month,
		CategoryID:  strings.TrimSpace(payload.CategoryID),
		Amount:      payload.Amount,
		ExpenseDate: date,
		Notes:       payload.Notes,
	})
	if err != nil {
		translateWriteError(w, err, reqID, "expense_create_failed", "failed to create expense")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "expense",
		EntityID:   expense.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    expense,
	})
	api.Created(w, expense, reqID)
}

func (h *Handler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	date, _ := payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	before, after, err := h.Service.UpdateExpense(r.Context(), finance.Expense{
		ID:          chi.URLParam(r, "expenseID"),
		Year:        payload.Year,
		Month:       payload.Month,
		CategoryID:  strings.TrimSpace(payload.CategoryID),
		Amount:      payload.Amount,
		ExpenseDate: date,
		Notes:       payload.Notes,
	})
	if err != nil {
		translateWriteError(w, err, reqID, "expense_update_failed", "failed to update expense")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "expense",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "expenseID")

	before, err := h.Service.DeleteExpense(r.Context(), id)
	if err != nil {
		translateWriteError(w, err, reqID, "expense_delete_failed", "failed to delete expense")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "expense",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}

type revenuePayload struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	RevenueDate string  `json:"revenueDate"`
	Notes       string  `json:"notes"`
}

func (p revenuePayload) validate(v *shared.Validator) (time.Time, bool) {
	v.Year("year", p.Year)
	v.Month("month", p.Month)
	v.Required("source", p.Source, "source is required")
	if p.Amount <= 0 {
		v.Add("amount", "must be greater than zero")
	}
	return v.Date("revenueDate", p.RevenueDate)
}

func (h *Handler) handleListRevenues(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	revenues, err := h.Service.ListRevenues(r.Context(), parseFilter(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "revenue_list_failed", "failed to list revenues", reqID)
		return
	}
	api.Success(w, revenues, reqID)
}

func (h *Handler) handleGetRevenue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	revenue, err := h.Service.GetRevenue(r.Context(), chi.URLParam(r, "revenueID"))
	if errors.Is(err, finance.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "revenue not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "revenue_get_failed", "failed to load revenue", reqID)
		return
	}
	api.Success(w, revenue, reqID)
}

func (h *Handler) handleCreateRevenue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload revenuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	date, _ := payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	revenue, err := h.Service.CreateRevenue(r.Context(), finance.Revenue{
		Year:        payload.Year,
		Month:       payload.Month,
		Source:      strings.TrimSpace(payload.Source),
		Amount:      payload.Amount,
		RevenueDate: date,
		Notes:       payload.Notes,
	})
	if err != nil {
		translateWriteError(w, err, reqID, "revenue_create_failed", "failed to create revenue")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "revenue",
		EntityID:   revenue.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    revenue,
	})
	api.Created(w, revenue, reqID)
}

func (h *Handler) handleUpdateRevenue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload revenuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	date, _ := payload.validate(v)
	if v.Reject(w, reqID) {
		return
	}

	before, after, err := h.Service.UpdateRevenue(r.Context(), finance.Revenue{
		ID:          chi.URLParam(r, "revenueID"),
		Year:        payload.Year,
		Month:       payload.Month,
		Source:      strings.TrimSpace(payload.Source),
		Amount:      payload.Amount,
		RevenueDate: date,
		Notes:       payload.Notes,
	})
	if err != nil {
		translateWriteError(w, err, reqID, "revenue_update_failed", "failed to update revenue")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "revenue",
		EntityID:   after.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
		NewData:    after,
	})
	api.Success(w, after, reqID)
}

func (h *Handler) handleDeleteRevenue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "revenueID")

	before, err := h.Service.DeleteRevenue(r.Context(), id)
	if err != nil {
		translateWriteError(w, err, reqID, "revenue_delete_failed", "failed to delete revenue")
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "revenue",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_list_failed", "failed to list categories", reqID)
		return
	}
	api.Success(w, categories, reqID)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sortOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	category, err := h.Service.CreateCategory(r.Context(), finance.Category{
		Name:      strings.TrimSpace(payload.Name),
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_create_failed", "failed to create category", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "expense_category",
		EntityID:   category.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    category,
	})
	api.Created(w, category, reqID)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "categoryID")

	if err := h.Service.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "category not found", reqID)
			return
		}
		if errors.Is(err, finance.ErrCategoryInUse) {
			api.Fail(w, http.StatusConflict, "category_in_use", "category is referenced by expenses", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "category_delete_failed", "failed to delete category", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "expense_category",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	api.Success(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleYearSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	v := shared.NewValidator()
	v.Year("year", year)
	if v.Reject(w, reqID) {
		return
	}

	summary, err := h.Service.YearSummary(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "budget_summary_failed", "failed to build budget summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}
