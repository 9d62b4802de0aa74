package settlementshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/audit"
	"hroffice/internal/domain/settlement"
	"hroffice/internal/domain/staff"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Store *settlement.Store
	Staff *staff.Store
	Audit *audit.Service
}

func NewHandler(store *settlement.Store, staffStore *staff.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Staff: staffStore, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settlements", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/preview", h.handlePreview)
		r.Route("/{settlementID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
		})
	})
}

type settlementPayload struct {
	EmployeeID          string   `json:"employeeId"`
	JoinDate            string   `json:"joinDate"`
	LeaveStartDate      string   `json:"leaveStartDate"`
	LeaveEndDate        string   `json:"leaveEndDate"`
	LeaveDays           *float64 `json:"leaveDays"`
	PreviousBalanceDays float64  `json:"previousBalanceDays"`
	TicketsEntitlement  string   `json:"ticketsEntitlement"`
	VisasCount          int      `json:"visasCount"`
	DeductionsAmount    float64  `json:"deductionsAmount"`
}

func (h *Handler) parseInput(w http.ResponseWriter, r *http.Request, payload settlementPayload) (settlement.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	joinDate, _ := v.Date("joinDate", payload.JoinDate)
	leaveStart, _ := v.Date("leaveStartDate", payload.LeaveStartDate)
	v.Enum("ticketsEntitlement", payload.TicketsEntitlement,
		[]string{settlement.EntitlementEmployee, settlement.EntitlementFamily4},
		"must be employee or family4")
	if payload.LeaveEndDate == "" && payload.LeaveDays == nil {
		v.Add("leaveDays", "either leaveEndDate or leaveDays must be provided")
	}
	if payload.VisasCount < 0 {
		v.Add("visasCount", "must not be negative")
	}

	input := settlement.Input{
		JoinDate:            joinDate,
		LeaveStartDate:      leaveStart,
		LeaveDays:           payload.LeaveDays,
		PreviousBalanceDays: payload.PreviousBalanceDays,
		TicketsEntitlement:  strings.ToLower(strings.TrimSpace(payload.TicketsEntitlement)),
		VisasCount:          payload.VisasCount,
		DeductionsAmount:    payload.DeductionsAmount,
	}
	if payload.LeaveEndDate != "" {
		end, ok := v.Date("leaveEndDate", payload.LeaveEndDate)
		if ok {
			input.LeaveEndDate = &end
		}
	}
	if v.Reject(w, reqID) {
		return settlement.Input{}, false
	}
	return input, true
}

// handlePreview runs the calculator without persisting anything, so the
// numbers can be reviewed before a settlement is recorded.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload settlementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	input, ok := h.parseInput(w, r, payload)
	if !ok {
		return
	}
	api.Success(w, settlement.Calculate(input), reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload settlementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	if v.Reject(w, reqID) {
		return
	}

	if _, err := h.Staff.GetEmployee(r.Context(), payload.EmployeeID); err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}

	input, ok := h.parseInput(w, r, payload)
	if !ok {
		return
	}

	result := settlement.Calculate(input)
	record, err := h.Store.Insert(r.Context(), payload.EmployeeID, input, result, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_create_failed", "failed to save settlement", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionCreate,
		EntityType: "leave_settlement",
		EntityID:   record.ID,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewData:    record,
	})
	api.Created(w, record, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Store.List(r.Context(), r.URL.Query().Get("employeeId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_list_failed", "failed to list settlements", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	record, err := h.Store.Get(r.Context(), chi.URLParam(r, "settlementID"))
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_get_failed", "failed to load settlement", reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "settlementID")

	before, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_get_failed", "failed to load settlement", reqID)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_delete_failed", "failed to delete settlement", reqID)
		return
	}

	h.Audit.RecordBestEffort(r.Context(), audit.Entry{
		Actor:      user.UserID,
		Action:     audit.ActionDelete,
		EntityType: "leave_settlement",
		EntityID:   id,
		RequestID:  reqID,
		IP:         shared.ClientIP(r),
		UserAgent:  r.UserAgent(),
		OldData:    before,
	})
	api.Success(w, before, reqID)
}
