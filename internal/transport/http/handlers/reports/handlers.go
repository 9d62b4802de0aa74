package reportshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hroffice/internal/domain/reports"
	"hroffice/internal/transport/http/api"
	"hroffice/internal/transport/http/middleware"
	"hroffice/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/payroll/pdf", h.handlePayrollPDF)
		r.Get("/payroll/xlsx", h.handlePayrollXLSX)
	})
}

func (h *Handler) parsePeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	reqID := middleware.GetRequestID(r.Context())
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	v := shared.NewValidator()
	v.Year("year", year)
	v.Month("month", month)
	if v.Reject(w, reqID) {
		return 0, 0, false
	}
	return year, month, true
}

func (h *Handler) handlePayrollPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	path, err := h.Service.PayrollSummaryPDF(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_generate_failed", "failed to generate payroll PDF", reqID)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+reports.ExportName("payroll_summary", year, month, "pdf"))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func (h *Handler) handlePayrollXLSX(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year, month, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	path, err := h.Service.PayrollRegisterXLSX(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_generate_failed", "failed to generate payroll register", reqID)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+reports.ExportName("payroll_register", year, month, "xlsx"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
