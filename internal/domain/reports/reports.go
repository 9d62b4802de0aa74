package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"hroffice/internal/domain/payroll"
)

type Service struct {
	payroll   *payroll.Store
	exportDir string
}

func NewService(payrollStore *payroll.Store, exportDir string) *Service {
	return &Service{payroll: payrollStore, exportDir: exportDir}
}

// PayrollSummaryPDF renders the month totals plus a per-person net listing
// and returns the written file path.
func (s *Service) PayrollSummaryPDF(ctx context.Context, year, month int) (string, error) {
	summary, err := s.payroll.MonthSummary(ctx, year, month)
	if err != nil {
		return "", err
	}
	employees, err := s.payroll.ListEmployeePayrolls(ctx, year, month)
	if err != nil {
		return "", err
	}
	contractors, err := s.payroll.ListContractorPayrolls(ctx, year, month)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.exportDir, fmt.Sprintf("payroll_summary_%04d_%02d.pdf", year, month))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", year, month))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Employees: %d, Contractors: %d", summary.EmployeeCount, summary.ContractorCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total base: %.2f", summary.TotalBase))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total allowances: %.2f", summary.TotalAllowances))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total deductions: %.2f", summary.TotalDeductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total net: %.2f", summary.TotalNet))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Employees")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, p := range employees {
		pdf.Cell(0, 7, fmt.Sprintf("%s: net %.2f", p.EmployeeName, p.NetSalary))
		pdf.Ln(6)
	}

	if len(contractors) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Contractors")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range contractors {
			pdf.Cell(0, 7, fmt.Sprintf("%s: net %.2f", p.ContractorName, p.NetSalary))
			pdf.Ln(6)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// PayrollRegisterXLSX writes the full payroll register for a month as a
// spreadsheet, one row per person, and returns the written file path.
func (s *Service) PayrollRegisterXLSX(ctx context.Context, year, month int) (string, error) {
	employees, err := s.payroll.ListEmployeePayrolls(ctx, year, month)
	if err != nil {
		return "", err
	}
	contractors, err := s.payroll.ListContractorPayrolls(ctx, year, month)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.exportDir, fmt.Sprintf("payroll_register_%04d_%02d.xlsx", year, month))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Name", "Kind", "Base", "Allowances", "Deductions", "Social Insurance", "Net"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", err
		}
	}

	row := 2
	writeRow := func(name, kind string, base, allowances, deductions, social, net float64) error {
		values := []any{name, kind, base, allowances, deductions, social, net}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, p := range employees {
		if err := writeRow(p.EmployeeName, "employee", p.BaseSalary, p.Allowances, p.Deductions, p.SocialInsurance, p.NetSalary); err != nil {
			return "", err
		}
	}
	for _, p := range contractors {
		if err := writeRow(p.ContractorName, "contractor", p.BaseSalary, p.Allowances, p.Deductions, 0, p.NetSalary); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// ExportName builds a stable client-facing file name for downloads.
func ExportName(prefix string, year, month int, ext string) string {
	return fmt.Sprintf("%s_%04d_%02d_%s.%s", prefix, year, month, time.Now().Format("20060102"), ext)
}
