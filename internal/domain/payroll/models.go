package payroll

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("payroll row not found")

type EmployeePayroll struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName,omitempty"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	BaseSalary      float64   `json:"baseSalary"`
	Allowances      float64   `json:"allowances"`
	Deductions      float64   `json:"deductions"`
	SocialInsurance float64   `json:"socialInsurance"`
	NetSalary       float64   `json:"netSalary"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ContractorPayroll struct {
	ID             string    `json:"id"`
	ContractorID   string    `json:"contractorId"`
	ContractorName string    `json:"contractorName,omitempty"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	BaseSalary     float64   `json:"baseSalary"`
	Allowances     float64   `json:"allowances"`
	Deductions     float64   `json:"deductions"`
	NetSalary      float64   `json:"netSalary"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type MonthSummary struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	EmployeeCount   int     `json:"employeeCount"`
	ContractorCount int     `json:"contractorCount"`
	TotalBase       float64 `json:"totalBase"`
	TotalAllowances float64 `json:"totalAllowances"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNet        float64 `json:"totalNet"`
}
