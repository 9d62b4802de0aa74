package reminders

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("reminder not found")
	ErrInvalidType = errors.New("unknown reminder type")
)

const (
	TypeGeneral         = "general"
	TypeContractRenewal = "contract_renewal"
	TypeVisaExpiry      = "visa_expiry"
	TypeDocumentExpiry  = "document_expiry"
	TypeProbationEnd    = "probation_end"
)

// Status values derived at read time, never stored.
const (
	StatusOverdue   = "overdue"
	StatusDueSoon   = "due_soon"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// SettingDueSoonDays is the settings key that overrides the due-soon window.
const SettingDueSoonDays = "reminders.due_soon_days"

// DueSoonDays is the window before the due date in which a reminder is
// reported as due_soon.
const DueSoonDays = 3

type Reminder struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	EmployeeID   string     `json:"employeeId,omitempty"`
	EmployeeName string     `json:"employeeName,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	DueDate      time.Time  `json:"dueDate"`
	Notes        string     `json:"notes"`
	IsCompleted  bool       `json:"isCompleted"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func ValidType(t string) bool {
	switch t {
	case TypeGeneral, TypeContractRenewal, TypeVisaExpiry, TypeDocumentExpiry, TypeProbationEnd:
		return true
	}
	return false
}
