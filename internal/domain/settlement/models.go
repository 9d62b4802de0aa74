package settlement

import "time"

type Settlement struct {
	ID                  string     `json:"id"`
	EmployeeID          string     `json:"employeeId"`
	JoinDate            time.Time  `json:"joinDate"`
	LeaveStartDate      time.Time  `json:"leaveStartDate"`
	LeaveEndDate        *time.Time `json:"leaveEndDate,omitempty"`
	LeaveDays           *float64   `json:"leaveDays,omitempty"`
	PreviousBalanceDays float64    `json:"previousBalanceDays"`
	TicketsEntitlement  string     `json:"ticketsEntitlement"`
	VisasCount          int        `json:"visasCount"`
	DeductionsAmount    float64    `json:"deductionsAmount"`
	Result
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
