package staff

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("staff record not found")

type Employee struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Position        string    `json:"position"`
	BaseSalary      float64   `json:"baseSalary"`
	SocialInsurance float64   `json:"socialInsurance"`
	LeaveBalance    float64   `json:"leaveBalance"`
	SortOrder       int       `json:"sortOrder"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Contractor struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	BaseSalary float64   `json:"baseSalary"`
	SortOrder  int       `json:"sortOrder"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
