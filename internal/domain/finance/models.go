package finance

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("financial record not found")
	ErrInvalidPeriod = errors.New("invalid year/month")
	ErrCategoryInUse = errors.New("category is referenced by expenses")
)

type Expense struct {
	ID           string    `json:"id"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	Quarter      int       `json:"quarter"`
	CategoryID   string    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	Amount       float64   `json:"amount"`
	ExpenseDate  time.Time `json:"expenseDate"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Revenue struct {
	ID          string    `json:"id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Quarter     int       `json:"quarter"`
	Source      string    `json:"source"`
	Amount      float64   `json:"amount"`
	RevenueDate time.Time `json:"revenueDate"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type Filter struct {
	Year    int
	Month   int
	Quarter int
}

type QuarterTotals struct {
	Quarter  int     `json:"quarter"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type YearSummary struct {
	Year          int             `json:"year"`
	TotalRevenue  float64         `json:"totalRevenue"`
	TotalExpenses float64         `json:"totalExpenses"`
	Net           float64         `json:"net"`
	Quarters      []QuarterTotals `json:"quarters"`
}

// QuarterOf derives the calendar quarter from the month. Stored quarters
// are always computed here on write, never taken from client input.
func QuarterOf(month int) int {
	return (month + 2) / 3
}
