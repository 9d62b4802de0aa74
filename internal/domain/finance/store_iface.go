package finance

import "context"

type StoreAPI interface {
	InsertExpense(ctx context.Context, e Expense) (Expense, error)
	GetExpense(ctx context.Context, id string) (Expense, error)
	UpdateExpense(ctx context.Context, e Expense) (Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, f Filter) ([]Expense, error)

	InsertRevenue(ctx context.Context, r Revenue) (Revenue, error)
	GetRevenue(ctx context.Context, id string) (Revenue, error)
	UpdateRevenue(ctx context.Context, r Revenue) (Revenue, error)
	DeleteRevenue(ctx context.Context, id string) error
	ListRevenues(ctx context.Context, f Filter) ([]Revenue, error)

	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error

	YearSummary(ctx context.Context, year int) (YearSummary, error)
}

// LockGate is satisfied by the period-lock service.
type LockGate interface {
	ValidateNotLocked(ctx context.Context, year, month int) error
}
