package finance

import "context"

type Service struct {
	store StoreAPI
	locks LockGate
}

func NewService(store StoreAPI, locks LockGate) *Service {
	return &Service{store: store, locks: locks}
}

func validPeriod(year, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}

func (s *Service) CreateExpense(ctx context.Context, e Expense) (Expense, error) {
	if !validPeriod(e.Year, e.Month) {
		return Expense{}, ErrInvalidPeriod
	}
	if err := s.locks.ValidateNotLocked(ctx, e.Year, e.Month); err != nil {
		return Expense{}, err
	}
	e.Quarter = QuarterOf(e.Month)
	return s.store.InsertExpense(ctx, e)
}

func (s *Service) GetExpense(ctx context.Context, id string) (Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// UpdateExpense validates both the record's current period and the target
// period, so a row can neither leave nor enter a locked month.
func (s *Service) UpdateExpense(ctx context.Context, e Expense) (Expense, Expense, error) {
	if !validPeriod(e.Year, e.Month) {
		return Expense{}, Expense{}, ErrInvalidPeriod
	}
	before, err := s.store.GetExpense(ctx, e.ID)
	if err != nil {
		return Expense{}, Expense{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, before.Year, before.Month); err != nil {
		return Expense{}, Expense{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, e.Year, e.Month); err != nil {
		return Expense{}, Expense{}, err
	}
	e.Quarter = QuarterOf(e.Month)
	after, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		return Expense{}, Expense{}, err
	}
	return before, after, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) (Expense, error) {
	before, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, before.Year, before.Month); err != nil {
		return Expense{}, err
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return Expense{}, err
	}
	return before, nil
}

func (s *Service) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	return s.store.ListExpenses(ctx, f)
}

func (s *Service) CreateRevenue(ctx context.Context, r Revenue) (Revenue, error) {
	if !validPeriod(r.Year, r.Month) {
		return Revenue{}, ErrInvalidPeriod
	}
	if err := s.locks.ValidateNotLocked(ctx, r.Year, r.Month); err != nil {
		return Revenue{}, err
	}
	r.Quarter = QuarterOf(r.Month)
	return s.store.InsertRevenue(ctx, r)
}

func (s *Service) GetRevenue(ctx context.Context, id string) (Revenue, error) {
	return s.store.GetRevenue(ctx, id)
}

func (s *Service) UpdateRevenue(ctx context.Context, r Revenue) (Revenue, Revenue, error) {
	if !validPeriod(r.Year, r.Month) {
		return Revenue{}, Revenue{}, ErrInvalidPeriod
	}
	before, err := s.store.GetRevenue(ctx, r.ID)
	if err != nil {
		return Revenue{}, Revenue{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, before.Year, before.Month); err != nil {
		return Revenue{}, Revenue{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, r.Year, r.Month); err != nil {
		return Revenue{}, Revenue{}, err
	}
	r.Quarter = QuarterOf(r.Month)
	after, err := s.store.UpdateRevenue(ctx, r)
	if err != nil {
		return Revenue{}, Revenue{}, err
	}
	return before, after, nil
}

func (s *Service) DeleteRevenue(ctx context.Context, id string) (Revenue, error) {
	before, err := s.store.GetRevenue(ctx, id)
	if err != nil {
		return Revenue{}, err
	}
	if err := s.locks.ValidateNotLocked(ctx, before.Year, before.Month); err != nil {
		return Revenue{}, err
	}
	if err := s.store.DeleteRevenue(ctx, id); err != nil {
		return Revenue{}, err
	}
	return before, nil
}

func (s *Service) ListRevenues(ctx context.Context, f Filter) ([]Revenue, error) {
	return s.store.ListRevenues(ctx, f)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, c Category) (Category, error) {
	return s.store.InsertCategory(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.store.DeleteCategory(ctx, id)
}

func (s *Service) YearSummary(ctx context.Context, year int) (YearSummary, error) {
	return s.store.YearSummary(ctx, year)
}
