package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hroffice/internal/domain/periodlock"
)

func TestQuarterOf(t *testing.T) {
	cases := map[int]int{
		1: 1, 2: 1, 3: 1,
		4: 2, 5: 2, 6: 2,
		7: 3, 8: 3, 9: 3,
		10: 4, 11: 4, 12: 4,
	}
	for month, want := range cases {
		if got := QuarterOf(month); got != want {
			t.Fatalf("month %d: expected quarter %d, got %d", month, want, got)
		}
	}
}

type lockedGate struct {
	locked map[[2]int]bool
}

func (g *lockedGate) ValidateNotLocked(ctx context.Context, year, month int) error {
	if g.locked[[2]int{year, month}] {
		return periodlock.ErrPeriodLocked
	}
	return nil
}

type recordingStore struct {
	expenses []Expense
	revenues []Revenue
}

func (r *recordingStore) InsertExpense(ctx context.Context, e Expense) (Expense, error) {
	r.expenses = append(r.expenses, e)
	return e, nil
}

func (r *recordingStore) GetExpense(ctx context.Context, id string) (Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return Expense{}, ErrNotFound
}

func (r *recordingStore) UpdateExpense(ctx context.Context, e Expense) (Expense, error) {
	for i := range r.expenses {
		if r.expenses[i].ID == e.ID {
			r.expenses[i] = e
			return e, nil
		}
	}
	return Expense{}, ErrNotFound
}

func (r *recordingStore) DeleteExpense(ctx context.Context, id string) error {
	for i := range r.expenses {
		if r.expenses[i].ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *recordingStore) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	return r.expenses, nil
}

func (r *recordingStore) InsertRevenue(ctx context.Context, rev Revenue) (Revenue, error) {
	r.revenues = append(r.revenues, rev)
	return rev, nil
}

func (r *recordingStore) GetRevenue(ctx context.Context, id string) (Revenue, error) {
	for _, rev := range r.revenues {
		if rev.ID == id {
			return rev, nil
		}
	}
	return Revenue{}, ErrNotFound
}

func (r *recordingStore) UpdateRevenue(ctx context.Context, rev Revenue) (Revenue, error) {
	for i := range r.revenues {
		if r.revenues[i].ID == rev.ID {
			r.revenues[i] = rev
			return rev, nil
		}
	}
	return Revenue{}, ErrNotFound
}

func (r *recordingStore) DeleteRevenue(ctx context.Context, id string) error {
	for i := range r.revenues {
		if r.revenues[i].ID == id {
			r.revenues = append(r.revenues[:i], r.revenues[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *recordingStore) ListRevenues(ctx context.Context, f Filter) ([]Revenue, error) {
	return r.revenues, nil
}

func (r *recordingStore) ListCategories(ctx context.Context) ([]Category, error) { return nil, nil }
func (r *recordingStore) InsertCategory(ctx context.Context, c Category) (Category, error) {
	return c, nil
}
func (r *recordingStore) DeleteCategory(ctx context.Context, id string) error { return nil }
func (r *recordingStore) YearSummary(ctx context.Context, year int) (YearSummary, error) {
	return YearSummary{Year: year}, nil
}

func TestCreateExpenseComputesQuarter(t *testing.T) {
	store := &recordingStore{}
	service := NewService(store, &lockedGate{locked: map[[2]int]bool{}})

	created, err := service.CreateExpense(context.Background(), Expense{
		Year:        2025,
		Month:       8,
		Quarter:     1, // client-supplied value must be ignored
		Amount:      500,
		ExpenseDate: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Quarter != 3 {
		t.Fatalf("expected derived quarter 3, got %d", created.Quarter)
	}
}

func TestWritesRejectedWhenPeriodLocked(t *testing.T) {
	store := &recordingStore{}
	gate := &lockedGate{locked: map[[2]int]bool{{2025, 1}: true}}
	service := NewService(store, gate)
	ctx := context.Background()

	_, err := service.CreateExpense(ctx, Expense{Year: 2025, Month: 1, Amount: 10, ExpenseDate: time.Now()})
	if !errors.Is(err, periodlock.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked on create, got %v", err)
	}
	if len(store.expenses) != 0 {
		t.Fatal("no expense row may be written for a locked period")
	}

	_, err = service.CreateRevenue(ctx, Revenue{Year: 2025, Month: 1, Source: "grant", Amount: 10, RevenueDate: time.Now()})
	if !errors.Is(err, periodlock.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked on revenue create, got %v", err)
	}
}

func TestUpdateChecksBothOldAndNewPeriod(t *testing.T) {
	store := &recordingStore{}
	gate := &lockedGate{locked: map[[2]int]bool{{2025, 2}: true}}
	service := NewService(store, gate)
	ctx := context.Background()

	created, err := service.CreateExpense(ctx, Expense{ID: "e1", Year: 2025, Month: 3, Amount: 10, ExpenseDate: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving the record into a locked month must fail.
	created.Month = 2
	if _, _, err := service.UpdateExpense(ctx, created); !errors.Is(err, periodlock.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked moving into locked month, got %v", err)
	}
}

func TestDeleteRejectedWhenPeriodLocked(t *testing.T) {
	store := &recordingStore{}
	gate := &lockedGate{locked: map[[2]int]bool{}}
	service := NewService(store, gate)
	ctx := context.Background()

	created, err := service.CreateExpense(ctx, Expense{ID: "e1", Year: 2025, Month: 4, Amount: 10, ExpenseDate: time.Now()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	gate.locked[[2]int{2025, 4}] = true
	if _, err := service.DeleteExpense(ctx, created.ID); !errors.Is(err, periodlock.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked on delete, got %v", err)
	}
	if len(store.expenses) != 1 {
		t.Fatal("expense must survive rejected delete")
	}
}

func TestCategoryDeleteErrorMapping(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "expenses_category_id_fkey"}
	if got := mapCategoryDeleteError(fkErr); !errors.Is(got, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse for foreign key violation, got %v", got)
	}

	other := &pgconn.PgError{Code: "23505"}
	if got := mapCategoryDeleteError(other); !errors.Is(got, other) {
		t.Fatalf("non-fk errors must pass through, got %v", got)
	}
}

func TestInvalidMonthRejected(t *testing.T) {
	service := NewService(&recordingStore{}, &lockedGate{locked: map[[2]int]bool{}})
	_, err := service.CreateExpense(context.Background(), Expense{Year: 2025, Month: 13, Amount: 1, ExpenseDate: time.Now()})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
