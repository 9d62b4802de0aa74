package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const expenseColumns = `
  x.id, x.year, x.month, x.quarter, COALESCE(x.category_id::text, ''), COALESCE(c.name, ''),
  x.amount, x.expense_date, x.notes, x.created_at, x.updated_at
`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID, &e.Year, &e.Month, &e.Quarter, &e.CategoryID, &e.CategoryName,
		&e.Amount, &e.ExpenseDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (s *Store) InsertExpense(ctx context.Context, e Expense) (Expense, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO expenses (year, month, quarter, category_id, amount, expense_date, notes)
    VALUES ($1,$2,$3,NULLIF($4,'')::uuid,$5,$6,$7)
    RETURNING id
  `, e.Year, e.Month, e.Quarter, e.CategoryID, e.Amount, e.ExpenseDate, e.Notes).Scan(&id)
	if err != nil {
		return Expense{}, err
	}
	return s.GetExpense(ctx, id)
}

func (s *Store) GetExpense(ctx context.Context, id string) (Expense, error) {
	e, err := scanExpense(s.DB.QueryRow(ctx, `
    SELECT `+expenseColumns+`
    FROM expenses x
    LEFT JOIN expense_categories c ON x.category_id = c.id
    WHERE x.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	return e, err
}

func (s *Store) UpdateExpense(ctx context.Context, e Expense) (Expense, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE expenses
    SET year = $2, month = $3, quarter = $4, category_id = NULLIF($5,'')::uuid,
        amount = $6, expense_date = $7, notes = $8, updated_at = now()
    WHERE id = $1
  `, e.ID, e.Year, e.Month, e.Quarter, e.CategoryID, e.Amount, e.ExpenseDate, e.Notes)
	if err != nil {
		return Expense{}, err
	}
	if tag.RowsAffected() == 0 {
		return Expense{}, ErrNotFound
	}
	return s.GetExpense(ctx, e.ID)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func periodClauses(query string, f Filter, args []any) (string, []any) {
	if f.Year > 0 {
		query += fmt.Sprintf(" AND x.year = $%d", len(args)+1)
		args = append(args, f.Year)
	}
	if f.Month > 0 {
		query += fmt.Sprintf(" AND x.month = $%d", len(args)+1)
		args = append(args, f.Month)
	}
	if f.Quarter > 0 {
		query += fmt.Sprintf(" AND x.quarter = $%d", len(args)+1)
		args = append(args, f.Quarter)
	}
	return query, args
}

func (s *Store) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	query := `
    SELECT ` + expenseColumns + `
    FROM expenses x
    LEFT JOIN expense_categories c ON x.category_id = c.id
    WHERE 1=1`
	var args []any
	query, args = periodClauses(query, f, args)
	query += " ORDER BY x.expense_date DESC, x.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

const revenueColumns = `
  x.id, x.year, x.month, x.quarter, x.source,
  x.amount, x.revenue_date, x.notes, x.created_at, x.updated_at
`

func scanRevenue(row pgx.Row) (Revenue, error) {
	var r Revenue
	err := row.Scan(
		&r.ID, &r.Year, &r.Month, &r.Quarter, &r.Source,
		&r.Amount, &r.RevenueDate, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Store) InsertRevenue(ctx context.Context, r Revenue) (Revenue, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO revenues (year, month, quarter, source, amount, revenue_date, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, r.Year, r.Month, r.Quarter, r.Source, r.Amount, r.RevenueDate, r.Notes).Scan(&id)
	if err != nil {
		return Revenue{}, err
	}
	return s.GetRevenue(ctx, id)
}

func (s *Store) GetRevenue(ctx context.Context, id string) (Revenue, error) {
	r, err := scanRevenue(s.DB.QueryRow(ctx, `
    SELECT `+revenueColumns+`
    FROM revenues x
    WHERE x.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Revenue{}, ErrNotFound
	}
	return r, err
}

func (s *Store) UpdateRevenue(ctx context.Context, r Revenue) (Revenue, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE revenues
    SET year = $2, month = $3, quarter = $4, source = $5,
        amount = $6, revenue_date = $7, notes = $8, updated_at = now()
    WHERE id = $1
  `, r.ID, r.Year, r.Month, r.Quarter, r.Source, r.Amount, r.RevenueDate, r.Notes)
	if err != nil {
		return Revenue{}, err
	}
	if tag.RowsAffected() == 0 {
		return Revenue{}, ErrNotFound
	}
	return s.GetRevenue(ctx, r.ID)
}

func (s *Store) DeleteRevenue(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM revenues WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListRevenues(ctx context.Context, f Filter) ([]Revenue, error) {
	query := `
    SELECT ` + revenueColumns + `
    FROM revenues x
    WHERE 1=1`
	var args []any
	query, args = periodClauses(query, f, args)
	query += " ORDER BY x.revenue_date DESC, x.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Revenue
	for rows.Next() {
		r, err := scanRevenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, sort_order, created_at
    FROM expense_categories
    ORDER BY sort_order, name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) InsertCategory(ctx context.Context, c Category) (Category, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO expense_categories (name, sort_order)
    VALUES ($1, $2)
    RETURNING id, created_at
  `, c.Name, c.SortOrder).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM expense_categories WHERE id = $1", id)
	if err != nil {
		return mapCategoryDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories stay deletable only while nothing points at them; the foreign
// key violation from expenses.category_id becomes a domain error.
func mapCategoryDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrCategoryInUse
	}
	return err
}

// YearSummary aggregates revenue and expenses per quarter for one year.
func (s *Store) YearSummary(ctx context.Context, year int) (YearSummary, error) {
	summary := YearSummary{Year: year, Quarters: make([]QuarterTotals, 4)}
	for q := range summary.Quarters {
		summary.Quarters[q].Quarter = q + 1
	}

	rows, err := s.DB.Query(ctx, `
    SELECT quarter, COALESCE(SUM(amount), 0)
    FROM revenues
    WHERE year = $1
    GROUP BY quarter
  `, year)
	if err != nil {
		return YearSummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var q int
		var total float64
		if err := rows.Scan(&q, &total); err != nil {
			return YearSummary{}, err
		}
		if q >= 1 && q <= 4 {
			summary.Quarters[q-1].Revenue = total
			summary.TotalRevenue += total
		}
	}

	rows, err = s.DB.Query(ctx, `
    SELECT quarter, COALESCE(SUM(amount), 0)
    FROM expenses
    WHERE year = $1
    GROUP BY quarter
  `, year)
	if err != nil {
		return YearSummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var q int
		var total float64
		if err := rows.Scan(&q, &total); err != nil {
			return YearSummary{}, err
		}
		if q >= 1 && q <= 4 {
			summary.Quarters[q-1].Expenses = total
			summary.TotalExpenses += total
		}
	}

	for q := range summary.Quarters {
		summary.Quarters[q].Net = summary.Quarters[q].Revenue - summary.Quarters[q].Expenses
	}
	summary.Net = summary.TotalRevenue - summary.TotalExpenses
	return summary, nil
}
