package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  id, name, position, base_salary, social_insurance, leave_balance,
  sort_order, is_active, created_at, updated_at
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Position, &emp.BaseSalary, &emp.SocialInsurance,
		&emp.LeaveBalance, &emp.SortOrder, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY sort_order, name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, position, base_salary, social_insurance, leave_balance, sort_order)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+employeeColumns+`
  `, emp.Name, emp.Position, emp.BaseSalary, emp.SocialInsurance, emp.LeaveBalance, emp.SortOrder))
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	updated, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET name = $2, position = $3, base_salary = $4, social_insurance = $5,
        leave_balance = $6, sort_order = $7, is_active = $8, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns+`
  `, emp.ID, emp.Name, emp.Position, emp.BaseSalary, emp.SocialInsurance, emp.LeaveBalance, emp.SortOrder, emp.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return updated, err
}

// DeactivateEmployee soft-deletes: payroll and settlement history keep
// referencing the row.
func (s *Store) DeactivateEmployee(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET is_active = FALSE, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns+`
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

const contractorColumns = `
  id, name, position, base_salary, sort_order, is_active, created_at, updated_at
`

func scanContractor(row pgx.Row) (Contractor, error) {
	var c Contractor
	err := row.Scan(&c.ID, &c.Name, &c.Position, &c.BaseSalary, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListContractors(ctx context.Context, activeOnly bool) ([]Contractor, error) {
	query := "SELECT " + contractorColumns + " FROM contractors"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY sort_order, name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetContractor(ctx context.Context, id string) (Contractor, error) {
	c, err := scanContractor(s.DB.QueryRow(ctx, `
    SELECT `+contractorColumns+`
    FROM contractors
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contractor{}, ErrNotFound
	}
	return c, err
}

func (s *Store) CreateContractor(ctx context.Context, c Contractor) (Contractor, error) {
	return scanContractor(s.DB.QueryRow(ctx, `
    INSERT INTO contractors (name, position, base_salary, sort_order)
    VALUES ($1,$2,$3,$4)
    RETURNING `+contractorColumns+`
  `, c.Name, c.Position, c.BaseSalary, c.SortOrder))
}

func (s *Store) UpdateContractor(ctx context.Context, c Contractor) (Contractor, error) {
	updated, err := scanContractor(s.DB.QueryRow(ctx, `
    UPDATE contractors
    SET name = $2, position = $3, base_salary = $4, sort_order = $5, is_active = $6, updated_at = now()
    WHERE id = $1
    RETURNING `+contractorColumns+`
  `, c.ID, c.Name, c.Position, c.BaseSalary, c.SortOrder, c.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contractor{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) DeactivateContractor(ctx context.Context, id string) (Contractor, error) {
	c, err := scanContractor(s.DB.QueryRow(ctx, `
    UPDATE contractors
    SET is_active = FALSE, updated_at = now()
    WHERE id = $1
    RETURNING `+contractorColumns+`
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contractor{}, ErrNotFound
	}
	return c, err
}
