package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeePayrollColumns = `
  p.id, p.employee_id, e.name, p.year, p.month,
  p.base_salary, p.allowances, p.deductions, p.social_insurance,
  p.net_salary, p.notes, p.created_at, p.updated_at
`

func scanEmployeePayroll(row pgx.Row) (EmployeePayroll, error) {
	var p EmployeePayroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeName, &p.Year, &p.Month,
		&p.BaseSalary, &p.Allowances, &p.Deductions, &p.SocialInsurance,
		&p.NetSalary, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *Store) ListEmployeePayrolls(ctx context.Context, year, month int) ([]EmployeePayroll, error) {
	query := `
    SELECT ` + employeePayrollColumns + `
    FROM employee_payrolls p
    JOIN employees e ON p.employee_id = e.id
    WHERE 1=1`
	var args []any
	if year > 0 {
		query += fmt.Sprintf(" AND p.year = $%d", len(args)+1)
		args = append(args, year)
	}
	if month > 0 {
		query += fmt.Sprintf(" AND p.month = $%d", len(args)+1)
		args = append(args, month)
	}
	query += " ORDER BY e.sort_order, e.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeePayroll
	for rows.Next() {
		p, err := scanEmployeePayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetEmployeePayroll(ctx context.Context, id string) (EmployeePayroll, error) {
	p, err := scanEmployeePayroll(s.DB.QueryRow(ctx, `
    SELECT `+employeePayrollColumns+`
    FROM employee_payrolls p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeePayroll{}, ErrNotFound
	}
	return p, err
}

// UpsertEmployeePayroll writes the one row per (employee, year, month).
func (s *Store) UpsertEmployeePayroll(ctx context.Context, p EmployeePayroll) (EmployeePayroll, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_payrolls (employee_id, year, month, base_salary, allowances, deductions, social_insurance, net_salary, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (employee_id, year, month) DO UPDATE
    SET base_salary = EXCLUDED.base_salary,
        allowances = EXCLUDED.allowances,
        deductions = EXCLUDED.deductions,
        social_insurance = EXCLUDED.social_insurance,
        net_salary = EXCLUDED.net_salary,
        notes = EXCLUDED.notes,
        updated_at = now()
    RETURNING id
  `, p.EmployeeID, p.Year, p.Month, p.BaseSalary, p.Allowances, p.Deductions, p.SocialInsurance, p.NetSalary, p.Notes).Scan(&id)
	if err != nil {
		return EmployeePayroll{}, err
	}
	return s.GetEmployeePayroll(ctx, id)
}

func (s *Store) DeleteEmployeePayroll(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employee_payrolls WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const contractorPayrollColumns = `
  p.id, p.contractor_id, c.name, p.year, p.month,
  p.base_salary, p.allowances, p.deductions,
  p.net_salary, p.notes, p.created_at, p.updated_at
`

func scanContractorPayroll(row pgx.Row) (ContractorPayroll, error) {
	var p ContractorPayroll
	err := row.Scan(
		&p.ID, &p.ContractorID, &p.ContractorName, &p.Year, &p.Month,
		&p.BaseSalary, &p.Allowances, &p.Deductions,
		&p.NetSalary, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *Store) ListContractorPayrolls(ctx context.Context, year, month int) ([]ContractorPayroll, error) {
	query := `
    SELECT ` + contractorPayrollColumns + `
    FROM contractor_payrolls p
    JOIN contractors c ON p.contractor_id = c.id
    WHERE 1=1`
	var args []any
	if year > 0 {
		query += fmt.Sprintf(" AND p.year = $%d", len(args)+1)
		args = append(args, year)
	}
	if month > 0 {
		query += fmt.Sprintf(" AND p.month = $%d", len(args)+1)
		args = append(args, month)
	}
	query += " ORDER BY c.sort_order, c.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContractorPayroll
	for rows.Next() {
		p, err := scanContractorPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetContractorPayroll(ctx context.Context, id string) (ContractorPayroll, error) {
	p, err := scanContractorPayroll(s.DB.QueryRow(ctx, `
    SELECT `+contractorPayrollColumns+`
    FROM contractor_payrolls p
    JOIN contractors c ON p.contractor_id = c.id
    WHERE p.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ContractorPayroll{}, ErrNotFound
	}
	return p, err
}

func (s *Store) UpsertContractorPayroll(ctx context.Context, p ContractorPayroll) (ContractorPayroll, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contractor_payrolls (contractor_id, year, month, base_salary, allowances, deductions, net_salary, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (contractor_id, year, month) DO UPDATE
    SET base_salary = EXCLUDED.base_salary,
        allowances = EXCLUDED.allowances,
        deductions = EXCLUDED.deductions,
        net_salary = EXCLUDED.net_salary,
        notes = EXCLUDED.notes,
        updated_at = now()
    RETURNING id
  `, p.ContractorID, p.Year, p.Month, p.BaseSalary, p.Allowances, p.Deductions, p.NetSalary, p.Notes).Scan(&id)
	if err != nil {
		return ContractorPayroll{}, err
	}
	return s.GetContractorPayroll(ctx, id)
}

func (s *Store) DeleteContractorPayroll(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contractor_payrolls WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MonthSummary(ctx context.Context, year, month int) (MonthSummary, error) {
	summary := MonthSummary{Year: year, Month: month}

	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COALESCE(SUM(base_salary), 0),
           COALESCE(SUM(allowances), 0),
           COALESCE(SUM(deductions + social_insurance), 0),
           COALESCE(SUM(net_salary), 0)
    FROM employee_payrolls
    WHERE year = $1 AND month = $2
  `, year, month).Scan(&summary.EmployeeCount, &summary.TotalBase, &summary.TotalAllowances, &summary.TotalDeductions, &summary.TotalNet)
	if err != nil {
		return MonthSummary{}, err
	}

	var base, allowances, deductions, net float64
	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COALESCE(SUM(base_salary), 0),
           COALESCE(SUM(allowances), 0),
           COALESCE(SUM(deductions), 0),
           COALESCE(SUM(net_salary), 0)
    FROM contractor_payrolls
    WHERE year = $1 AND month = $2
  `, year, month).Scan(&summary.ContractorCount, &base, &allowances, &deductions, &net)
	if err != nil {
		return MonthSummary{}, err
	}

	summary.TotalBase += base
	summary.TotalAllowances += allowances
	summary.TotalDeductions += deductions
	summary.TotalNet += net
	return summary, nil
}
