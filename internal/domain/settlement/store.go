package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("leave settlement not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const settlementColumns = `
  id, employee_id, join_date, leave_start_date, leave_end_date, leave_days,
  previous_balance_days, tickets_entitlement, visas_count, deductions_amount,
  service_days, service_years, service_months, service_extra_days,
  accrued_days, balance_before_deduction, current_leave_days,
  balance_after_deduction, tickets_count, net_payable, is_balance_sufficient,
  COALESCE(created_by::text, ''), created_at
`

func scanSettlement(row pgx.Row) (Settlement, error) {
	var s Settlement
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.JoinDate, &s.LeaveStartDate, &s.LeaveEndDate, &s.LeaveDays,
		&s.PreviousBalanceDays, &s.TicketsEntitlement, &s.VisasCount, &s.DeductionsAmount,
		&s.ServiceDays, &s.ServiceYears, &s.ServiceMonths, &s.ServiceExtraDays,
		&s.AccruedDays, &s.BalanceBeforeDeduction, &s.CurrentLeaveDays,
		&s.BalanceAfterDeduction, &s.TicketsCount, &s.NetPayable, &s.IsBalanceSufficient,
		&s.CreatedBy, &s.CreatedAt,
	)
	return s, err
}

func (s *Store) Insert(ctx context.Context, employeeID string, input Input, result Result, createdBy string) (Settlement, error) {
	return scanSettlement(s.DB.QueryRow(ctx, `
    INSERT INTO leave_settlements (
      employee_id, join_date, leave_start_date, leave_end_date, leave_days,
      previous_balance_days, tickets_entitlement, visas_count, deductions_amount,
      service_days, service_years, service_months, service_extra_days,
      accrued_days, balance_before_deduction, current_leave_days,
      balance_after_deduction, tickets_count, net_payable, is_balance_sufficient,
      created_by
    ) VALUES (
      $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
      NULLIF($21,'')::uuid
    )
    RETURNING `+settlementColumns+`
  `,
		employeeID, input.JoinDate, input.LeaveStartDate, input.LeaveEndDate, input.LeaveDays,
		input.PreviousBalanceDays, input.TicketsEntitlement, input.VisasCount, input.DeductionsAmount,
		result.ServiceDays, result.ServiceYears, result.ServiceMonths, result.ServiceExtraDays,
		result.AccruedDays, result.BalanceBeforeDeduction, result.CurrentLeaveDays,
		result.BalanceAfterDeduction, result.TicketsCount, result.NetPayable, result.IsBalanceSufficient,
		createdBy,
	))
}

func (s *Store) Get(ctx context.Context, id string) (Settlement, error) {
	settlement, err := scanSettlement(s.DB.QueryRow(ctx, `
    SELECT `+settlementColumns+`
    FROM leave_settlements
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Settlement{}, ErrNotFound
	}
	return settlement, err
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Settlement, error) {
	query := "SELECT " + settlementColumns + " FROM leave_settlements WHERE 1=1"
	var args []any
	if employeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, settlement)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_settlements WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
