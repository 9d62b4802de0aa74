package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reminderColumns = `
  r.id, r.title, r.type, COALESCE(r.employee_id::text, ''), COALESCE(e.name, ''),
  r.start_date, r.due_date, r.notes, r.is_completed, r.created_at, r.updated_at
`

func scanReminder(row pgx.Row) (Reminder, error) {
	var r Reminder
	err := row.Scan(
		&r.ID, &r.Title, &r.Type, &r.EmployeeID, &r.EmployeeName,
		&r.StartDate, &r.DueDate, &r.Notes, &r.IsCompleted, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Store) List(ctx context.Context, includeCompleted bool) ([]Reminder, error) {
	query := `
    SELECT ` + reminderColumns + `
    FROM reminders r
    LEFT JOIN employees e ON r.employee_id = e.id`
	if !includeCompleted {
		query += " WHERE NOT r.is_completed"
	}
	query += " ORDER BY r.due_date, r.created_at"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ListDueBy returns open reminders whose due date falls on or before the
// given cutoff. The background scan uses it to raise notifications.
func (s *Store) ListDueBy(ctx context.Context, cutoff time.Time) ([]Reminder, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reminderColumns+`
    FROM reminders r
    LEFT JOIN employees e ON r.employee_id = e.id
    WHERE NOT r.is_completed AND r.due_date <= $1
    ORDER BY r.due_date
  `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Reminder, error) {
	r, err := scanReminder(s.DB.QueryRow(ctx, `
    SELECT `+reminderColumns+`
    FROM reminders r
    LEFT JOIN employees e ON r.employee_id = e.id
    WHERE r.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reminder{}, ErrNotFound
	}
	return r, err
}

func (s *Store) Create(ctx context.Context, r Reminder) (Reminder, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO reminders (title, type, employee_id, start_date, due_date, notes, is_completed)
    VALUES ($1,$2,NULLIF($3,'')::uuid,$4,$5,$6,$7)
    RETURNING id
  `, r.Title, r.Type, r.EmployeeID, r.StartDate, r.DueDate, r.Notes, r.IsCompleted).Scan(&id)
	if err != nil {
		return Reminder{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, r Reminder) (Reminder, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE reminders
    SET title = $2, type = $3, employee_id = NULLIF($4,'')::uuid,
        start_date = $5, due_date = $6, notes = $7, is_completed = $8,
        updated_at = now()
    WHERE id = $1
  `, r.ID, r.Title, r.Type, r.EmployeeID, r.StartDate, r.DueDate, r.Notes, r.IsCompleted)
	if err != nil {
		return Reminder{}, err
	}
	if tag.RowsAffected() == 0 {
		return Reminder{}, ErrNotFound
	}
	return s.Get(ctx, r.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM reminders WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
