package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

const (
	TypeReminderDue     = "reminder_due"
	TypeReminderOverdue = "reminder_overdue"
)

// Mailer delivers a notification by email. The SMTP implementation lives in
// platform/email; tests and disabled configs use a no-op.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Notification struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	ReminderID string     `json:"reminderId,omitempty"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const notificationColumns = `
  id, type, title, body, COALESCE(reminder_id::text, ''), read_at, created_at
`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.ReminderID, &n.ReadAt, &n.CreatedAt)
	return n, err
}

func (s *Store) Insert(ctx context.Context, n Notification) (Notification, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO notifications (type, title, body, reminder_id)
    VALUES ($1,$2,$3,NULLIF($4,'')::uuid)
    RETURNING id
  `, n.Type, n.Title, n.Body, n.ReminderID).Scan(&id)
	if err != nil {
		return Notification{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id string) (Notification, error) {
	n, err := scanNotification(s.DB.QueryRow(ctx, `
    SELECT `+notificationColumns+`
    FROM notifications
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

func (s *Store) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	query := `
    SELECT ` + notificationColumns + `
    FROM notifications`
	if unreadOnly {
		query += " WHERE read_at IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := s.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Store) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE read_at IS NULL").Scan(&count)
	return count, err
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE notifications SET read_at = now() WHERE id = $1 AND read_at IS NULL", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE notifications SET read_at = now() WHERE read_at IS NULL")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HasForReminder reports whether a notification of the given type already
// exists for the reminder, so the due-scan does not duplicate alerts.
func (s *Store) HasForReminder(ctx context.Context, reminderID, notifType string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE reminder_id = $1 AND type = $2
  `, reminderID, notifType).Scan(&count)
	return count > 0, err
}
