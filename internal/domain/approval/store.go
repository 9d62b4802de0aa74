package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
  id, entity_type, COALESCE(entity_id::text, ''), operation,
  request_data, current_data, status,
  maker, maker_comment, checker, checker_comment,
  requested_at, checked_at
`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.EntityType, &req.EntityID, &req.Operation,
		&req.RequestData, &req.CurrentData, &req.Status,
		&req.Maker, &req.MakerComment, &req.Checker, &req.CheckerComment,
		&req.RequestedAt, &req.CheckedAt,
	)
	return req, err
}

func (s *Store) Insert(ctx context.Context, submission Submission) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO pending_approvals (entity_type, entity_id, operation, request_data, current_data, maker, maker_comment)
    VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7)
    RETURNING id
  `, submission.EntityType, submission.EntityID, submission.Operation,
		submission.RequestData, submission.CurrentData, submission.Maker, submission.MakerComment).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM pending_approvals
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) List(ctx context.Context, status, entityType string, limit, offset int) ([]Request, error) {
	query, args := filterQuery("SELECT "+requestColumns, status, entityType)
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, status, entityType string) (int, error) {
	query, args := filterQuery("SELECT COUNT(1)", status, entityType)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func filterQuery(prefix, status, entityType string) (string, []any) {
	query := prefix + " FROM pending_approvals WHERE 1=1"
	var args []any
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}
	if entityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", len(args)+1)
		args = append(args, entityType)
	}
	return query, args
}

func (s *Store) Decide(ctx context.Context, id, status, checker, comment string) (Request, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Request{}, err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("approval decide rollback failed", "err", rbErr)
		}
	}()

	current, err := scanRequest(tx.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM pending_approvals
    WHERE id = $1
    FOR UPDATE
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	if current.Status != StatusPending {
		return current, ErrAlreadyProcessed
	}

	decided, err := scanRequest(tx.QueryRow(ctx, `
    UPDATE pending_approvals
    SET status = $2, checker = $3, checker_comment = $4, checked_at = now()
    WHERE id = $1
    RETURNING `+requestColumns+`
  `, id, status, checker, comment))
	if err != nil {
		return Request{}, err
	}
	return decided, tx.Commit(ctx)
}
