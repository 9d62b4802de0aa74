package periodlock

import (
	"context"
	"errors"
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

const lockColumns = `
  id, year, month, is_locked,
  locked_by, locked_at, lock_reason,
  unlocked_by, unlocked_at, unlock_reason
`

func scanLock(row pgx.Row) (PeriodLock, error) {
	var lock PeriodLock
	err := row.Scan(
		&lock.ID, &lock.Year, &lock.Month, &lock.IsLocked,
		&lock.LockedBy, &lock.LockedAt, &lock.LockReason,
		&lock.UnlockedBy, &lock.UnlockedAt, &lock.UnlockReason,
	)
	return lock, err
}

func (s *Store) IsLocked(ctx context.Context, year, month int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM period_locks
    WHERE year = $1 AND month = $2 AND is_locked
  `, year, month).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Get(ctx context.Context, year, month int) (PeriodLock, bool, error) {
	lock, err := scanLock(s.DB.QueryRow(ctx, `
    SELECT `+lockColumns+`
    FROM period_locks
    WHERE year = $1 AND month = $2
  `, year, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return PeriodLock{}, false, nil
	}
	if err != nil {
		return PeriodLock{}, false, err
	}
	return lock, true, nil
}

func (s *Store) List(ctx context.Context, year int) ([]PeriodLock, error) {
	query := "SELECT " + lockColumns + " FROM period_locks"
	var args []any
	if year > 0 {
		query += " WHERE year = $1"
		args = append(args, year)
	}
	query += " ORDER BY year DESC, month DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodLock
	for rows.Next() {
		lock, err := scanLock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lock)
	}
	return out, nil
}

// Lock creates or re-locks the (year, month) row. The row is read under
// FOR UPDATE so two concurrent lock attempts serialize on the database.
func (s *Store) Lock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PeriodLock{}, PeriodLock{}, err
	}
	defer rollback(ctx, tx)

	before, err := scanLock(tx.QueryRow(ctx, `
    SELECT `+lockColumns+`
    FROM period_locks
    WHERE year = $1 AND month = $2
    FOR UPDATE
  `, year, month))

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		after, err := scanLock(tx.QueryRow(ctx, `
      INSERT INTO period_locks (year, month, is_locked, locked_by, locked_at, lock_reason)
      VALUES ($1, $2, TRUE, $3, now(), $4)
      RETURNING `+lockColumns+`
    `, year, month, actor, reason))
		if err != nil {
			return PeriodLock{}, PeriodLock{}, err
		}
		return PeriodLock{}, after, tx.Commit(ctx)
	case err != nil:
		return PeriodLock{}, PeriodLock{}, err
	}

	if before.IsLocked {
		return before, before, ErrAlreadyLocked
	}

	after, err := scanLock(tx.QueryRow(ctx, `
    UPDATE period_locks
    SET is_locked = TRUE, locked_by = $3, locked_at = now(), lock_reason = $4
    WHERE year = $1 AND month = $2
    RETURNING `+lockColumns+`
  `, year, month, actor, reason))
	if err != nil {
		return PeriodLock{}, PeriodLock{}, err
	}
	return before, after, tx.Commit(ctx)
}

func (s *Store) Unlock(ctx context.Context, year, month int, actor, reason string) (PeriodLock, PeriodLock, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PeriodLock{}, PeriodLock{}, err
	}
	defer rollback(ctx, tx)

	before, err := scanLock(tx.QueryRow(ctx, `
    SELECT `+lockColumns+`
    FROM period_locks
    WHERE year = $1 AND month = $2
    FOR UPDATE
  `, year, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return PeriodLock{}, PeriodLock{}, ErrNotLocked
	}
	if err != nil {
		return PeriodLock{}, PeriodLock{}, err
	}
	if !before.IsLocked {
		return before, before, ErrNotLocked
	}

	after, err := scanLock(tx.QueryRow(ctx, `
    UPDATE period_locks
    SET is_locked = FALSE, unlocked_by = $3, unlocked_at = now(), unlock_reason = $4
    WHERE year = $1 AND month = $2
    RETURNING `+lockColumns+`
  `, year, month, actor, reason))
	if err != nil {
		return PeriodLock{}, PeriodLock{}, err
	}
	return before, after, tx.Commit(ctx)
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("period lock rollback failed", "err", err)
	}
}
