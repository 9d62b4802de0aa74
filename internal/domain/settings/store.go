package settings

import (
	"context"
	"errors"

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

func (s *Store) Get(ctx context.Context, key string) (Setting, error) {
	var setting Setting
	err := s.DB.QueryRow(ctx, `
    SELECT id, key, value, data_type, category, description, is_editable, updated_by, updated_at
    FROM system_settings
    WHERE key = $1
  `, key).Scan(&setting.ID, &setting.Key, &setting.Value, &setting.DataType, &setting.Category, &setting.Description, &setting.IsEditable, &setting.UpdatedBy, &setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Setting{}, ErrNotFound
	}
	return setting, err
}

func (s *Store) List(ctx context.Context, category string) ([]Setting, error) {
	query := `
    SELECT id, key, value, data_type, category, description, is_editable, updated_by, updated_at
    FROM system_settings
  `
	var args []any
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY category, key"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var setting Setting
		if err := rows.Scan(&setting.ID, &setting.Key, &setting.Value, &setting.DataType, &setting.Category, &setting.Description, &setting.IsEditable, &setting.UpdatedBy, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, setting)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, setting Setting) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO system_settings (key, value, data_type, category, description, is_editable, updated_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, setting.Key, setting.Value, setting.DataType, setting.Category, setting.Description, setting.IsEditable, setting.UpdatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicateKey
		}
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateValue(ctx context.Context, key, value, actor string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE system_settings
    SET value = $2, updated_by = $3, updated_at = now()
    WHERE key = $1
  `, key, value, actor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM system_settings WHERE key = $1", key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
