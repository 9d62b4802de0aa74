package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hroffice/internal/domain/auth"
	"hroffice/internal/domain/settings"
	"hroffice/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg); err != nil {
		return err
	}
	return ensureDefaultSettings(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := cfg.SeedAdminPassword
	if password == "" {
		password = "changeme"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, display_name, password_hash, role)
    VALUES ($1, $2, $3, 'admin')
  `, email, cfg.SeedAdminName, hash)
	return err
}

func ensureDefaultSettings(ctx context.Context, pool *pgxpool.Pool) error {
	for _, def := range settings.Defaults() {
		_, err := pool.Exec(ctx, `
      INSERT INTO system_settings (key, value, data_type, category, description, is_editable, updated_by)
      VALUES ($1, $2, $3, $4, $5, $6, 'system')
      ON CONFLICT (key) DO NOTHING
    `, def.Key, def.Value, def.DataType, def.Category, def.Description, def.IsEditable)
		if err != nil {
			return err
		}
	}
	return nil
}
