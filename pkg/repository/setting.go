package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// SettingRepository handles setting-related database operations
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves a setting value, empty string if not set
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting stores a setting value
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	return withRetry(ctx, func() error {
		if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("set setting: %w", err)
		}
		return nil
	})
}

// GetBool reads a boolean flag, false if not set
func (r *SettingRepository) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := r.GetSetting(ctx, key)
	if err != nil {
		return false, err
	}
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse flag %s: %w", key, err)
	}
	return b, nil
}

// SetBool stores a boolean flag
func (r *SettingRepository) SetBool(ctx context.Context, key string, value bool) error {
	return r.SetSetting(ctx, key, strconv.FormatBool(value))
}
