package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/apprestrictions/pkg/domain"
)

// ErrNotFound returned when a profile has no stored restrictions
var ErrNotFound = errors.New("not found")

// stored value types
const (
	valueTypeBool    = "bool"
	valueTypeString  = "string"
	valueTypeStrings = "strings"
)

// RestrictionRepository keeps the restriction mapping of each profile
type RestrictionRepository struct {
	db *sqlx.DB
}

// NewRestrictionRepository creates a new restriction repository
func NewRestrictionRepository(db *sqlx.DB) *RestrictionRepository {
	return &RestrictionRepository{db: db}
}

type restrictionRow struct {
	ProfileID string `db:"profile_id"`
	Key       string `db:"key"`
	ValueType string `db:"value_type"`
	Value     string `db:"value"`
}

type profileRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GetRestrictions returns the mapping stored for the profile. A profile never configured
// returns nil mapping and no error, a configured one with no values returns an empty mapping.
func (r *RestrictionRepository) GetRestrictions(ctx context.Context, profile string) (domain.Restrictions, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)", profile); err != nil {
		return nil, fmt.Errorf("check profile %s: %w", profile, err)
	}
	if !exists {
		return nil, nil
	}

	var rows []restrictionRow
	query := "SELECT profile_id, key, value_type, value FROM restrictions WHERE profile_id = ? ORDER BY key"
	if err := r.db.SelectContext(ctx, &rows, query, profile); err != nil {
		return nil, fmt.Errorf("get restrictions for %s: %w", profile, err)
	}

	res := make(domain.Restrictions, len(rows))
	for _, row := range rows {
		v, err := decodeValue(row)
		if err != nil {
			return nil, err
		}
		res[row.Key] = v
	}
	return res, nil
}

// SetRestrictions replaces the mapping stored for the profile
func (r *RestrictionRepository) SetRestrictions(ctx context.Context, profile string, values domain.Restrictions) error {
	rows := make([]restrictionRow, 0, len(values))
	for key := range values {
		row, err := encodeValue(profile, key, values)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return withRetry(ctx, func() error { return r.replace(ctx, profile, rows) })
}

func (r *RestrictionRepository) replace(ctx context.Context, profile string, rows []restrictionRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO profiles (id) VALUES (?)
		ON CONFLICT(id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.ExecContext(ctx, upsert, profile); err != nil {
		return fmt.Errorf("save profile %s: %w", profile, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM restrictions WHERE profile_id = ?", profile); err != nil {
		return fmt.Errorf("clear restrictions for %s: %w", profile, err)
	}
	if len(rows) > 0 {
		insert := `INSERT INTO restrictions (profile_id, key, value_type, value)
			VALUES (:profile_id, :key, :value_type, :value)`
		if _, err := tx.NamedExecContext(ctx, insert, rows); err != nil {
			return fmt.Errorf("insert restrictions for %s: %w", profile, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restrictions for %s: %w", profile, err)
	}
	return nil
}

// DeleteRestrictions removes the profile with all its values
func (r *RestrictionRepository) DeleteRestrictions(ctx context.Context, profile string) error {
	return withRetry(ctx, func() error { return r.delete(ctx, profile) })
}

func (r *RestrictionRepository) delete(ctx context.Context, profile string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM restrictions WHERE profile_id = ?", profile); err != nil {
		return fmt.Errorf("delete restrictions for %s: %w", profile, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", profile)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", profile, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", profile, err)
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", profile, ErrNotFound)
	}
	return tx.Commit()
}

// ListProfiles returns all configured profiles ordered by id
func (r *RestrictionRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, created_at, updated_at FROM profiles ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	res := make([]domain.Profile, len(rows))
	for i, row := range rows {
		res[i] = domain.Profile{ID: row.ID, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}
	}
	return res, nil
}

func encodeValue(profile, key string, values domain.Restrictions) (restrictionRow, error) {
	row := restrictionRow{ProfileID: profile, Key: key}
	var v any
	switch val := values[key].(type) {
	case bool:
		row.ValueType, v = valueTypeBool, val
	case string:
		row.ValueType, v = valueTypeString, val
	default:
		ss, ok := values.Strings(key)
		if !ok {
			return row, fmt.Errorf("unsupported value type %T for %s", values[key], key)
		}
		if ss == nil {
			ss = []string{}
		}
		row.ValueType, v = valueTypeStrings, ss
	}

	data, err := json.Marshal(v)
	if err != nil {
		return row, fmt.Errorf("encode %s: %w", key, err)
	}
	row.Value = string(data)
	return row, nil
}

func decodeValue(row restrictionRow) (any, error) {
	var target any
	switch row.ValueType {
	case valueTypeBool:
		var b bool
		target = &b
	case valueTypeString:
		var s string
		target = &s
	case valueTypeStrings:
		ss := []string{}
		target = &ss
	default:
		return nil, fmt.Errorf("unknown value type %q for %s", row.ValueType, row.Key)
	}
	if err := json.Unmarshal([]byte(row.Value), target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", row.Key, err)
	}

	switch t := target.(type) {
	case *bool:
		return *t, nil
	case *string:
		return *t, nil
	case *[]string:
		return *t, nil
	}
	return nil, fmt.Errorf("unexpected target for %s", row.Key)
}
