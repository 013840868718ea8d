package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const metaSchemaVersion = "schema_version"

// SetMeta records a store-level value such as the schema version.
func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	if _, err := s.conn.ExecContext(ctx,
		`INSERT INTO store_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	); err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta returns the value stored under key, or "" when it was never set.
func (s *SQLiteStore) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, nil
}

// ensureSchemaVersion stamps a fresh database and rejects one written by a
// newer release.
func (s *SQLiteStore) ensureSchemaVersion(ctx context.Context) error {
	v, err := s.GetMeta(ctx, metaSchemaVersion)
	if err != nil {
		return err
	}
	switch v {
	case "":
		return s.SetMeta(ctx, metaSchemaVersion, schemaVersion)
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSchemaVersion, v)
	}
}
