package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

const createSchema = `
CREATE TABLE IF NOT EXISTS site_settings (
	site         TEXT PRIMARY KEY,
	special_char TEXT NOT NULL DEFAULT '',
	max_length   INTEGER,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS store_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteStore keeps settings in a local SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

var _ PreferenceStore = (*SQLiteStore)(nil)

// Open opens or creates the settings database at the given path.
func Open(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(createSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.ensureSchemaVersion(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// GetAll returns every stored record.
func (s *SQLiteStore) GetAll(ctx context.Context) (map[string]Settings, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT site, special_char, max_length FROM site_settings ORDER BY site",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]Settings)
	for rows.Next() {
		site, settings, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		all[site] = settings
	}
	return all, rows.Err()
}

// GetForInput returns the record for site, if any.
func (s *SQLiteStore) GetForInput(ctx context.Context, site string) (map[string]Settings, error) {
	key := Key(site)
	row := s.conn.QueryRowContext(ctx,
		"SELECT site, special_char, max_length FROM site_settings WHERE site = ?", key,
	)
	found, settings, err := scanSettings(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return map[string]Settings{}, nil
		}
		return nil, err
	}
	return map[string]Settings{found: settings}, nil
}

// Save upserts the record for site.
func (s *SQLiteStore) Save(ctx context.Context, site, specialChar string, maxLength int) error {
	var limit sql.NullInt64
	if maxLength > 0 {
		limit = sql.NullInt64{Int64: int64(maxLength), Valid: true}
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO site_settings (site, special_char, max_length, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(site) DO UPDATE SET
			special_char = excluded.special_char,
			max_length = excluded.max_length,
			updated_at = excluded.updated_at`,
		Key(site), specialChar, limit, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_settings").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSettings(sc scanner) (string, Settings, error) {
	var site, special string
	var limit sql.NullInt64
	if err := sc.Scan(&site, &special, &limit); err != nil {
		return "", Settings{}, err
	}
	maxLength := noLimit
	if limit.Valid {
		maxLength = int(limit.Int64)
	}
	return site, NewSettings(special, maxLength), nil
}
