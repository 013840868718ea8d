// Package store persists per-site password settings.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// noLimit is the max length reported for records stored without one.
const noLimit = -1

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrClosed         = errors.New("store is closed")
	ErrSchemaVersion  = errors.New("unsupported settings database version")
)

// Settings is the per-site record. The JSON shape matches the browser
// clients' export format.
type Settings struct {
	SpecialChar string `json:"specialChar"`
	MaxLength   *int   `json:"maxLength,omitempty"`
}

// Limit returns the stored max length, or -1 when none is stored.
func (s Settings) Limit() int {
	if s.MaxLength == nil || *s.MaxLength <= 0 {
		return noLimit
	}
	return *s.MaxLength
}

// NewSettings builds a record, omitting a non-positive max length.
func NewSettings(specialChar string, maxLength int) Settings {
	s := Settings{SpecialChar: specialChar}
	if maxLength > 0 {
		s.MaxLength = &maxLength
	}
	return s
}

// PreferenceStore is implemented by every storage backend. Site identifiers
// compare case-insensitively.
type PreferenceStore interface {
	// GetAll returns every stored record keyed by site.
	GetAll(ctx context.Context) (map[string]Settings, error)
	// GetForInput returns a map holding zero or one entry for site.
	GetForInput(ctx context.Context, site string) (map[string]Settings, error)
	// Save upserts the record for site. maxLength <= 0 stores no limit.
	Save(ctx context.Context, site, specialChar string, maxLength int) error
	Close() error
}

// Key is the storage key for a site identifier.
func Key(site string) string {
	return strings.ToLower(site)
}

// OpenBackend opens the named backend ("sqlite" or "file") at path.
func OpenBackend(backend, path string) (PreferenceStore, error) {
	switch backend {
	case "sqlite", "":
		return Open(path)
	case "file":
		return OpenFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
