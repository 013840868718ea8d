package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all settings in a single JSON object on disk, the same
// shape the web app keeps in local storage. Unparseable contents read as an
// empty store.
type FileStore struct {
	mu     sync.Mutex
	path   string
	closed bool
}

var _ PreferenceStore = (*FileStore)(nil)

// OpenFile returns a FileStore backed by path. The file is created on the
// first Save.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) loadAll() (map[string]Settings, error) {
	if f.closed {
		return nil, ErrClosed
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Settings{}, nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}
	var raw map[string]Settings
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]Settings{}, nil
	}
	all := make(map[string]Settings, len(raw))
	for site, s := range raw {
		all[Key(site)] = s
	}
	return all, nil
}

func (f *FileStore) saveAll(all map[string]Settings) error {
	data, err := json.Marshal(all)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

// GetAll returns every stored record.
func (f *FileStore) GetAll(ctx context.Context) (map[string]Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadAll()
}

// GetForInput returns the record for site, if any.
func (f *FileStore) GetForInput(ctx context.Context, site string) (map[string]Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.loadAll()
	if err != nil {
		return nil, err
	}
	key := Key(site)
	if s, ok := all[key]; ok {
		return map[string]Settings{key: s}, nil
	}
	return map[string]Settings{}, nil
}

// Save upserts the record for site. A non-positive maxLength removes any
// stored limit.
func (f *FileStore) Save(ctx context.Context, site, specialChar string, maxLength int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.loadAll()
	if err != nil {
		return err
	}
	all[Key(site)] = NewSettings(specialChar, maxLength)
	return f.saveAll(all)
}

// Close marks the store closed; later calls fail with ErrClosed.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
