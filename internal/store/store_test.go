package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tmpDB(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tmpFile(t *testing.T) *FileStore {
	t.Helper()
	f, err := OpenFile(filepath.Join(t.TempDir(), "sites.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// backends runs fn against both store implementations.
func backends(t *testing.T, fn func(t *testing.T, s PreferenceStore)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, tmpDB(t)) })
	t.Run("file", func(t *testing.T) { fn(t, tmpFile(t)) })
}

func TestOpen_CreatesSchema(t *testing.T) {
	db := tmpDB(t)
	for _, table := range []string{"site_settings", "store_meta"} {
		var name string
		err := db.conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_WALMode(t *testing.T) {
	db := tmpDB(t)
	var mode string
	db.conn.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
}

func TestOpen_SchemaVersion(t *testing.T) {
	db := tmpDB(t)
	v, err := db.GetMeta(context.Background(), metaSchemaVersion)
	if err != nil {
		t.Fatal(err)
	}
	if v != schemaVersion {
		t.Fatalf("expected schema version %s, got %q", schemaVersion, v)
	}
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta(context.Background(), metaSchemaVersion, "99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaVersion) {
		t.Fatalf("expected ErrSchemaVersion, got %v", err)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := db.Save(ctx, "a.com", "!", 4); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.GetForInput(ctx, "a.com")
	if err != nil {
		t.Fatal(err)
	}
	if got["a.com"].Limit() != 4 {
		t.Fatalf("expected limit 4 after reopen, got %+v", got)
	}
}

func TestSetMeta_GetMeta(t *testing.T) {
	db := tmpDB(t)
	ctx := context.Background()
	if err := db.SetMeta(ctx, "key1", "value1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMeta(ctx, "key1", "value2"); err != nil {
		t.Fatal(err)
	}
	val, err := db.GetMeta(ctx, "key1")
	if err != nil {
		t.Fatal(err)
	}
	if val != "value2" {
		t.Fatalf("expected value2, got %s", val)
	}
}

func TestGetMeta_NotFound(t *testing.T) {
	db := tmpDB(t)
	val, err := db.GetMeta(context.Background(), "nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if val != "" {
		t.Fatalf("expected empty string, got %q", val)
	}
}

func TestSave_GetForInput(t *testing.T) {
	backends(t, func(t *testing.T, s PreferenceStore) {
		ctx := context.Background()
		if err := s.Save(ctx, "google.com", "!", 12); err != nil {
			t.Fatal(err)
		}
		got, err := s.GetForInput(ctx, "google.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}
		rec := got["google.com"]
		if rec.SpecialChar != "!" || rec.Limit() != 12 {
			t.Fatalf("unexpected record %+v (limit %d)", rec, rec.Limit())
		}
	})
}

func TestGetForInput_Missing(t *testing.T) {
	backends(t, func(t *testing.T, s PreferenceStore) {
		got, err := s.GetForInput(context.Background(), "nope.com")
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty map, got %v", got)
		}
	})
}

func TestSave_CaseInsensitive(t *testing.T) {
	backends(t, func(t *testing.T, s PreferenceStore) {
		ctx := context.Background()
		if err := s.Save(ctx, "Example.COM", "#", 0); err != nil {
			t.Fatal(err)
		}
		if err := s.Save(ctx, "example.com", "$", 0); err != nil {
			t.Fatal(err)
		}
		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 {
			t.Fatalf("expected one record, got %v", all)
		}
		got, err := s.GetForInput(ctx, "EXAMPLE.com")
		if err != nil {
			t.Fatal(err)
		}
		if got["example.com"].SpecialChar != "$" {
			t.Fatalf("expected latest save to win, got %+v", got)
		}
	})
}

func TestSave_NonPositiveLimitOmitted(t *testing.T) {
	backends(t, func(t *testing.T, s PreferenceStore) {
		ctx := context.Background()
		if err := s.Save(ctx, "a.com", "!", 8); err != nil {
			t.Fatal(err)
		}
		if err := s.Save(ctx, "a.com", "!", -1); err != nil {
			t.Fatal(err)
		}
		got, _ := s.GetForInput(ctx, "a.com")
		if got["a.com"].MaxLength != nil {
			t.Fatalf("expected max length removed, got %d", *got["a.com"].MaxLength)
		}
		if got["a.com"].Limit() != -1 {
			t.Fatalf("expected no limit, got %d", got["a.com"].Limit())
		}
	})
}

func TestGetAll(t *testing.T) {
	backends(t, func(t *testing.T, s PreferenceStore) {
		ctx := context.Background()
		s.Save(ctx, "a.com", "", 0)
		s.Save(ctx, "b.com", "!", 5)
		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 records, got %d", len(all))
		}
		if all["b.com"].Limit() != 5 {
			t.Fatalf("expected limit 5, got %d", all["b.com"].Limit())
		}
	})
}

func TestCount(t *testing.T) {
	db := tmpDB(t)
	ctx := context.Background()
	db.Save(ctx, "a.com", "", 0)
	db.Save(ctx, "b.com", "", 0)
	n, err := db.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}

func TestFileStore_ReadsWebExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	os.WriteFile(path, []byte(`{"Google.com":{"specialChar":"!","maxLength":5},"wikipedia.com":{"specialChar":""}}`), 0600)

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.GetForInput(context.Background(), "google.com")
	if err != nil {
		t.Fatal(err)
	}
	if got["google.com"].Limit() != 5 {
		t.Fatalf("expected limit 5, got %+v", got)
	}
}

func TestFileStore_CorruptReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	os.WriteFile(path, []byte("not json"), 0600)

	f, _ := OpenFile(path)
	all, err := f.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %v", all)
	}
	if err := f.Save(context.Background(), "a.com", "", 0); err != nil {
		t.Fatal(err)
	}
}

func TestFileStore_Closed(t *testing.T) {
	f := tmpFile(t)
	f.Close()
	if _, err := f.GetAll(context.Background()); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBackend("sqlite", filepath.Join(dir, "p.db"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", s)
	}

	s, err = OpenBackend("file", filepath.Join(dir, "p.json"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}

	if _, err := OpenBackend("chrome-sync", dir); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSettings_Limit(t *testing.T) {
	if NewSettings("!", 0).MaxLength != nil {
		t.Fatal("zero max length should be omitted")
	}
	if NewSettings("!", 9).Limit() != 9 {
		t.Fatal("expected limit 9")
	}
	neg := -3
	if (Settings{MaxLength: &neg}).Limit() != -1 {
		t.Fatal("negative stored limit should read as no limit")
	}
}
