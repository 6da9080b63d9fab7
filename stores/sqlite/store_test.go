package sqlite

import (
	"context"
	"courseboard/core"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *sqliteStore {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "courseboard_test.db"))
	t.Cleanup(func() { store.db.Close() })
	return store
}

func TestLoad_EmptyDatabase(t *testing.T) {
	store := newTestStore(t)

	courses, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if courses != nil {
		t.Errorf("Load() on empty database = %v, want nil", courses)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := []core.Course{
		{ID: 1, Title: "Go", Author: "A", Description: "basics", Image: "data:image/png;base64,QQ=="},
		{ID: 2, Title: "SQL", Author: "B", Description: "joins"},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestSave_FullReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, []core.Course{{ID: 1, Title: "old"}, {ID: 2, Title: "older"}})
	store.Save(ctx, []core.Course{{ID: 1, Title: "new"}})

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "new" {
		t.Errorf("Load() = %+v, want only the replacing list", got)
	}
}

func TestLoad_CorruptRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		"INSERT INTO catalog (key, data) VALUES (?, ?)", catalogKey, []byte("not json")); err != nil {
		t.Fatalf("failed to insert corrupt row: %v", err)
	}

	_, err := store.Load(ctx)
	if !errors.Is(err, core.ErrCorruptState) {
		t.Errorf("Load() on corrupt row error = %v, want ErrCorruptState", err)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte(`[{"id":1,"title":"Go"}]`)
	id, err := store.SaveExport(ctx, data)
	if err != nil {
		t.Fatalf("SaveExport() failed: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("SaveExport() returned invalid ID length: got %d, want 26", len(id))
	}

	got, err := store.FindExport(ctx, id)
	if err != nil {
		t.Fatalf("FindExport() failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("FindExport() = %q, want %q", got, data)
	}
}

func TestFindExport_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindExport(context.Background(), "nonexistent-id")
	if !errors.Is(err, core.ErrExportNotFound) {
		t.Errorf("FindExport() error = %v, want ErrExportNotFound", err)
	}
}
