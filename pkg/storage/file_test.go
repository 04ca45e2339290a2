package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
)

func TestFileStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	cfg, err := diagram.ConfigForPNG(1024, 768, diagram.ThemeDark, 2.0, true)
	if err != nil {
		t.Fatalf("ConfigForPNG error: %v", err)
	}
	d, err := diagram.New("graph TD\n  A-->B", cfg, "flow", "test flow")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := store.SaveDiagram(ctx, d); err != nil {
		t.Fatalf("SaveDiagram error: %v", err)
	}

	got, err := store.GetDiagram(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDiagram error: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("id mismatch: %s != %s", got.ID, d.ID)
	}
	if got.Code.String() != d.Code.String() {
		t.Errorf("code mismatch: %q", got.Code.String())
	}
	if got.Type() != diagram.TypeFlowchart {
		t.Errorf("unexpected type: %s", got.Type())
	}
	if got.Name != "flow" || got.Description != "test flow" {
		t.Errorf("metadata mismatch: %q %q", got.Name, got.Description)
	}
	if got.Config != cfg {
		t.Errorf("config mismatch: %+v", got.Config)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) || !got.UpdatedAt.Equal(d.UpdatedAt) {
		t.Error("timestamps should survive the round trip")
	}

	// Delete reports whether the diagram existed
	deleted, err := store.DeleteDiagram(ctx, d.ID)
	if err != nil {
		t.Fatalf("DeleteDiagram error: %v", err)
	}
	if !deleted {
		t.Error("DeleteDiagram should report true for an existing diagram")
	}
	deleted, err = store.DeleteDiagram(ctx, d.ID)
	if err != nil {
		t.Fatalf("DeleteDiagram error: %v", err)
	}
	if deleted {
		t.Error("DeleteDiagram should report false for a missing diagram")
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	_, err := store.GetDiagram(ctx, uuid.New())
	if err == nil {
		t.Fatal("GetDiagram should fail for a missing diagram")
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestFileStoreGetCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	id := uuid.New()
	if err := os.WriteFile(filepath.Join(dir, id.String()+".json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := store.GetDiagram(ctx, id)
	if err == nil {
		t.Fatal("GetDiagram should fail for a corrupt document")
	}
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestFileStoreWriteRendered(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	out := filepath.Join(dir, "out.png")
	path, err := store.WriteRendered(ctx, []byte{0x89, 'P', 'N', 'G'}, out)
	if err != nil {
		t.Fatalf("WriteRendered error: %v", err)
	}
	if path != out {
		t.Errorf("unexpected path: %s", path)
	}

	data, err := store.ReadFile(ctx, out)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != string([]byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("unexpected data: %v", data)
	}

	exists, err := store.FileExists(ctx, out)
	if err != nil || !exists {
		t.Errorf("FileExists = %v, %v", exists, err)
	}
	exists, err = store.FileExists(ctx, filepath.Join(dir, "missing.png"))
	if err != nil || exists {
		t.Errorf("FileExists for missing file = %v, %v", exists, err)
	}
}

func TestFileStoreWriteRenderedRejectsUnsafePath(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	_, err := store.WriteRendered(ctx, []byte("x"), "../escape.png")
	if err == nil {
		t.Fatal("WriteRendered should reject traversal paths")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestFileStoreEnsureDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	nested := filepath.Join(dir, "a", "b", "c")
	if err := store.EnsureDir(ctx, nested); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Errorf("directory should exist: %v", err)
	}

	// Empty and current-dir paths are no-ops
	if err := store.EnsureDir(ctx, ""); err != nil {
		t.Errorf("EnsureDir(\"\") error: %v", err)
	}
	if err := store.EnsureDir(ctx, "."); err != nil {
		t.Errorf("EnsureDir(\".\") error: %v", err)
	}
}
