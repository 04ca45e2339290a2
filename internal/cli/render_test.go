package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.mmd")
	if err := os.WriteFile(path, []byte("graph TD\n  A-->B"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	text, err := readSource([]string{path}, "")
	if err != nil {
		t.Fatalf("readSource error: %v", err)
	}
	if text != "graph TD\n  A-->B" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestReadSourceInline(t *testing.T) {
	text, err := readSource(nil, "graph TD; A-->B")
	if err != nil {
		t.Fatalf("readSource error: %v", err)
	}
	if text != "graph TD; A-->B" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestReadSourceFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.mmd")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	// A file argument wins over inline code
	text, err := readSource([]string{path}, "inline")
	if err != nil {
		t.Fatalf("readSource error: %v", err)
	}
	if text != "from file" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestReadSourceMissingInput(t *testing.T) {
	if _, err := readSource(nil, ""); err == nil {
		t.Error("readSource should fail without any input")
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := readSource([]string{"/nonexistent/diagram.mmd"}, ""); err == nil {
		t.Error("readSource should fail for a missing file")
	}
}
