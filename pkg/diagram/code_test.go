package diagram

import (
	"testing"

	"github.com/mermview/mermview/pkg/errors"
)

func TestNewCode(t *testing.T) {
	code, err := NewCode("  graph TD\n  A-->B  \n")
	if err != nil {
		t.Fatalf("NewCode error: %v", err)
	}

	// Text is stored trimmed
	if code.String() != "graph TD\n  A-->B" {
		t.Errorf("unexpected text: %q", code.String())
	}
	if code.Type() != TypeFlowchart {
		t.Errorf("unexpected type: %s", code.Type())
	}
	if code.IsZero() {
		t.Error("validated code should not be zero")
	}
	if !code.IsValidSyntax() {
		t.Error("flowchart code should report valid syntax")
	}
}

func TestNewCodeEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := NewCode(text)
		if err == nil {
			t.Errorf("NewCode(%q) should fail", text)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidCode) {
			t.Errorf("NewCode(%q) error code = %s", text, errors.GetCode(err))
		}
	}
}

func TestCodeUnknownType(t *testing.T) {
	code, err := NewCode("definitely not a diagram")
	if err != nil {
		t.Fatalf("NewCode error: %v", err)
	}
	if code.Type() != TypeUnknown {
		t.Errorf("unexpected type: %s", code.Type())
	}
	if code.IsValidSyntax() {
		t.Error("unknown type should not report valid syntax")
	}
}

func TestCodeLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"unix newlines", "graph TD\nA-->B\nB-->C", 3},
		{"windows newlines", "graph TD\r\nA-->B\r\nB-->C", 3},
		{"old mac newlines", "graph TD\rA-->B", 2},
		{"single line", "graph TD", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NewCode(tt.text)
			if err != nil {
				t.Fatalf("NewCode error: %v", err)
			}
			if got := len(code.Lines()); got != tt.want {
				t.Errorf("Lines() = %d lines, want %d", got, tt.want)
			}
		})
	}
}

func TestCodeIsZero(t *testing.T) {
	var zero Code
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
}
