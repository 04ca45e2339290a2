package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	valid := []string{
		"output.png",
		"out/diagram.svg",
		"/tmp/renders/flow.pdf",
		"my diagram (v2).png",
		"nested/deeply/file.png",
	}
	for _, path := range valid {
		if err := ValidateOutputPath(path); err != nil {
			t.Errorf("ValidateOutputPath(%q) = %v, want nil", path, err)
		}
	}

	invalid := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("a", 501)},
		{"null byte", "out\x00put.png"},
		{"newline", "out\nput.png"},
		{"traversal", "../etc/passwd"},
		{"embedded traversal", "out/../../secret.png"},
		{"backslash traversal", `out\..\secret.png`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if err == nil {
				t.Fatalf("ValidateOutputPath(%q) should fail", tt.path)
			}
			if !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %s", GetCode(err))
			}
		})
	}
}

func TestValidateDiagramName(t *testing.T) {
	if err := ValidateDiagramName(""); err != nil {
		t.Errorf("empty name should be allowed: %v", err)
	}
	if err := ValidateDiagramName("My Flow Diagram"); err != nil {
		t.Errorf("plain name should be allowed: %v", err)
	}
	if err := ValidateDiagramName(strings.Repeat("x", 257)); err == nil {
		t.Error("overlong name should fail")
	}
	if err := ValidateDiagramName("bad\x00name"); err == nil {
		t.Error("control characters should fail")
	}
}
