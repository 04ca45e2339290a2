package diagram

import (
	"strings"

	"github.com/mermview/mermview/pkg/errors"
)

// Code is an immutable value object holding validated mermaid source
// text together with its detected diagram type. The text is always
// stored trimmed; "editing" a Code means creating a new one.
type Code struct {
	text string
	typ  Type
}

// NewCode validates and classifies raw mermaid source text.
// The text is trimmed before storage. Empty or all-whitespace input
// fails with ErrCodeInvalidCode.
func NewCode(text string) (Code, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Code{}, errors.New(errors.ErrCodeInvalidCode, "mermaid code cannot be empty")
	}
	return Code{text: trimmed, typ: DetectType(trimmed)}, nil
}

// String returns the trimmed mermaid source text.
func (c Code) String() string { return c.text }

// Type returns the detected diagram type.
func (c Code) Type() Type { return c.typ }

// Len returns the length of the source text in bytes.
func (c Code) Len() int { return len(c.text) }

// Lines splits the source text into lines, accepting any newline
// convention ("\n", "\r\n", "\r").
func (c Code) Lines() []string {
	normalized := strings.ReplaceAll(c.text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// IsValidSyntax reports whether the code starts with a known diagram
// keyword. Full syntax validation happens in the rendering backend and
// surfaces as a render-time failure.
func (c Code) IsValidSyntax() bool {
	return c.typ != TypeUnknown
}

// IsZero reports whether the Code is the zero value (never produced by
// NewCode).
func (c Code) IsZero() bool { return c.text == "" }
