package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates an output file path for safety.
// It rejects paths that could escape the intended output location or
// contain characters that are unsafe on common filesystems.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - No parent-directory traversal ("..")
//   - Maximum length of 500 characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	for _, segment := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return New(ErrCodeInvalidPath, "output path cannot contain parent directory references")
		}
	}

	return nil
}

// ValidateDiagramName validates an optional diagram name.
// Empty names are allowed; non-empty names must be printable and short.
func ValidateDiagramName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidCode, "diagram name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCode, "diagram name contains invalid control characters")
		}
	}
	return nil
}
