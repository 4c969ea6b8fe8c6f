package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// maxNameLen bounds document and graph names in bytes.
const maxNameLen = 128

// ValidateName checks a document or graph name. Names become file names
// and store keys, so separators, traversal and control characters are
// refused.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return New(ErrCodeInvalidInput, "name is empty")
	case len(name) > maxNameLen:
		return New(ErrCodeInvalidInput, "name is longer than %d bytes", maxNameLen)
	case strings.Contains(name, ".."):
		return New(ErrCodeInvalidInput, "name must not contain %q", "..")
	}
	if i := strings.IndexFunc(name, func(r rune) bool {
		return r == '/' || r == '\\' || unicode.IsControl(r)
	}); i >= 0 {
		return New(ErrCodeInvalidInput, "name contains %q at byte %d", name[i:i+1], i)
	}
	return nil
}

// ValidateDocumentID checks that id is a UUID, the key every store uses.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "document ID is empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidDocument, err, "document ID %q is not a UUID", id)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#(?:[[:xdigit:]]{3}|[[:xdigit:]]{6})$`)

// ValidateColor accepts #rgb and #rrggbb.
func ValidateColor(c string) error {
	if !hexColor.MatchString(c) {
		return New(ErrCodeInvalidInput, "colour %q is not #rgb or #rrggbb", c)
	}
	return nil
}

// ValidateGrid rejects non-positive snapping grids.
func ValidateGrid(size float64) error {
	if size <= 0 {
		return New(ErrCodeInvalidConfig, "grid size must be positive, got %v", size)
	}
	return nil
}
