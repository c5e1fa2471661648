package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when an id does not reference an existing row.
var ErrNotFound = errors.New("record not found")

// ConflictPreviewLimit is how many conflicting bill numbers a ConflictError
// spells out before eliding the rest.
const ConflictPreviewLimit = 5

// ValidationError rejects an operation before any state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError is raised for file extensions or export formats the
// tabular layer cannot handle.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return "unsupported file type: upload .csv or .xlsx/.xls"
	}
	return fmt.Sprintf("unsupported file type %q: upload .csv or .xlsx/.xls", e.Format)
}

// MissingColumnsError lists required import columns absent from the header.
// Suggestions maps a missing column to the closest header that is present.
type MissingColumnsError struct {
	Missing     []string
	Suggestions map[string]string
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		if s, ok := e.Suggestions[m]; ok && s != "" {
			parts = append(parts, fmt.Sprintf("%s (found %q)", m, s))
			continue
		}
		parts = append(parts, m)
	}
	return "Missing columns: " + strings.Join(parts, ", ")
}

// ConflictError reports bill numbers that would end up with more than one
// receipt.
type ConflictError struct {
	BillNos []string
	// Hint is appended to the message when set.
	Hint string
}

func NewConflictError(billNos []string) *ConflictError {
	out := append([]string(nil), billNos...)
	sort.Strings(out)
	return &ConflictError{BillNos: out}
}

func (e *ConflictError) Error() string {
	shown := e.BillNos
	suffix := ""
	if len(shown) > ConflictPreviewLimit {
		shown = shown[:ConflictPreviewLimit]
		suffix = " …"
	}
	msg := fmt.Sprintf("multiple receipts per Bill No are not allowed. Conflicts for Bill Nos: %s%s (%d total)",
		strings.Join(shown, ", "), suffix, len(e.BillNos))
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// IsUserError reports whether err should be shown to the caller verbatim.
func IsUserError(err error) bool {
	var ve *ValidationError
	var ue *UnsupportedFormatError
	var me *MissingColumnsError
	var ce *ConflictError
	return errors.As(err, &ve) || errors.As(err, &ue) || errors.As(err, &me) ||
		errors.As(err, &ce) || errors.Is(err, ErrNotFound)
}
