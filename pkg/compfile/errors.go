package compfile

import (
	"strconv"
	"strings"
)

// ValidationError captures a single field-level problem in a composition
// file. Line is the YAML line of the offending item, or 0 when unknown.
type ValidationError struct {
	Line    int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{formatLine(e.Line)}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ValidationErrors aggregates multiple validation issues.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}

func formatLine(line int) string {
	if line <= 0 {
		return "composition:"
	}
	return "line " + strconv.Itoa(line) + ":"
}
