package analysis

import (
	"errors"
	"fmt"
	"strings"

	"solar_eda/internal/models"
)

// Failure kinds surfaced by the pipeline. Match them with errors.Is.
var (
	ErrNotFound       = errors.New("dataset not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Error carries the failure kind plus where it happened.
type Error struct {
	Kind    error
	Op      string
	Column  string
	Line    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Column != "" {
		fmt.Fprintf(&b, " (column %s", e.Column)
		if e.Line > 0 {
			fmt.Fprintf(&b, ", line %d", e.Line)
		}
		b.WriteString(")")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrNotFound) and friends work on *Error.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

func notFound(op, msg string, err error) error {
	return &Error{Kind: ErrNotFound, Op: op, Message: msg, Err: err}
}

func malformed(op, column string, line int, msg string, err error) error {
	return &Error{Kind: ErrMalformedInput, Op: op, Column: column, Line: line, Message: msg, Err: err}
}

func schemaMismatch(op string, missing []models.Column) error {
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = c.String()
	}
	return &Error{
		Kind:    ErrSchemaMismatch,
		Op:      op,
		Column:  strings.Join(names, ","),
		Message: "required column absent",
	}
}
