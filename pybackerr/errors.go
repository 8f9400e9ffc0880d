// Package pybackerr defines the error taxonomy for the pyback converter.
package pybackerr

import (
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeParse       ErrorType = "ParseError"
	TypeUnsupported ErrorType = "UnsupportedConstructError"
	TypeCollision   ErrorType = "NameCollisionError"
	TypeUnparse     ErrorType = "UnparseError"
)

// PybackError is the interface for all pyback conversion errors.
type PybackError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for pyback errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// ParseError reports source text that is not valid under the understood grammar.
type ParseError struct {
	BaseError
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// UnsupportedConstructError reports a recognized construct in a shape the
// rewrite rules refuse to handle. Failing here is deliberate: emitting a
// best-effort rewrite could change runtime semantics.
type UnsupportedConstructError struct {
	BaseError
	Line      int
	Column    int
	Construct string
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s: %s", e.ErrType, e.Line, e.Column, e.Construct, e.Msg)
}

// NameCollisionError reports a synthesized binding that would shadow an
// existing name in scope.
type NameCollisionError struct {
	BaseError
	Line int
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("[%s] line %d: synthesized name %q %s", e.ErrType, e.Line, e.Name, e.Msg)
}

// UnparseError reports a rewritten tree that cannot be serialized back to
// source. It is an internal invariant violation.
type UnparseError struct {
	BaseError
}

// MultiError collects errors from converting multiple files.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if pe, ok := m.Errors[0].(PybackError); ok {
			return pe.Type()
		}
	}
	return "MultiError"
}

// NewParseError creates a new ParseError.
func NewParseError(line, column int, msg string) *ParseError {
	return &ParseError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeParse,
		},
		Line:   line,
		Column: column,
	}
}

// NewUnsupportedConstructError creates a new UnsupportedConstructError.
func NewUnsupportedConstructError(line, column int, construct, msg string) *UnsupportedConstructError {
	return &UnsupportedConstructError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeUnsupported,
		},
		Line:      line,
		Column:    column,
		Construct: construct,
	}
}

// NewNameCollisionError creates a new NameCollisionError.
func NewNameCollisionError(line int, name, msg string) *NameCollisionError {
	return &NameCollisionError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeCollision,
		},
		Line: line,
		Name: name,
	}
}

// NewUnparseError creates a new UnparseError.
func NewUnparseError(msg string) *UnparseError {
	return &UnparseError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeUnparse,
		},
	}
}

// NewMultiError creates a new MultiError from the given errors.
func NewMultiError(errs []error) *MultiError {
	return &MultiError{Errors: errs}
}
