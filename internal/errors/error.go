package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRouting Category = "routing"
	CategorySource  Category = "source"
	CategoryCLI     Category = "cli"
)

// ErrConfigurationDefect matches, via errors.Is, every error that must abort
// startup because the registry configuration is wrong.
var ErrConfigurationDefect = stderrors.New("configuration defect")

// Location points at the configuration key an error refers to.
type Location struct {
	Source string
	Key    string
}

// String returns the location as "source: key".
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Source != "" && l.Key != "":
		return l.Source + ": " + l.Key
	case l.Source != "":
		return l.Source
	default:
		return l.Key
	}
}

// Error is a structured error with a stable code, a configuration location
// and a fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "E121").
	Code string

	// Category is the error type (config, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the configuration key where the error originates.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports configuration and routing errors as ErrConfigurationDefect.
func (e *Error) Is(target error) bool {
	if target != ErrConfigurationDefect {
		return false
	}
	return e.Category == CategoryConfig || e.Category == CategoryRouting
}

// WithKey records the configuration key the error refers to.
func (e *Error) WithKey(key string) *Error {
	if e.Location == nil {
		e.Location = &Location{}
	}
	e.Location.Key = key
	return e
}

// WithSource records the configuration source (file path, S3 URL).
func (e *Error) WithSource(source string) *Error {
	if e.Location == nil {
		e.Location = &Location{}
	}
	e.Location.Source = source
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with fmt formatting.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// FromError wraps a standard error in an Error. An *Error anywhere in the
// chain is returned as-is.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).WithDetail(err.Error()).Wrap(err)
}
