// Package apperror defines coded errors shared across the bounded contexts.
package apperror

import (
	"errors"
	"fmt"
)

// Severity tells callers whether an error aborted the operation.
type Severity string

const (
	// SeverityFatal errors abort the call before any state is mutated.
	SeverityFatal Severity = "fatal"
	// SeverityWarning errors are reported alongside a committed result.
	SeverityWarning Severity = "warning"
)

// AppError carries a stable code, a default message and optional context.
type AppError struct {
	Code     Code
	Message  string
	Severity Severity
	Context  string
	cause    error
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.cause }

// Is matches any *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// IsFatal reports whether the error aborted the operation.
func (e *AppError) IsFatal() bool {
	return e.Severity != SeverityWarning
}

// LogArgs returns key/value pairs for the structured logger.
func (e *AppError) LogArgs() []any {
	args := []any{"code", string(e.Code), "severity", string(e.Severity)}
	if e.Context != "" {
		args = append(args, "context", e.Context)
	}
	if e.cause != nil {
		args = append(args, "cause", e.cause.Error())
	}
	return args
}

// Option customises an AppError built by New.
type Option func(*AppError)

// WithContext attaches a short description of the offending input.
func WithContext(context string) Option {
	return func(e *AppError) { e.Context = context }
}

// WithSeverity overrides the default fatal severity.
func WithSeverity(s Severity) Option {
	return func(e *AppError) { e.Severity = s }
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *AppError) { e.cause = cause }
}

// New builds a fatal AppError with the registered message for code.
func New(code Code, opts ...Option) *AppError {
	e := &AppError{Code: code, Message: code.Message(), Severity: SeverityFatal}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validation is a fatal error about caller input.
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context))
}

// Warning is a non-fatal error reported next to a committed result.
func Warning(code Code, context string) *AppError {
	return New(code, WithContext(context), WithSeverity(SeverityWarning))
}

// Wrap returns err unchanged if it already is an AppError, otherwise wraps
// it under code.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(code, WithContext(context), WithCause(err))
}

// GetCode extracts the code of the first AppError in err's chain.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// IsWarning reports whether err carries a non-fatal AppError.
func IsWarning(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && !appErr.IsFatal()
}

// Errorf is shorthand for a fatal error whose context is formatted.
func Errorf(code Code, format string, args ...any) *AppError {
	return New(code, WithContext(fmt.Sprintf(format, args...)))
}
