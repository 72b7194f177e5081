package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// ClassifiedError is an error tagged with the category, severity and retry
// hint the CLI and preview adapters use to report it.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Cause() error            { return e.cause }
func (e *ClassifiedError) Context() ErrorContext   { return e.context }

// CanRetry reports whether retry.Do may attempt the failed operation again.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry == RetryBackoff
}

// WithContext returns a copy carrying key=value. Package-level sentinels
// such as component.ErrMissingFilePath stay untouched.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = make(ErrorContext, len(e.context)+1)
	maps.Copy(cp.context, e.context)
	cp.context[key] = value
	return &cp
}

// Is matches on category and message so WithContext copies compare equal
// to the sentinel they came from.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the first classified error in err's chain
// belongs to category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}

// GetSeverity returns the severity of err, or SeverityError when err is
// not classified.
func GetSeverity(err error) ErrorSeverity {
	if classified, ok := AsClassified(err); ok {
		return classified.severity
	}
	return SeverityError
}
