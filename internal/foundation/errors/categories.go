package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryContent represents problems with source documents.
	CategoryContent ErrorCategory = "content"
	CategoryRender  ErrorCategory = "render"
	CategoryLayout  ErrorCategory = "layout"

	// CategoryFileSystem represents external system integration errors.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"
	CategoryStore      ErrorCategory = "store"
	CategoryNotify     ErrorCategory = "notify"

	// CategoryRuntime represents runtime and infrastructure errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy tells retry.Do whether a failed operation may be attempted again.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user" // fix config or content, then rerun
)

// ErrorContext holds structured key/value details attached to an error.
type ErrorContext map[string]any
