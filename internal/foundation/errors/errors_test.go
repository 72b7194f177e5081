package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "garden.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if file := err.Context()["file"]; file != "garden.yaml" {
			t.Errorf("expected context file=garden.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		base := RenderError("boom").Build()
		wrapped := fmt.Errorf("render page %q: %w", "notes/go", base)

		if _, ok := AsClassified(wrapped); !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryRender) {
			t.Error("expected render category")
		}
		if HasCategory(errors.New("plain"), CategoryInternal) {
			t.Error("plain errors carry no category")
		}
		if GetSeverity(errors.New("plain")) != SeverityError {
			t.Error("expected unclassified error to default to error severity")
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		sentinel := RenderError("missing").Build()
		withSlug := sentinel.WithContext("slug", "a")

		if _, ok := sentinel.Context()["slug"]; ok {
			t.Error("sentinel context must not be mutated")
		}
		if !errors.Is(withSlug, sentinel) {
			t.Error("copy should match sentinel with errors.Is")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrap keeps cause", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "write page").
			Retryable().
			WithContext("path", "public/index.html").
			Build()

		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		if !err.CanRetry() {
			t.Error("expected retryable error")
		}
		if err.Error() != "[filesystem:error] write page: permission denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    bool
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, false},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, false},
			{"ContentError", ContentError("test"), CategoryContent, SeverityWarning, false},
			{"RenderError", RenderError("test"), CategoryRender, SeverityFatal, false},
			{"LayoutError", LayoutError("test"), CategoryLayout, SeverityFatal, false},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, true},
			{"GitError", GitError("test"), CategoryGit, SeverityWarning, false},
			{"StoreError", StoreError("test"), CategoryStore, SeverityWarning, false},
			{"NotifyError", NotifyError("test"), CategoryNotify, SeverityWarning, true},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, false},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.CanRetry() != tt.retry {
					t.Errorf("expected CanRetry %v, got %v", tt.retry, err.CanRetry())
				}
			})
		}
	})
}
