// Package errors provides the classified error primitives used across garden.
//
// Errors carry a category (config, content, render, git, ...), a severity and
// a retry strategy, plus a small structured context map. A fluent builder keeps
// construction consistent, and the CLI/HTTP adapters turn classified errors
// into exit codes and preview-server responses.
//
// Example usage:
//
//	err := errors.RenderError("content page has no source path").
//		WithContext("slug", slug).
//		Build()
package errors
