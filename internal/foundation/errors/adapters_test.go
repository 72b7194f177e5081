package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"render", RenderError("no file path").Build(), 11},
		{"wrapped render", fmt.Errorf("page: %w", RenderError("x").Build()), 11},
		{"git", GitError("log").Build(), 8},
		{"internal", InternalError("bug").Build(), 10},
		{"unclassified", errors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, outBuf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logBuf, nil)))
	adapter.out = &outBuf
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("configuration file not found").WithContext("path", "garden.yaml").Build())

	require.Equal(t, 7, code)
	require.Equal(t, "Error (config): configuration file not found\n", outBuf.String())
	require.Contains(t, logBuf.String(), "path=garden.yaml")
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, nil)
	err := WrapError(errors.New("eof"), CategoryContent, "parse frontmatter").Build()
	require.True(t, strings.HasSuffix(adapter.FormatError(err), "parse frontmatter: eof"))
}

func TestHTTPErrorAdapter(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.Equal(t, http.StatusOK, adapter.StatusCodeFor(nil))
	require.Equal(t, http.StatusUnprocessableEntity, adapter.StatusCodeFor(RenderError("x").Build()))
	require.Equal(t, http.StatusNotFound, adapter.StatusCodeFor(NewError(CategoryNotFound, "x").Build()))
	require.Equal(t, http.StatusInternalServerError, adapter.StatusCodeFor(errors.New("x")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes/go", nil)
	adapter.WriteErrorResponse(rec, req, RenderError("missing file path").WithContext("slug", "notes/go").Build())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var payload HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "missing file path", payload.Error)
	require.Equal(t, "render", payload.Code)
	require.Equal(t, "notes/go", payload.Details["slug"])
}
