package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sys27/garden/internal/logfields"
)

// HTTPErrorAdapter renders classified errors for the preview server.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter. A nil logger uses slog.Default.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// StatusCodeFor maps an error's category to an HTTP status. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	c, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch c.Category() {
	case CategoryValidation, CategoryConfig:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryContent, CategoryRender, CategoryLayout:
		return http.StatusUnprocessableEntity
	case CategoryGit, CategoryNotify, CategoryStore:
		return http.StatusBadGateway
	case CategoryRuntime:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FormatErrorResponse converts an error into the canonical payload.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	c, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: err.Error()}
	}
	resp := HTTPErrorResponse{Error: c.Message(), Code: string(c.Category())}
	if len(c.Context()) > 0 {
		resp.Details = map[string]any(c.Context())
	}
	resp.Retryable = c.CanRetry()
	return resp
}

// WriteErrorResponse writes err as JSON with the mapped status code.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	b, jerr := json.Marshal(a.FormatErrorResponse(err))
	if jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)

	if err != nil {
		a.logger.Log(r.Context(), slogLevelFromSeverity(GetSeverity(err)), "request failed", logfields.Path(r.URL.Path), logfields.Error(err))
	}
}
