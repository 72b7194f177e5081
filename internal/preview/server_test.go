package preview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sys27/garden/internal/metrics"
	"github.com/sys27/garden/internal/site"
)

type fakeBuilder struct {
	builds atomic.Int32
	err    error
}

func (f *fakeBuilder) Build(context.Context) (*site.Report, error) {
	n := f.builds.Add(1)
	return &site.Report{BuildID: "build-" + string(rune('0'+n)), Pages: 4, Outcome: metrics.BuildOutcomeSuccess}, f.err
}

func writeOutput(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func newTestPreview(t *testing.T, b Builder, reg *prom.Registry) (*Preview, *httptest.Server) {
	t.Helper()
	out := t.TempDir()
	writeOutput(t, out, map[string]string{
		"index.html":       "home",
		"notes/go.html":    "go",
		"notes/index.html": "notes",
		"404.html":         "not found",
		"static/index.css": "body{}",
	})
	p := New(b, Options{ContentDir: t.TempDir(), OutputDir: out, Registry: reg})
	srv := httptest.NewServer(p.Handler())
	t.Cleanup(srv.Close)
	return p, srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServeSiteMapsExtensionlessURLs(t *testing.T) {
	p, srv := newTestPreview(t, &fakeBuilder{}, nil)
	require.NoError(t, p.Rebuild(context.Background()))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "home"},
		{"/notes/go", http.StatusOK, "go"},
		{"/notes/go.html", http.StatusOK, "go"},
		{"/notes/", http.StatusOK, "notes"},
		{"/static/index.css", http.StatusOK, "body{}"},
		{"/missing", http.StatusNotFound, "not found"},
		{"/../../etc/passwd", http.StatusNotFound, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, srv.URL+tt.path)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestServeSiteRedirectsFolderWithoutSlash(t *testing.T) {
	_, srv := newTestPreview(t, &fakeBuilder{}, nil)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(srv.URL + "/notes")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/notes/", resp.Header.Get("Location"))
}

func TestServeSiteBeforeFirstGoodBuild(t *testing.T) {
	p, srv := newTestPreview(t, &fakeBuilder{err: errors.New("boom")}, nil)
	require.Error(t, p.Rebuild(context.Background()))

	status, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, "site has not built successfully yet")
}

func TestStatusEndpoint(t *testing.T) {
	p, srv := newTestPreview(t, &fakeBuilder{}, nil)
	require.NoError(t, p.Rebuild(context.Background()))

	status, body := get(t, srv.URL+StatusPath)
	require.Equal(t, http.StatusOK, status)

	var resp statusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "build-1", resp.BuildID)
	assert.Equal(t, "success", resp.Outcome)
	assert.Equal(t, 4, resp.Pages)
	assert.Empty(t, resp.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	rec.SetDocumentsDiscovered(7)
	_, srv := newTestPreview(t, &fakeBuilder{}, reg)

	status, body := get(t, srv.URL+MetricsPath)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "garden_documents_discovered 7")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	p, srv := newTestPreview(t, &fakeBuilder{}, nil)
	require.NoError(t, p.Rebuild(context.Background()))

	status, body := get(t, srv.URL+MetricsPath)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not found", body)
}
