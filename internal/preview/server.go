package preview

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/metrics"
)

// Routes reserved by the preview server.
const (
	ReloadPath  = "/_garden/reload"
	StatusPath  = "/_garden/status"
	MetricsPath = "/metrics"
)

// Handler returns the HTTP handler of the preview server.
func (p *Preview) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(p.logRequests)

	r.Get(ReloadPath, p.hub.ServeHTTP)
	r.Get(StatusPath, p.handleStatus)
	if p.opts.Registry != nil {
		r.Handle(MetricsPath, metrics.HTTPHandler(p.opts.Registry))
	}
	r.Get("/*", p.serveSite)
	r.Head("/*", p.serveSite)
	return r
}

// logRequests logs every request at debug level.
func (p *Preview) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		p.logger.Debug("Preview request",
			logfields.Method(r.Method),
			logfields.URL(r.URL.Path),
			slog.Int("status", ww.Status()),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

type statusResponse struct {
	BuildID     string `json:"build_id,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	Pages       int    `json:"pages"`
	BrokenLinks int    `json:"broken_links"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
	Clients     int    `json:"clients"`
}

func (p *Preview) handleStatus(w http.ResponseWriter, _ *http.Request) {
	report, err, _ := p.status.get()
	resp := statusResponse{Clients: p.hub.Clients()}
	if report != nil {
		resp.BuildID = report.BuildID
		resp.Outcome = string(report.Outcome)
		resp.Pages = report.Pages
		resp.BrokenLinks = len(report.BrokenLinks)
		resp.DurationMS = report.Duration.Milliseconds()
	}
	if err != nil {
		resp.Error = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// serveSite maps extensionless page URLs onto the emitted .html files.
func (p *Preview) serveSite(w http.ResponseWriter, r *http.Request) {
	if _, lastErr, good := p.status.get(); !good && lastErr != nil {
		ferrors.NewHTTPErrorAdapter(p.logger).WriteErrorResponse(w, r,
			ferrors.WrapError(lastErr, ferrors.CategoryRuntime, "site has not built successfully yet").Build())
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") && urlPath != "/" {
		urlPath += "/"
	}

	file, redirect := p.lookup(urlPath)
	switch {
	case redirect:
		http.Redirect(w, r, urlPath+"/", http.StatusMovedPermanently)
	case file != "":
		p.serveFile(w, r, file, http.StatusOK)
	default:
		if notFound := filepath.Join(p.opts.OutputDir, "404.html"); isFile(notFound) {
			p.serveFile(w, r, notFound, http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	}
}

// lookup finds the file for urlPath. redirect is set when urlPath names a
// folder without its trailing slash.
func (p *Preview) lookup(urlPath string) (file string, redirect bool) {
	base := filepath.Join(p.opts.OutputDir, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	if strings.HasSuffix(urlPath, "/") {
		if idx := filepath.Join(base, "index.html"); isFile(idx) {
			return idx, false
		}
		return "", false
	}
	if isFile(base) {
		return base, false
	}
	if isFile(base + ".html") {
		return base + ".html", false
	}
	if isFile(filepath.Join(base, "index.html")) {
		return "", true
	}
	return "", false
}

func (p *Preview) serveFile(w http.ResponseWriter, r *http.Request, file string, status int) {
	f, err := os.Open(file) // #nosec G304 -- file is resolved below the output directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		ferrors.NewHTTPErrorAdapter(p.logger).WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryFileSystem, "open output file").Build())
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Cache-Control", "no-cache")
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = io.Copy(w, f)
		}
		return
	}
	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
