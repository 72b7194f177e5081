// Package emit writes the built site to the output directory.
package emit

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/paths"
)

//go:embed static
var staticFS embed.FS

// StaticDir is the output subdirectory holding stylesheets, scripts and the search index.
const StaticDir = "static"

// ContentIndexFile is the search index written under StaticDir.
const ContentIndexFile = "contentIndex.json"

// Writer writes files below a single output directory.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir is the output directory.
func (w *Writer) Dir() string { return w.dir }

// Clean removes everything inside the output directory, keeping the
// directory itself so a preview server can keep serving it.
func (w *Writer) Clean() error {
	abs, err := filepath.Abs(w.dir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve output directory").
			WithContext("path", w.dir).Build()
	}
	if abs == filepath.Dir(abs) {
		return ferrors.FileSystemError("refusing to clean filesystem root").
			WithContext("path", abs).Fatal().Build()
	}

	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read output directory").
			WithContext("path", abs).Build()
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(abs, e.Name())); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "clean output directory").
				WithContext("path", filepath.Join(abs, e.Name())).Build()
		}
	}
	return nil
}

// WriteFile writes data to the slash-separated path rel below the output directory.
func (w *Writer) WriteFile(rel string, data []byte) error {
	full, err := w.target(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", rel).Build()
	}
	if err := os.WriteFile(full, data, 0o644); err != nil { // #nosec G306 -- site output is world readable
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output file").
			WithContext("path", rel).Build()
	}
	return nil
}

// WritePage writes the HTML of the page at slug.
func (w *Writer) WritePage(slug paths.Slug, html []byte) error {
	return w.WriteFile(slug.OutputFile(), html)
}

// CopyFile copies the file at src to rel below the output directory.
func (w *Writer) CopyFile(src, rel string) error {
	full, err := w.target(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", rel).Build()
	}

	in, err := os.Open(src) // #nosec G304 -- src comes from the content walk
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "open asset").
			WithContext("path", src).Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(full) // #nosec G304 -- full is validated to stay in the output dir
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create asset").
			WithContext("path", rel).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy asset").
			WithContext("path", rel).Build()
	}
	if err := out.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "close asset").
			WithContext("path", rel).Build()
	}
	return nil
}

// WriteStatic writes the embedded stylesheet and scripts to StaticDir.
func (w *Writer) WriteStatic() error {
	return fs.WalkDir(staticFS, StaticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := staticFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", p, err)
		}
		return w.WriteFile(p, data)
	})
}

// IndexEntry is one document in the search index.
type IndexEntry struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Links   []string `json:"links"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
	Date    string   `json:"date,omitempty"`
}

// WriteContentIndex writes the search index keyed by slug.
func (w *Writer) WriteContentIndex(entries []IndexEntry) error {
	index := make(map[string]IndexEntry, len(entries))
	for _, e := range entries {
		if e.Links == nil {
			e.Links = []string{}
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
		index[e.Slug] = e
	}
	data, err := json.Marshal(index)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode content index").Build()
	}
	return w.WriteFile(path.Join(StaticDir, ContentIndexFile), data)
}

// WriteRedirect writes a page at from that sends the browser to to.
func (w *Writer) WriteRedirect(from, to paths.Slug, title string) error {
	page, err := RedirectPage(from, to, title)
	if err != nil {
		return err
	}
	return w.WritePage(from, page)
}

// RedirectPage renders a meta-refresh page at from pointing at to.
func RedirectPage(from, to paths.Slug, title string) ([]byte, error) {
	href := paths.Href(from, to)
	doc := markup.El("html", markup.Attr("lang", "en-us"),
		markup.El("head", nil,
			markup.El("title", nil, markup.Text(title)),
			markup.El("link", markup.Attr("rel", "canonical", "href", href)),
			markup.El("meta", markup.Attr("name", "robots", "content", "noindex")),
			markup.El("meta", markup.Attr("charset", "utf-8")),
			markup.El("meta", markup.Attr("http-equiv", "refresh", "content", "0; url="+href)),
		),
	)
	out, err := markup.Render(markup.Doctype(), doc)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "render redirect page").
			WithContext("slug", from.String()).Build()
	}
	return []byte(out), nil
}

func (w *Writer) target(rel string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(rel, "\\", "/"))
	if clean == "/" || rel == "" {
		return "", ferrors.ValidationError("output path is required").Build()
	}
	return filepath.Join(w.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
