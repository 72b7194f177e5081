package content

import (
	"context"
	"log/slog"
	"os"

	"github.com/sys27/garden/internal/fingerprint"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/frontmatter"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/markdown"
	"github.com/sys27/garden/internal/markup"
	"github.com/sys27/garden/internal/parallel"
	"github.com/sys27/garden/internal/paths"
)

// Loader parses markdown sources into documents.
type Loader struct {
	Converter   *markdown.Converter
	Concurrency int
	// Drafts keeps documents marked draft: true.
	Drafts bool
	// Strict turns per-document parse failures into a build failure.
	Strict bool
	Logger *slog.Logger
}

// Load parses sources concurrently. Documents come back in source order;
// drafts are dropped unless enabled. A failing document is skipped with a
// warning, or returned as an error in strict mode.
func (l *Loader) Load(ctx context.Context, sources []Source) ([]*Document, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := parallel.Map(ctx, sources, parallel.Concurrency(l.Concurrency), func(_ context.Context, src Source) (*Document, error) {
		return l.loadOne(src)
	})

	docs := make([]*Document, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if l.Strict {
				return nil, r.Err
			}
			logger.Warn("Skipping document", logfields.Path(sources[i].RelPath), logfields.Error(r.Err))
			continue
		}
		if r.Value.Frontmatter.Draft && !l.Drafts {
			logger.Debug("Skipping draft", logfields.Slug(r.Value.Slug.String()))
			continue
		}
		docs = append(docs, r.Value)
	}
	return docs, nil
}

func (l *Loader) loadOne(src Source) (*Document, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read document").
			WithContext("path", src.RelPath).Build()
	}
	return l.Parse(src, raw)
}

// Parse builds a document from raw file contents.
func (l *Loader) Parse(src Source, raw []byte) (*Document, error) {
	fmRaw, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "invalid frontmatter").
			WithContext("path", src.RelPath).Build()
	}
	fields, err := frontmatter.ParseYAML(fmRaw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "invalid frontmatter yaml").
			WithContext("path", src.RelPath).Build()
	}

	res, err := l.Converter.Convert(body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "render markdown").
			WithContext("path", src.RelPath).Build()
	}

	fp, err := fingerprint.Compute(fields, body)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "fingerprint document").
			WithContext("path", src.RelPath).Build()
	}

	doc := &Document{
		Path:        src.Path,
		RelPath:     src.RelPath,
		Slug:        paths.FromFilePath(src.RelPath),
		Frontmatter: frontmatter.Decode(fields),
		Body:        body,
		HTML:        res.HTML,
		Headings:    res.Headings,
		Links:       res.Links,
		Fingerprint: fp,
	}
	doc.Dates.Created = doc.Frontmatter.Created
	doc.Dates.Modified = doc.Frontmatter.Modified
	doc.Dates.Published = doc.Frontmatter.Published

	if nodes, perr := markup.ParseFragment(res.HTML); perr == nil {
		doc.Text = markup.TextContent(nodes...)
	}
	return doc, nil
}
