package content

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sys27/garden/internal/config"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/gitdates"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/state"
)

// DateResolver fills document dates from an ordered chain of sources. The
// first source that knows a date wins.
type DateResolver struct {
	Sources []config.DateSource
	Git     *gitdates.Index // nil when the content is not under git
	Store   state.Store     // nil when the state store is disabled
	Now     func() time.Time
	Logger  *slog.Logger
}

// Resolve sets doc.Dates and records the document in the state store.
// changed reports whether the store saw new or edited content; without a
// store every document counts as changed.
func (r *DateResolver) Resolve(ctx context.Context, doc *Document) (changed bool, err error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	changed = true
	var tracked *state.Document
	if r.Store != nil {
		rec, ch, obsErr := r.Store.Observe(ctx, doc.Slug.String(), doc.Fingerprint, now())
		if obsErr != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			r.logger().Warn("State store unavailable for document",
				logfields.Slug(doc.Slug.String()),
				logfields.Error(ferrors.WrapError(obsErr, ferrors.CategoryStore, "observe document").Warning().Build()))
		} else {
			tracked, changed = &rec, ch
		}
	}

	var d Dates
	for _, src := range r.Sources {
		switch src {
		case config.DateSourceFrontmatter:
			fill(&d.Created, doc.Frontmatter.Created)
			fill(&d.Modified, doc.Frontmatter.Modified)
			fill(&d.Published, doc.Frontmatter.Published)
		case config.DateSourceGit:
			if gd, ok := r.Git.Lookup(doc.Path); ok {
				fill(&d.Created, gd.Created)
				fill(&d.Modified, gd.Modified)
			}
		case config.DateSourceState:
			if tracked != nil {
				fill(&d.Created, tracked.FirstSeen)
				fill(&d.Modified, tracked.LastChanged)
			}
		case config.DateSourceFilesystem:
			if info, statErr := os.Stat(doc.Path); statErr == nil {
				fill(&d.Created, info.ModTime())
				fill(&d.Modified, info.ModTime())
			}
		}
	}
	doc.Dates = d
	return changed, nil
}

func (r *DateResolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func fill(dst *time.Time, v time.Time) {
	if dst.IsZero() && !v.IsZero() {
		*dst = v
	}
}
