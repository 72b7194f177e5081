package content

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sys27/garden/internal/config"
	"github.com/sys27/garden/internal/frontmatter"
	"github.com/sys27/garden/internal/state"
)

type fakeStore struct {
	state.Store
	doc     state.Document
	changed bool
	err     error
}

func (f *fakeStore) Observe(context.Context, string, string, time.Time) (state.Document, bool, error) {
	return f.doc, f.changed, f.err
}

func TestDateResolver_Chain(t *testing.T) {
	fmCreated := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	firstSeen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lastChanged := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{doc: state.Document{FirstSeen: firstSeen, LastChanged: lastChanged}, changed: false}
	r := &DateResolver{
		Sources: []config.DateSource{config.DateSourceFrontmatter, config.DateSourceGit, config.DateSourceState},
		Store:   store,
	}
	doc := &Document{Slug: "a", Frontmatter: frontmatter.Frontmatter{Created: fmCreated}}

	changed, err := r.Resolve(t.Context(), doc)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, fmCreated, doc.Dates.Created)
	require.Equal(t, lastChanged, doc.Dates.Modified)
	require.True(t, doc.Dates.Published.IsZero())
}

func TestDateResolver_SourceOrderMatters(t *testing.T) {
	fmCreated := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	firstSeen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &DateResolver{
		Sources: []config.DateSource{config.DateSourceState, config.DateSourceFrontmatter},
		Store:   &fakeStore{doc: state.Document{FirstSeen: firstSeen, LastChanged: firstSeen}},
	}
	doc := &Document{Slug: "a", Frontmatter: frontmatter.Frontmatter{Created: fmCreated}}
	_, err := r.Resolve(t.Context(), doc)
	require.NoError(t, err)
	require.Equal(t, firstSeen, doc.Dates.Created)
}

func TestDateResolver_FilesystemFallback(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.md", "# A")
	mtime := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)
	require.NoError(t, os.Chtimes(p, mtime, mtime))

	r := &DateResolver{Sources: config.DefaultDateSources}
	doc := &Document{Path: p, Slug: "a"}
	changed, err := r.Resolve(t.Context(), doc)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, doc.Dates.Created.Equal(mtime))
	require.True(t, doc.Dates.Modified.Equal(mtime))
}

func TestDateResolver_StoreFailureIsNotFatal(t *testing.T) {
	r := &DateResolver{
		Sources: []config.DateSource{config.DateSourceState},
		Store:   &fakeStore{err: errors.New("disk full")},
	}
	doc := &Document{Slug: "a"}
	changed, err := r.Resolve(t.Context(), doc)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, doc.Dates.Created.IsZero())
}
