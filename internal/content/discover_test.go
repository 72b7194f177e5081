package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, body string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func rels(srcs []Source) []string {
	out := make([]string, 0, len(srcs))
	for _, s := range srcs {
		out = append(out, s.RelPath)
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "# Home")
	writeFile(t, root, "notes/go.md", "# Go")
	writeFile(t, root, "notes/img/diagram.png", "png")
	writeFile(t, root, "private/secret.md", "no")
	writeFile(t, root, "notes/draft.tmp.md", "x")
	writeFile(t, root, ".obsidian/workspace.json", "{}")
	writeFile(t, root, "public/old.html", "stale")

	notes, assets, err := Discover(t.Context(), DiscoverOptions{
		Dir:     root,
		Ignore:  []string{"private", "*.tmp.md"},
		Exclude: []string{filepath.Join(root, "public")},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"index.md", "notes/go.md"}, rels(notes))
	require.Equal(t, []string{"notes/img/diagram.png"}, rels(assets))
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, _, err := Discover(t.Context(), DiscoverOptions{Dir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestIgnored(t *testing.T) {
	require.True(t, Ignored("templates/note.md", []string{"templates"}))
	require.True(t, Ignored("a/b/c.md", []string{"a/b/*"}))
	require.False(t, Ignored("notes/go.md", []string{"templates"}))
	require.False(t, Ignored("notes/go.md", nil))
}
