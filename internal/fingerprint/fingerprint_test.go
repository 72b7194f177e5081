package fingerprint

import (
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	t.Run("ignores volatile fields", func(t *testing.T) {
		body := []byte("hello\n")
		base, err := Compute(map[string]any{"title": "Test"}, body)
		require.NoError(t, err)

		got, err := Compute(map[string]any{
			"title":       "Test",
			"fingerprint": "stale",
			"lastmod":     "2026-01-01",
			"modified":    "2026-01-02",
			"aliases":     []any{"old"},
		}, body)
		require.NoError(t, err)
		require.Equal(t, base, got)
		require.Equal(t, mdfp.CalculateFingerprintFromParts("title: Test", "hello\n"), got)
	})

	t.Run("stable across map insertion order", func(t *testing.T) {
		a := map[string]any{}
		a["title"] = "Test"
		a["weight"] = 10
		b := map[string]any{}
		b["weight"] = 10
		b["title"] = "Test"

		fpA, err := Compute(a, []byte("x"))
		require.NoError(t, err)
		fpB, err := Compute(b, []byte("x"))
		require.NoError(t, err)
		require.Equal(t, fpA, fpB)
	})

	t.Run("body and frontmatter edits change the hash", func(t *testing.T) {
		fp1, err := Compute(map[string]any{"title": "A"}, []byte("one"))
		require.NoError(t, err)
		fp2, err := Compute(map[string]any{"title": "A"}, []byte("two"))
		require.NoError(t, err)
		fp3, err := Compute(map[string]any{"title": "B"}, []byte("one"))
		require.NoError(t, err)
		require.NotEqual(t, fp1, fp2)
		require.NotEqual(t, fp1, fp3)
	})

	t.Run("nil fields", func(t *testing.T) {
		_, err := Compute(nil, nil)
		require.Error(t, err)
	})

	t.Run("empty frontmatter", func(t *testing.T) {
		got, err := Compute(map[string]any{}, []byte("body"))
		require.NoError(t, err)
		require.Equal(t, mdfp.CalculateFingerprintFromParts("", "body"), got)
	})
}
