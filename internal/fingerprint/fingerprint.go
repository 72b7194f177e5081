// Package fingerprint computes stable content fingerprints for notes.
package fingerprint

import (
	"errors"
	"strings"

	"github.com/inful/mdfp"
	"github.com/sys27/garden/internal/frontmatter"
)

// Fields that change without the note itself changing. They are left out
// of the hash so touching them does not count as an edit.
var excludedKeys = map[string]struct{}{
	mdfp.FingerprintField: {},
	"lastmod":             {},
	"modified":            {},
	"updated":             {},
	"last-modified":       {},
	"aliases":             {},
}

// Compute returns the canonical fingerprint of a document.
//
// Frontmatter is serialized with sorted keys and a single trailing newline
// trimmed before hashing, so map order never affects the result.
func Compute(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, skip := excludedKeys[k]; skip {
			continue
		}
		forHash[k] = v
	}

	fm := ""
	if len(forHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(forHash)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
