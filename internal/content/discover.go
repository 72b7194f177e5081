package content

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
)

// Source is a file found under the content directory.
type Source struct {
	Path    string // filesystem path
	RelPath string // slash-separated, relative to the content directory
}

// IsMarkdown reports whether the source is a note rather than an asset.
func (s Source) IsMarkdown() bool {
	return strings.EqualFold(path.Ext(s.RelPath), ".md")
}

// DiscoverOptions controls a content walk.
type DiscoverOptions struct {
	Dir    string
	Ignore []string // glob patterns matched against relative paths and their segments
	// Exclude lists directories never descended into, such as the output directory.
	Exclude []string
}

// Discover walks the content directory and returns markdown notes and
// assets in path order. Dot files and directories are skipped.
func Discover(ctx context.Context, opts DiscoverOptions) (notes []Source, assets []Source, err error) {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve content directory").
			WithContext("path", opts.Dir).Build()
	}
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, e := range opts.Exclude {
		if abs, absErr := filepath.Abs(e); absErr == nil {
			excluded[abs] = struct{}{}
		}
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, skip := excluded[p]; skip || strings.HasPrefix(d.Name(), ".") || Ignored(rel, opts.Ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || Ignored(rel, opts.Ignore) || !d.Type().IsRegular() {
			return nil
		}

		src := Source{Path: p, RelPath: rel}
		if src.IsMarkdown() {
			notes = append(notes, src)
		} else {
			assets = append(assets, src)
		}
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, nil, walkErr
		}
		return nil, nil, ferrors.WrapError(walkErr, ferrors.CategoryFileSystem, "walk content directory").
			WithContext("path", root).Build()
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].RelPath < notes[j].RelPath })
	sort.Slice(assets, func(i, j int) bool { return assets[i].RelPath < assets[j].RelPath })
	return notes, assets, nil
}

// Ignored reports whether rel matches any pattern, either as a whole path
// or by one of its segments.
func Ignored(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	segments := strings.Split(rel, "/")
	for _, pattern := range patterns {
		pattern = strings.Trim(pattern, "/")
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		for _, seg := range segments {
			if ok, _ := path.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}
