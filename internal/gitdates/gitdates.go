// Package gitdates derives note dates from git history: the first commit
// touching a file is its creation date, the latest one its modification date.
package gitdates

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotRepository is returned when the content directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Dates are the commit times of the oldest and newest commits touching a file.
type Dates struct {
	Created  time.Time
	Modified time.Time
}

// Index maps work-tree relative paths to their commit dates.
type Index struct {
	root  string
	files map[string]Dates
}

// Load walks the first-parent history reachable from HEAD of the repository
// containing dir.
func Load(ctx context.Context, dir string) (*Index, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	idx := &Index{root: canonical(wt.Filesystem.Root()), files: make(map[string]Dates)}

	head, err := repo.Head()
	if err != nil {
		// A freshly initialised repository has no commits yet.
		return idx, nil
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("get head commit: %w", err)
	}

	for commit != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := idx.record(commit)
		if err != nil {
			return nil, err
		}
		commit = next
	}
	return idx, nil
}

// record notes the files touched by c and returns its first parent, if any.
func (i *Index) record(c *object.Commit) (*object.Commit, error) {
	when := c.Committer.When
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree of %s: %w", c.Hash, err)
	}

	if c.NumParents() == 0 {
		err := tree.Files().ForEach(func(f *object.File) error {
			i.touch(f.Name, when)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list files of %s: %w", c.Hash, err)
		}
		return nil, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("get parent of %s: %w", c.Hash, err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("get tree of %s: %w", parent.Hash, err)
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", c.Hash, err)
	}
	for _, ch := range changes {
		// Deleted files have no current version to date.
		if ch.To.Name != "" {
			i.touch(ch.To.Name, when)
		}
	}
	return parent, nil
}

// touch is called newest commit first.
func (i *Index) touch(name string, when time.Time) {
	d, ok := i.files[name]
	if !ok {
		d.Modified = when
	}
	d.Created = when
	i.files[name] = d
}

// Lookup returns the dates of the file at path (absolute or relative to the
// working directory).
func (i *Index) Lookup(path string) (Dates, bool) {
	if i == nil {
		return Dates{}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Dates{}, false
	}
	rel, err := filepath.Rel(i.root, canonical(abs))
	if err != nil {
		return Dates{}, false
	}
	d, ok := i.files[filepath.ToSlash(rel)]
	return d, ok
}

// Len returns the number of tracked files.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.files)
}

func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
