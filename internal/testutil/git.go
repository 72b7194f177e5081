// Package testutil holds helpers shared by package tests: throwaway git
// repositories and assertions over a built output tree.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitRepo initializes a git repository in a temporary directory.
// Returns the repository and its absolute root.
func InitRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()

	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	return repo, root
}

// CommitFile writes content to name (slash separated, relative to root) and
// commits it with author and committer time when.
func CommitFile(t *testing.T, repo *git.Repository, root, name, content string, when time.Time) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "tester", Email: "t@example.com", When: when}
	if _, err := wt.Commit("update "+name, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
