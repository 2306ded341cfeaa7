/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gittest builds throwaway git fixtures for tests: a bare remote,
// clones with a test identity configured, and helpers for committing and
// pushing. Assertions against the remote go through go-git so tests can
// inspect pushed trees without creating another clone.
package gittest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/prpilot/gitexec"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// InitBare creates a bare repository with main as its default branch and
// returns its path.
func InitBare(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := gitexec.NewRepository(dir).Run(context.Background(), "init", "--bare", "-b", "main", "."); err != nil {
		t.Fatalf("init bare: %v", err)
	}
	return dir
}

// Clone clones the remote into a fresh temp directory and configures a test
// identity so commits and merges work without global git config.
func Clone(t *testing.T, remote string) *gitexec.Repository {
	t.Helper()
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "clone")
	if _, err := gitexec.NewRepository(filepath.Dir(dir)).Run(ctx, "clone", remote, dir); err != nil {
		t.Fatalf("clone %s: %v", remote, err)
	}

	repo := gitexec.NewRepository(dir)
	for _, kv := range [][2]string{
		{"user.name", "prpilot-test"},
		{"user.email", "prpilot-test@chainguard.dev"},
	} {
		if _, err := repo.Run(ctx, "config", kv[0], kv[1]); err != nil {
			t.Fatalf("config %s: %v", kv[0], err)
		}
	}
	return repo
}

// WriteCommit writes the given files into the clone, stages everything, and
// commits with the message.
func WriteCommit(t *testing.T, repo *gitexec.Repository, files map[string]string, message string) {
	t.Helper()
	ctx := context.Background()

	for name, content := range files {
		full := filepath.Join(repo.Dir(), name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if _, err := repo.Run(ctx, "add", "-A"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.Run(ctx, "commit", "-m", message); err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
}

// Checkout switches the clone to ref, creating a branch when create is set.
func Checkout(t *testing.T, repo *gitexec.Repository, ref string, create bool) {
	t.Helper()
	args := []string{"checkout"}
	if create {
		args = append(args, "-b")
	}
	args = append(args, ref)
	if _, err := repo.Run(context.Background(), args...); err != nil {
		t.Fatalf("checkout %s: %v", ref, err)
	}
}

// Push pushes branch to origin.
func Push(t *testing.T, repo *gitexec.Repository, branch string) {
	t.Helper()
	if _, err := repo.Run(context.Background(), "push", "origin", branch); err != nil {
		t.Fatalf("push %s: %v", branch, err)
	}
}

// RemoteTip returns the commit hash at refs/heads/<branch> in the bare
// remote.
func RemoteTip(t *testing.T, remote, branch string) string {
	t.Helper()
	repo, err := gogit.PlainOpen(remote)
	if err != nil {
		t.Fatalf("opening remote: %v", err)
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("resolving %s on remote: %v", branch, err)
	}
	return ref.Hash().String()
}

// RemoteCommit returns the commit object at the tip of branch in the bare
// remote.
func RemoteCommit(t *testing.T, remote, branch string) *object.Commit {
	t.Helper()
	repo, err := gogit.PlainOpen(remote)
	if err != nil {
		t.Fatalf("opening remote: %v", err)
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("resolving %s on remote: %v", branch, err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		t.Fatalf("reading commit %s: %v", ref.Hash(), err)
	}
	return commit
}

// RemoteFile returns the contents of path in the tree at the tip of branch
// in the bare remote.
func RemoteFile(t *testing.T, remote, branch, path string) string {
	t.Helper()
	commit := RemoteCommit(t, remote, branch)
	file, err := commit.File(path)
	if err != nil {
		t.Fatalf("finding %s at %s tip: %v", path, branch, err)
	}
	content, err := file.Contents()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return content
}
