/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chainguard.dev/prpilot/gitexec"
	"github.com/chainguard-dev/clog"
)

// Manager creates and destroys branch-bound worktrees rooted at baseDir.
// The primary repository is only used to run worktree bookkeeping commands;
// all verification work happens inside the worktree paths Prepare returns.
type Manager struct {
	repo    *gitexec.Repository
	baseDir string
}

// NewManager returns a Manager whose worktrees live under baseDir. The repo
// must point at the primary checkout that owns the worktree registrations.
func NewManager(repo *gitexec.Repository, baseDir string) *Manager {
	return &Manager{repo: repo, baseDir: baseDir}
}

// Path returns the workspace directory for a branch. Branch names may
// contain slashes; git creates the intermediate directories.
func (m *Manager) Path(branch string) string {
	return filepath.Join(m.baseDir, branch)
}

// Prepare creates a fresh worktree for branch and returns its path. Any
// existing workspace for the branch is deleted outright, never reused,
// and stale worktree registrations are pruned before and after removal.
// The remote is fetched first so branch existence checks observe current
// remote state. If the branch resolves neither locally nor as
// origin/<branch>, the error is unrecoverable and the pipeline cannot
// proceed.
func (m *Manager) Prepare(ctx context.Context, branch string) (string, error) {
	log := clog.FromContext(ctx)

	m.prune(ctx)

	path := m.Path(branch)
	if _, err := os.Stat(path); err == nil {
		log.Warnf("Workspace %s already exists, removing it", path)
		if err := os.RemoveAll(path); err != nil {
			return "", fmt.Errorf("removing stale workspace %s: %w", path, err)
		}
		m.prune(ctx)
	}

	if _, err := m.repo.Run(ctx, "fetch", "origin"); err != nil {
		log.Warnf("Fetching origin: %v", err)
	}

	log.Infof("Creating worktree for branch %s at %s", branch, path)
	if _, err := m.repo.Run(ctx, "worktree", "add", path, branch); err == nil {
		return path, nil
	}

	// No matching local ref; create one tracking the remote branch.
	if _, err := m.repo.Run(ctx, "worktree", "add", "--track", "-b", branch, path, "origin/"+branch); err != nil {
		return "", fmt.Errorf("creating worktree for %q: branch resolves neither locally nor on origin: %w", branch, err)
	}
	return path, nil
}

// Teardown removes the branch's workspace and prunes its registration.
// Best effort: failures are logged, never escalated.
func (m *Manager) Teardown(ctx context.Context, branch string) {
	path := m.Path(branch)
	if err := os.RemoveAll(path); err != nil {
		clog.FromContext(ctx).Warnf("Removing workspace %s: %v", path, err)
	}
	m.prune(ctx)
}

func (m *Manager) prune(ctx context.Context) {
	if _, err := m.repo.Run(ctx, "worktree", "prune"); err != nil {
		clog.FromContext(ctx).Debugf("Pruning worktrees: %v", err)
	}
}
