/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Repository represents a git repository (or linked worktree) at a specific
// directory. All operations target this directory via "git -C <dir>". There
// is no default directory; callers must always specify which checkout they
// mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns stdout.
// Stderr is captured separately and included in error messages on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	clog.FromContext(ctx).Debugf("git -C %s %s", r.dir, strings.Join(args, " "))

	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// RunStreamed executes a git command with its combined stdout and stderr
// streamed line by line to w while also being captured. The full transcript
// is returned in both the success and failure cases so that callers can
// inspect conflict output after a failed rebase or merge.
func (r *Repository) RunStreamed(ctx context.Context, w io.Writer, args ...string) (string, error) {
	clog.FromContext(ctx).Debugf("git -C %s %s (streamed)", r.dir, strings.Join(args, " "))

	fullArgs := append([]string{"-C", r.dir}, args...)
	transcript, exitCode, err := StreamCommand(ctx, r.dir, nil, w, "git", fullArgs...)
	if err != nil {
		return transcript, fmt.Errorf("git %s in %s: %w", strings.Join(args, " "), r.dir, err)
	}
	if exitCode != 0 {
		return transcript, fmt.Errorf("git %s in %s: exit status %d", strings.Join(args, " "), r.dir, exitCode)
	}
	return transcript, nil
}
