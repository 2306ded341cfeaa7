/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package branchsync

import (
	"context"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/prpilot/gitexec"
	"github.com/chainguard-dev/clog"
)

// Outcome is the binary verdict of a sync attempt.
type Outcome int

const (
	// Clean means the branch now contains the integration branch's
	// history with no unresolved conflicts, via either rebase or merge.
	Clean Outcome = iota
	// ConflictCommitted means both rebase and merge conflicted; the
	// working tree's conflict markers have been committed and pushed.
	// This is a terminal state, not an error to recover from locally.
	ConflictCommitted
)

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case ConflictCommitted:
		return "conflict-committed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result carries the sync verdict and the branch's new tip commit.
type Result struct {
	Outcome Outcome
	Tip     string
}

// Syncer implements the rebase/merge-fallback state machine against a fixed
// integration branch. Rebase and merge output is streamed to out as it is
// produced.
type Syncer struct {
	integration string
	out         io.Writer
}

// NewSyncer returns a Syncer targeting the named integration branch. out
// receives the live rebase/merge trace and may be nil to discard it.
func NewSyncer(integration string, out io.Writer) *Syncer {
	return &Syncer{integration: integration, out: out}
}

// IntegrationBranch returns the integration branch name the Syncer targets.
func (s *Syncer) IntegrationBranch() string {
	return s.integration
}

// RebaseCommand returns the command string for the primary sync operation,
// used when synthesizing failure reports for conflicted syncs.
func (s *Syncer) RebaseCommand() string {
	return fmt.Sprintf("git rebase origin/%s", s.integration)
}

// ConflictMessage is the fixed commit message used when committing
// unresolved conflict markers.
func (s *Syncer) ConflictMessage() string {
	return fmt.Sprintf("Merge origin/%s (with unresolved conflicts)", s.integration)
}

// Sync brings branch up to date with the integration branch inside the
// given workspace:
//
//  1. Fetch the integration branch.
//  2. Rebase onto origin/<integration>; on success force-push and return
//     Clean.
//  3. On rebase conflict, abort the rebase unconditionally and merge
//     origin/<integration> instead; on success force-push and return Clean.
//  4. On merge conflict, stage everything (markers included), commit with
//     the fixed message, force-push, and return ConflictCommitted.
//
// Fetch and push failures are best effort: they are logged and the sync
// continues, letting downstream steps and the report reflect reality.
func (s *Syncer) Sync(ctx context.Context, ws *gitexec.Repository, branch string) Result {
	log := clog.FromContext(ctx)
	target := "origin/" + s.integration

	log.Infof("Fetching %s", target)
	if _, err := ws.Run(ctx, "fetch", "origin", s.integration); err != nil {
		log.Warnf("Fetching %s: %v", s.integration, err)
	}

	log.Infof("Attempting rebase of %s onto %s", branch, target)
	if _, err := ws.RunStreamed(ctx, s.out, "rebase", target); err == nil {
		log.Infof("Rebase successful, force pushing %s", branch)
		s.forcePush(ctx, ws, branch)
		return Result{Outcome: Clean, Tip: s.tip(ctx, ws)}
	}

	log.Warnf("Rebase failed due to conflicts, aborting and falling back to merge")
	if _, err := ws.Run(ctx, "rebase", "--abort"); err != nil {
		log.Debugf("Aborting rebase: %v", err)
	}

	if _, err := ws.RunStreamed(ctx, s.out, "merge", target); err == nil {
		log.Infof("Merge successful, force pushing %s", branch)
		s.forcePush(ctx, ws, branch)
		return Result{Outcome: Clean, Tip: s.tip(ctx, ws)}
	}

	log.Warnf("Merge conflicts detected, committing markers")
	if _, err := ws.Run(ctx, "add", "-A"); err != nil {
		log.Warnf("Staging conflicted files: %v", err)
	}
	if _, err := ws.Run(ctx, "commit", "-m", s.ConflictMessage()); err != nil {
		log.Warnf("Committing conflict markers: %v", err)
	}
	s.forcePush(ctx, ws, branch)
	return Result{Outcome: ConflictCommitted, Tip: s.tip(ctx, ws)}
}

func (s *Syncer) forcePush(ctx context.Context, ws *gitexec.Repository, branch string) {
	if _, err := ws.Run(ctx, "push", "origin", branch, "--force"); err != nil {
		clog.FromContext(ctx).Warnf("Force pushing %s: %v", branch, err)
	}
}

func (s *Syncer) tip(ctx context.Context, ws *gitexec.Repository) string {
	out, err := ws.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		clog.FromContext(ctx).Warnf("Resolving HEAD: %v", err)
		return ""
	}
	return strings.TrimSpace(out)
}
