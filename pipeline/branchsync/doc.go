/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package branchsync synchronizes a pull request branch with a moving
// integration branch using a rebase-then-merge-fallback strategy.
//
// A rebase is attempted first; if it conflicts it is aborted unconditionally
// so the repository is never left mid-rebase, and a merge is attempted
// instead. A merge that conflicts is not resolved: every file, conflict
// markers included, is staged, committed with a fixed message, and force
// pushed. Committed markers make the conflict visible and diff-able to a
// human or a remediation agent, which is deliberately the only resolution
// path. Force pushes are safe here because the branch is pipeline-owned
// scratch state for the duration of the run.
package branchsync
