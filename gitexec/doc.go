/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitexec provides typed access to the git CLI for repository
// operations that go-git cannot express: linked worktrees, rebases, and
// merge-with-conflict workflows. All commands target a specific directory
// via "git -C <dir>", which every Repository method injects automatically.
//
// The package also exposes StreamCommand, a generic subprocess runner that
// consumes a command's combined stdout/stderr line by line, echoing each
// line to a caller-supplied writer as it arrives while buffering the full
// transcript for later inspection. Verification tooling depends on both
// behaviors at once: a live console trace and a complete captured log.
package gitexec
