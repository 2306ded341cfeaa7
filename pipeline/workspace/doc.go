/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workspace owns the lifecycle of isolated working copies used for
// pull request verification. Each branch is bound 1:1 to an ephemeral git
// worktree under a configured base directory. Workspaces are destroyed and
// recreated at the start of every run: a run never inherits partial state
// (half-applied rebases, stray build artifacts, leftover node_modules) from
// a previous one.
package workspace
