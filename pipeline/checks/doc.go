/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package checks runs an ordered, fail-fast verification suite inside a
// prepared workspace. Each check's output is streamed to the console while
// being captured in full, and pass/fail classification combines the exit
// code with per-kind textual heuristics: some JavaScript tooling reports
// failures in its summary output while still exiting zero from a parent
// wrapper, so the exit code is the authoritative floor and the patterns are
// an additive upgrade.
//
// The suite itself is project-defined: a .prpilot.yaml in the workspace
// overrides the setup command and check list, otherwise a default npm-based
// suite is used.
package checks
