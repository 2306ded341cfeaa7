/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline orchestrates a single PR verification run:
//
//	Start → WorktreeReady → Synced{Clean|Conflict} →
//	[DependenciesInstalled →] Verified{Pass|Fail} → Reported → Done
//
// A conflicted sync skips dependency install and verification entirely
// (running checks against a tree full of conflict markers is meaningless)
// and routes straight to remediation dispatch and reporting. A clean sync
// installs dependencies, provisions secrets, and runs the check suite.
// Every terminal path posts a report; only failures before a report is
// possible (unresolvable PR, workspace creation) surface as errors.
//
// Remediation and secrets are optional capabilities injected at
// construction. A nil handle is a valid, always-checked state: the rest of
// the pipeline runs and reports, and only the optional step is skipped with
// a recorded warning.
package pipeline
