/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report formats pipeline outcomes. The posted PR comment is the
// single source of truth for a run's result: a markdown table of check
// rows, an explicit skip notice when synchronization conflicted, and a
// collapsible log excerpt plus remediation session reference on failure.
// The same rows can be rendered to the console as a secondary trace.
package report
