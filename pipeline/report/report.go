/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"strings"
	"time"

	"chainguard.dev/prpilot/pipeline/checks"
)

// logTailBytes caps the log excerpt embedded in a PR comment. The full log
// still reaches the remediation prompt; only the comment is truncated.
const logTailBytes = 2000

// Report is the per-run outcome consumed by the reporter. It is built once,
// rendered, and discarded; nothing persists beyond the posted comment.
type Report struct {
	// Results are the executed checks in order. Empty when verification
	// was skipped because synchronization conflicted.
	Results []checks.Result
	// Failure is non-nil when the run ended at a failing step, including
	// the synthetic sync-failure step.
	Failure *checks.FailureDetail
	// Session references the remediation session created for the
	// failure, if any.
	Session string
}

// Markdown renders the PR comment body.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("### Automated Verification Results\n\n")

	if len(r.Results) > 0 {
		b.WriteString("| Check | Status | Duration |\n")
		b.WriteString("|---|---|---|\n")
		for _, res := range r.Results {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", res.Name, statusCell(res.Status), formatDuration(res.Duration))
		}
	} else {
		b.WriteString("**Verification skipped due to merge/rebase failures.**\n")
	}

	if r.Failure != nil {
		fmt.Fprintf(&b, "\n\n**Verification Failed at: %s**\n", r.Failure.Step)
		if r.Session != "" {
			fmt.Fprintf(&b, "Remediation session created: %s\n", r.Session)
		}
		b.WriteString("\n<details><summary>Failure Logs</summary>\n\n```\n")
		b.WriteString(tail(r.Failure.Log, logTailBytes))
		b.WriteString("\n```\n</details>")
	} else {
		b.WriteString("\n\nAll checks passed! Ready for review.")
	}

	return b.String()
}

func statusCell(s checks.Status) string {
	if s == checks.StatusPass {
		return "✅ Pass"
	}
	return "❌ Fail"
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
