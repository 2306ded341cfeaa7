/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/prpilot/pipeline/checks"
	"github.com/chainguard-dev/clog"
)

// Dispatcher turns verification failures into remediation sessions.
type Dispatcher struct {
	client *Client
}

// NewDispatcher wraps a Client for failure dispatch.
func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Dispatch creates a session asking the agent to fix the failing branch.
// The prompt embeds the failing step, the exact failing command, the full
// captured log, and the explicit list of verification commands the agent
// must re-run to confirm a fix. The call returns the session name
// immediately and never waits for the agent.
func (d *Dispatcher) Dispatch(ctx context.Context, branch string, prNumber int, prTitle string, failure *checks.FailureDetail, verifyCommands []string) (string, error) {
	log := clog.FromContext(ctx)

	prompt := buildPrompt(branch, prNumber, prTitle, failure, verifyCommands)
	title := fmt.Sprintf("Fix %s Failure - PR #%d", failure.Step, prNumber)

	log.Infof("Creating remediation session for PR #%d (branch %s)", prNumber, branch)
	name, err := d.client.CreateSession(ctx, prompt, branch, title)
	if err != nil {
		return "", fmt.Errorf("dispatching remediation for PR #%d: %w", prNumber, err)
	}
	return name, nil
}

func buildPrompt(branch string, prNumber int, prTitle string, failure *checks.FailureDetail, verifyCommands []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The verification failed for PR #%d (%q).\n\n", prNumber, prTitle)
	fmt.Fprintf(&b, "**Failed Step:** %s\n", failure.Step)
	fmt.Fprintf(&b, "**Command:** `%s`\n\n", failure.Command)
	fmt.Fprintf(&b, "**Error Log:**\n```\n%s\n```\n\n", failure.Log)
	fmt.Fprintf(&b, "Please analyze, fix branch `%s`, and verify with:\n", branch)
	for i, cmd := range verifyCommands {
		fmt.Fprintf(&b, "%d. %s\n", i+1, cmd)
	}
	return strings.TrimRight(b.String(), "\n")
}
