/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"chainguard.dev/prpilot/githost"
	"chainguard.dev/prpilot/gitexec"
	"chainguard.dev/prpilot/pipeline/branchsync"
	"chainguard.dev/prpilot/pipeline/checks"
	"chainguard.dev/prpilot/pipeline/report"
	"chainguard.dev/prpilot/pipeline/workspace"
	"chainguard.dev/prpilot/remediation"
	"chainguard.dev/prpilot/secrets"
	"github.com/chainguard-dev/clog"
)

// Host is the code-host surface the pipeline consumes.
type Host interface {
	GetPR(ctx context.Context, number int) (*githost.PullRequest, error)
	PostComment(ctx context.Context, number int, body string) error
	SetReady(ctx context.Context, pr *githost.PullRequest) error
	SetDraft(ctx context.Context, pr *githost.PullRequest) error
}

// syncStepName is the synthetic step label reported for conflicted syncs.
const syncStepName = "Git Rebase/Merge"

// Pipeline wires the run's collaborators. Remediator and Secrets are
// optional; nil disables the corresponding step with a warning.
type Pipeline struct {
	Host       Host
	Workspaces *workspace.Manager
	Syncer     *branchsync.Syncer
	Runner     *checks.Runner
	Remediator *remediation.Dispatcher
	Secrets    *secrets.Provisioner

	// Out receives the console summary; defaults to os.Stdout.
	Out io.Writer
}

// Run executes the full state machine for one pull request. It returns an
// error only for unrecoverable setup failures (PR unresolvable, workspace
// creation failed); verification failures are communicated through the
// posted report, and the process still exits zero for them so enclosing
// automation is never aborted by a red check.
func (p *Pipeline) Run(ctx context.Context, prNumber int, startPreview bool) error {
	log := clog.FromContext(ctx)

	pr, err := p.Host.GetPR(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("resolving PR #%d: %w", prNumber, err)
	}
	log.Infof("PR #%d %q: branch=%s draft=%v", pr.Number, pr.Title, pr.HeadBranch, pr.Draft)

	dir, err := p.Workspaces.Prepare(ctx, pr.HeadBranch)
	if err != nil {
		return fmt.Errorf("preparing workspace: %w", err)
	}
	ws := gitexec.NewRepository(dir)

	// The suite file is committed project state, readable before any
	// dependency install; the conflict path needs it too for the
	// remediation prompt's verification command list.
	suite, err := checks.LoadSuite(dir)
	if err != nil {
		log.Warnf("Loading check suite: %v; using defaults", err)
		suite = checks.DefaultSuite(dir)
	}

	log.Infof("Syncing %s with %s", pr.HeadBranch, p.Syncer.IntegrationBranch())
	sync := p.Syncer.Sync(ctx, ws, pr.HeadBranch)

	var results []checks.Result
	var failure *checks.FailureDetail

	if sync.Outcome == branchsync.ConflictCommitted {
		log.Warnf("Sync conflicted; skipping verification")
		failure = &checks.FailureDetail{
			Step:    syncStepName,
			Command: p.Syncer.RebaseCommand(),
			Log:     "Merge conflicts detected. Conflict markers have been committed and pushed.",
		}
	} else {
		if installLog, err := p.Runner.Install(ctx, dir, suite); err != nil {
			log.Errorf("Dependency install failed: %v", err)
			failure = &checks.FailureDetail{
				Step:    "Dependency Install",
				Command: strings.Join(suite.Setup, " "),
				Log:     installLog,
			}
		} else {
			p.provisionSecrets(ctx, dir)
			results, failure = p.Runner.Run(ctx, dir, suite)
		}
	}

	var sessionRef string
	if failure != nil {
		sessionRef = p.dispatchRemediation(ctx, pr, failure, suite)
		if !pr.Draft {
			log.Infof("Converting PR #%d back to draft", pr.Number)
			if err := p.Host.SetDraft(ctx, pr); err != nil {
				log.Warnf("Converting PR to draft: %v", err)
			}
		}
	} else if pr.Draft {
		log.Infof("Marking PR #%d ready for review", pr.Number)
		if err := p.Host.SetReady(ctx, pr); err != nil {
			log.Warnf("Marking PR ready: %v", err)
		}
	}

	rep := &report.Report{Results: results, Failure: failure, Session: sessionRef}
	if err := rep.WriteConsole(p.console()); err != nil {
		log.Debugf("Rendering console summary: %v", err)
	}
	if err := p.Host.PostComment(ctx, pr.Number, rep.Markdown()); err != nil {
		log.Warnf("Posting result comment: %v", err)
	}

	if failure == nil && startPreview {
		// Re-provision in case the earlier pass was skipped or raced a
		// workspace mutation.
		p.provisionSecrets(ctx, dir)
		p.launchPreview(ctx, dir)
	}

	log.Infof("Run complete for PR #%d", pr.Number)
	return nil
}

// dispatchRemediation creates a fix session for the failure, degrading to a
// warning when no remediation client is configured. It returns a reference
// for the report, or "".
func (p *Pipeline) dispatchRemediation(ctx context.Context, pr *githost.PullRequest, failure *checks.FailureDetail, suite checks.Suite) string {
	log := clog.FromContext(ctx)
	if p.Remediator == nil {
		log.Warnf("Remediation client not configured; skipping dispatch")
		return ""
	}

	name, err := p.Remediator.Dispatch(ctx, pr.HeadBranch, pr.Number, pr.Title, failure, suite.VerifyCommands())
	if err != nil {
		log.Errorf("Dispatching remediation: %v", err)
		return ""
	}
	return name
}

func (p *Pipeline) provisionSecrets(ctx context.Context, dir string) {
	log := clog.FromContext(ctx)
	if p.Secrets == nil {
		log.Warnf("Secrets provisioner not configured; skipping")
		return
	}
	if !p.Secrets.Provision(ctx, dir) {
		log.Warnf("Secrets provisioning reported errors")
	}
}

func (p *Pipeline) console() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}
