/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"chainguard.dev/prpilot/githost"
	"chainguard.dev/prpilot/gitexec"
	"chainguard.dev/prpilot/pipeline"
	"chainguard.dev/prpilot/pipeline/branchsync"
	"chainguard.dev/prpilot/pipeline/checks"
	"chainguard.dev/prpilot/pipeline/workspace"
	"chainguard.dev/prpilot/remediation"
	"chainguard.dev/prpilot/secrets"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// config is built once from the environment at process start and passed
// into each component constructor; no component reads ambient globals.
type config struct {
	// RepoDir is the primary checkout that owns worktree registrations.
	RepoDir string `env:"PRPILOT_REPO_DIR,required"`
	// WorktreesDir is where branch workspaces are created. Defaults to a
	// "worktrees" directory beside the primary checkout.
	WorktreesDir string `env:"PRPILOT_WORKTREES_DIR"`
	// Repository is the "owner/repo" slug on the code host.
	Repository string `env:"GITHUB_REPOSITORY,required"`
	// IntegrationBranch is the long-lived branch PRs are synchronized
	// against before merge.
	IntegrationBranch string `env:"PRPILOT_INTEGRATION_BRANCH,default=main"`

	GitHubToken string `env:"GITHUB_TOKEN,required"`

	// Remediation agent configuration; all three must be set for the
	// dispatch capability to be enabled.
	RemediationURL    string `env:"REMEDIATION_API_URL"`
	RemediationAPIKey string `env:"REMEDIATION_API_KEY"`
	RemediationSource string `env:"REMEDIATION_SOURCE"`

	// SecretsDirs are searched in order for environment files to symlink
	// into workspaces.
	SecretsDirs []string `env:"PRPILOT_SECRETS_DIRS"`
}

func (c *config) worktreesDir() string {
	if c.WorktreesDir != "" {
		return c.WorktreesDir
	}
	return filepath.Join(filepath.Dir(c.RepoDir), "worktrees")
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "prpilot",
		Short:         "Automated PR verification and repair",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(processCommand())
	return root
}

func processCommand() *cobra.Command {
	var start bool
	cmd := &cobra.Command{
		Use:   "process <pr-number>",
		Short: "Sync, verify, and report on a pull request",
		Long: `Process prepares an isolated worktree for the pull request's branch,
synchronizes it with the integration branch (rebase, falling back to
merge), runs the project's verification suite fail-fast, dispatches a
remediation session on failure, and posts a result comment.

The process exits non-zero only when the PR cannot be resolved or the
workspace cannot be prepared. Verification failures are communicated via
the posted report, not the exit code, so enclosing automation is never
aborted by a red check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid PR number %q: %w", args[0], err)
			}

			var cfg config
			if err := envconfig.Process(ctx, &cfg); err != nil {
				return fmt.Errorf("processing config: %w", err)
			}

			p, err := newPipeline(ctx, &cfg)
			if err != nil {
				return err
			}
			return p.Run(ctx, number, start)
		},
	}
	cmd.Flags().BoolVar(&start, "start", false, "launch the preview server after a fully green run")
	return cmd
}

func newPipeline(ctx context.Context, cfg *config) (*pipeline.Pipeline, error) {
	log := clog.FromContext(ctx)

	host, err := githost.NewClient(ctx, cfg.GitHubToken, cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("creating code-host client: %w", err)
	}

	var remediator *remediation.Dispatcher
	if cfg.RemediationURL != "" || cfg.RemediationAPIKey != "" || cfg.RemediationSource != "" {
		client, err := remediation.NewClient(cfg.RemediationURL, cfg.RemediationAPIKey, cfg.RemediationSource)
		if err != nil {
			log.Warnf("Remediation dispatch disabled: %v", err)
		} else {
			remediator = remediation.NewDispatcher(client)
		}
	}

	var provisioner *secrets.Provisioner
	if len(cfg.SecretsDirs) > 0 {
		provisioner = secrets.NewProvisioner(cfg.SecretsDirs)
	}

	primary := gitexec.NewRepository(cfg.RepoDir)
	return &pipeline.Pipeline{
		Host:       host,
		Workspaces: workspace.NewManager(primary, cfg.worktreesDir()),
		Syncer:     branchsync.NewSyncer(cfg.IntegrationBranch, os.Stdout),
		Runner:     checks.NewRunner(os.Stdout),
		Remediator: remediator,
		Secrets:    provisioner,
	}, nil
}
