/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/chainguard-dev/clog"
)

// previewScript is the project-defined entry point for the interactive
// preview server launched after a fully green run.
const previewScript = "start-production.sh"

// launchPreview runs the workspace's preview script interactively, wired to
// the operator's terminal, blocking until the operator terminates it. This
// is a manual verification step outside the pipeline's automated scope, so
// every failure mode is a log line rather than an error.
func (p *Pipeline) launchPreview(ctx context.Context, dir string) {
	log := clog.FromContext(ctx)

	script := filepath.Join(dir, previewScript)
	info, err := os.Stat(script)
	if err != nil || info.Mode()&0o111 == 0 {
		log.Warnf("%s not found or not executable, skipping preview", previewScript)
		return
	}

	log.Infof("Launching preview server %s (Ctrl+C to stop)", script)
	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// An interrupt from the operator is the expected way out.
		log.Infof("Preview server stopped: %v", err)
	}
}
