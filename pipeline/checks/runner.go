/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"chainguard.dev/prpilot/gitexec"
	"github.com/chainguard-dev/clog"
)

// Runner executes suites inside a workspace with CI=true in the
// environment, marking non-interactive execution for tools that would
// otherwise enter watch or prompt modes.
type Runner struct {
	out io.Writer
}

// NewRunner returns a Runner that streams check output to out. A nil out
// falls back to os.Stdout.
func NewRunner(out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{out: out}
}

// Install runs the suite's setup command (an idempotent, project-defined
// dependency install). The captured transcript is returned either way so a
// failed install can be reported with its log.
func (r *Runner) Install(ctx context.Context, dir string, suite Suite) (string, error) {
	clog.FromContext(ctx).Infof("Installing dependencies: %s", argvString(suite.Setup))

	transcript, exitCode, err := gitexec.StreamCommand(ctx, dir, ciEnv(), r.out, suite.Setup[0], suite.Setup[1:]...)
	if err != nil {
		return transcript, fmt.Errorf("running %s: %w", argvString(suite.Setup), err)
	}
	if exitCode != 0 {
		return transcript, fmt.Errorf("%s: exit status %d", argvString(suite.Setup), exitCode)
	}
	return transcript, nil
}

// Run executes the suite's checks strictly sequentially and fail-fast: the
// first failing check stops the sequence, later checks never run, and the
// returned results contain exactly the checks that executed. On failure the
// FailureDetail carries the step name, the originating command, and the
// full captured log.
func (r *Runner) Run(ctx context.Context, dir string, suite Suite) ([]Result, *FailureDetail) {
	log := clog.FromContext(ctx)
	env := ciEnv()

	var results []Result
	for _, check := range suite.Checks {
		log.Infof("Running %s: %s", check.Name, check.CommandString())
		start := time.Now()

		transcript, exitCode, err := gitexec.StreamCommand(ctx, dir, env, r.out, check.Command[0], check.Command[1:]...)
		duration := time.Since(start)

		failed := err != nil || exitCode != 0 || outputIndicatesFailure(check.Kind, transcript)
		if err != nil && transcript == "" {
			transcript = err.Error()
		}

		if failed {
			log.Errorf("%s failed after %s", check.Name, duration.Round(10*time.Millisecond))
			results = append(results, Result{Name: check.Name, Status: StatusFail, Duration: duration})
			return results, &FailureDetail{
				Step:    check.Name,
				Command: check.CommandString(),
				Log:     transcript,
			}
		}

		log.Infof("%s passed in %s", check.Name, duration.Round(10*time.Millisecond))
		results = append(results, Result{Name: check.Name, Status: StatusPass, Duration: duration})
	}
	return results, nil
}

func ciEnv() []string {
	return append(os.Environ(), "CI=true")
}

func argvString(argv []string) string {
	return Check{Command: argv}.CommandString()
}
