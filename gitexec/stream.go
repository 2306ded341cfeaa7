/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitexec

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// StreamCommand runs name with args in dir, merging stderr into stdout and
// consuming the combined stream line by line. Each line is written to w the
// moment it arrives and appended to the returned transcript, so callers get
// a live trace and a complete log from a single invocation. The reader runs
// on the calling goroutine while the process executes, which keeps the
// child's pipe drained and avoids deadlocking on either side's buffer.
//
// The returned exit code is the process's exit status. A non-nil error is
// reserved for failures to launch or plumb the process; a command that runs
// to completion with a non-zero status returns (transcript, status, nil).
func StreamCommand(ctx context.Context, dir string, env []string, w io.Writer, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}

	// A single pipe carries both streams so interleaving matches what a
	// terminal would show.
	pr, pw, err := os.Pipe()
	if err != nil {
		return "", -1, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return "", -1, err
	}

	// Close the parent's write end so the read loop sees EOF when the
	// child exits.
	pw.Close()

	var transcript strings.Builder
	reader := bufio.NewReader(pr)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			if w != nil {
				io.WriteString(w, line)
			}
			transcript.WriteString(line)
		}
		if readErr != nil {
			break
		}
	}
	pr.Close()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return transcript.String(), exitErr.ExitCode(), nil
		}
		return transcript.String(), -1, err
	}
	return transcript.String(), 0, nil
}
