/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"chainguard.dev/prpilot/pipeline/checks"
)

func TestDispatch(t *testing.T) {
	var got createSessionRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		_ = json.NewEncoder(w).Encode(Session{Name: "sessions/fix1", RawState: "QUEUED"})
	}))

	failure := &checks.FailureDetail{
		Step:    "Unit Tests",
		Command: "npm run test -- --ci",
		Log:     "Test Suites: 1 failed, 3 total\nFAIL src/app.test.ts",
	}
	name, err := NewDispatcher(c).Dispatch(context.Background(), "feature/x", 42, "Add login form", failure,
		[]string{"npm run lint", "npm run test -- --ci"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "sessions/fix1" {
		t.Errorf("session name = %q", name)
	}

	if got.Title != "Fix Unit Tests Failure - PR #42" {
		t.Errorf("title = %q", got.Title)
	}
	if got.SourceContext.GitHubRepoContext.StartingBranch != "feature/x" {
		t.Errorf("starting branch = %q", got.SourceContext.GitHubRepoContext.StartingBranch)
	}
	for _, want := range []string{
		`The verification failed for PR #42 ("Add login form").`,
		"**Failed Step:** Unit Tests",
		"**Command:** `npm run test -- --ci`",
		"FAIL src/app.test.ts",
		"Please analyze, fix branch `feature/x`, and verify with:",
		"1. npm run lint",
		"2. npm run test -- --ci",
	} {
		if !strings.Contains(got.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, got.Prompt)
		}
	}
}

func TestDispatchPromptCarriesFullLog(t *testing.T) {
	// The PR comment truncates logs; the remediation prompt must not.
	longLog := strings.Repeat("line of diagnostic output\n", 500)
	var got createSessionRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		_ = json.NewEncoder(w).Encode(Session{Name: "sessions/fix2"})
	}))

	failure := &checks.FailureDetail{Step: "Build", Command: "npm run build", Log: longLog}
	if _, err := NewDispatcher(c).Dispatch(context.Background(), "b", 1, "t", failure, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.Prompt, longLog) {
		t.Errorf("prompt truncated the failure log (%d bytes in prompt)", len(got.Prompt))
	}
}
