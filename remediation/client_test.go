/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test-key", "sources/github/acme/web")
	if err != nil {
		t.Fatal(err)
	}
	c.PollInterval = time.Millisecond
	return c
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name                     string
		baseURL, apiKey, source string
	}{
		{"missing base URL", "", "k", "s"},
		{"missing API key", "https://api", "", "s"},
		{"missing source", "https://api", "k", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewClient(test.baseURL, test.apiKey, test.source); err == nil {
				t.Error("NewClient succeeded, wanted error")
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	var got createSessionRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if key := r.Header.Get("X-Goog-Api-Key"); key != "test-key" {
			t.Errorf("API key header = %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		_ = json.NewEncoder(w).Encode(Session{Name: "sessions/xyz", RawState: "QUEUED"})
	}))

	name, err := c.CreateSession(context.Background(), "fix it", "feature/x", "Fix Build Failure - PR #7")
	if err != nil {
		t.Fatal(err)
	}
	if name != "sessions/xyz" {
		t.Errorf("session name = %q", name)
	}

	want := createSessionRequest{
		Prompt: "fix it",
		Title:  "Fix Build Failure - PR #7",
		SourceContext: sourceContext{
			Source:            "sources/github/acme/web",
			GitHubRepoContext: repoContext{StartingBranch: "feature/x"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body (-want, +got):\n%s", diff)
	}
}

func TestCreateSessionServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	if _, err := c.CreateSession(context.Background(), "p", "b", "t"); err == nil {
		t.Fatal("CreateSession succeeded on 429")
	}
}

func TestSessionStateMapping(t *testing.T) {
	tests := []struct {
		raw      string
		want     State
		terminal bool
	}{
		{"SUCCEEDED", StateSucceeded, true},
		{"FAILED", StateFailed, true},
		{"CANCELLED", StateCancelled, true},
		{"TERMINATED", StateTerminated, true},
		{"IN_PROGRESS", StatePending, false},
		{"QUEUED", StatePending, false},
		{"SOME_FUTURE_STATE", StatePending, false},
		{"", StatePending, false},
	}
	for _, test := range tests {
		s := &Session{RawState: test.raw}
		if got := s.State(); got != test.want {
			t.Errorf("State(%q) = %s, want %s", test.raw, got, test.want)
		}
		if got := s.Terminal(); got != test.terminal {
			t.Errorf("Terminal(%q) = %t, want %t", test.raw, got, test.terminal)
		}
	}
}

func TestSessionPullRequestURL(t *testing.T) {
	s := &Session{Outputs: []Output{
		{},
		{PullRequest: &PullRequestOutput{URL: "https://github.com/acme/web/pull/8"}},
	}}
	if got := s.PullRequestURL(); got != "https://github.com/acme/web/pull/8" {
		t.Errorf("PullRequestURL = %q", got)
	}
	if got := (&Session{}).PullRequestURL(); got != "" {
		t.Errorf("PullRequestURL on empty session = %q", got)
	}
}

func TestAwaitCompletionPollsUntilTerminal(t *testing.T) {
	var polls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/xyz" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		polls++
		state := "IN_PROGRESS"
		if polls >= 3 {
			state = "SUCCEEDED"
		}
		_ = json.NewEncoder(w).Encode(Session{Name: "sessions/xyz", RawState: state})
	}))

	session, err := c.AwaitCompletion(context.Background(), "sessions/xyz", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if session.State() != StateSucceeded {
		t.Errorf("final state = %s, want succeeded", session.State())
	}
	if polls < 3 {
		t.Errorf("polls = %d, want at least 3", polls)
	}
}

func TestAwaitCompletionTimeoutReturnsLastSnapshot(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "sessions/xyz", "state": "IN_PROGRESS"}`)
	}))

	session, err := c.AwaitCompletion(context.Background(), "sessions/xyz", 20*time.Millisecond)
	if err == nil {
		t.Fatal("AwaitCompletion succeeded past its timeout")
	}
	if session == nil || session.State() != StatePending {
		t.Errorf("last snapshot = %+v, want pending session", session)
	}
}
