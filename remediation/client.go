/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chainguard-dev/clog"
)

// State is the polled lifecycle state of a remediation session.
type State int

const (
	// StatePending covers every non-terminal server state (queued,
	// planning, in progress).
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCancelled
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	case StateTerminated:
		return "terminated"
	default:
		return "pending"
	}
}

// stateFromAPI maps the API's state strings onto the local enum. Unknown
// strings are treated as pending so a new server-side state never flips a
// running session to terminal.
func stateFromAPI(s string) State {
	switch strings.ToUpper(s) {
	case "SUCCEEDED":
		return StateSucceeded
	case "FAILED":
		return StateFailed
	case "CANCELLED":
		return StateCancelled
	case "TERMINATED":
		return StateTerminated
	default:
		return StatePending
	}
}

// Session is a remediation session as reported by the agent API. Name is
// the opaque resource identifier ("sessions/<id>").
type Session struct {
	Name     string    `json:"name"`
	RawState string    `json:"state"`
	Title    string    `json:"title,omitempty"`
	Outputs  []Output  `json:"outputs,omitempty"`
	Error    *APIError `json:"error,omitempty"`
}

// Output is one result artifact attached to a session.
type Output struct {
	PullRequest *PullRequestOutput `json:"pullRequest,omitempty"`
}

// PullRequestOutput references a pull request the agent produced.
type PullRequestOutput struct {
	URL string `json:"url"`
}

// APIError is the error detail the API attaches to failed sessions.
type APIError struct {
	Message string `json:"message"`
}

// State returns the session's mapped lifecycle state.
func (s *Session) State() State {
	return stateFromAPI(s.RawState)
}

// Terminal reports whether the session has reached a terminal state.
func (s *Session) Terminal() bool {
	return s.State() != StatePending
}

// PullRequestURL extracts the first pull request URL from the session's
// outputs, or "" when none exists.
func (s *Session) PullRequestURL() string {
	for _, out := range s.Outputs {
		if out.PullRequest != nil && out.PullRequest.URL != "" {
			return out.PullRequest.URL
		}
	}
	return ""
}

// DefaultPollInterval is the fixed interval between session polls.
const DefaultPollInterval = 30 * time.Second

// Client talks to the remediation agent's sessions API.
type Client struct {
	baseURL string
	apiKey  string
	source  string

	// PollInterval overrides the poll cadence; tests shorten it.
	PollInterval time.Duration

	httpClient *http.Client
}

// NewClient builds a Client. baseURL is the API root (no trailing slash
// required), apiKey authenticates every request, and source names the
// repository source the agent operates on ("sources/github/<owner>/<repo>").
func NewClient(baseURL, apiKey, source string) (*Client, error) {
	switch {
	case baseURL == "":
		return nil, errors.New("base URL cannot be empty")
	case apiKey == "":
		return nil, errors.New("API key cannot be empty")
	case source == "":
		return nil, errors.New("source cannot be empty")
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		source:       source,
		PollInterval: DefaultPollInterval,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type createSessionRequest struct {
	Prompt        string        `json:"prompt"`
	Title         string        `json:"title,omitempty"`
	SourceContext sourceContext `json:"sourceContext"`
}

type sourceContext struct {
	Source            string      `json:"source"`
	GitHubRepoContext repoContext `json:"githubRepoContext"`
}

type repoContext struct {
	StartingBranch string `json:"startingBranch"`
}

// CreateSession creates a session bound to the given branch so any code the
// agent produces lands on the branch being verified. It returns the
// session's resource name.
func (c *Client) CreateSession(ctx context.Context, prompt, branch, title string) (string, error) {
	req := createSessionRequest{
		Prompt: prompt,
		Title:  title,
		SourceContext: sourceContext{
			Source:            c.source,
			GitHubRepoContext: repoContext{StartingBranch: branch},
		},
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "sessions", req, &session); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	if session.Name == "" {
		return "", errors.New("creating session: response missing name")
	}

	clog.FromContext(ctx).Infof("Created remediation session %s", session.Name)
	return session.Name, nil
}

// GetSession fetches a session by its resource name.
func (c *Client) GetSession(ctx context.Context, name string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, name, nil, &session); err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", name, err)
	}
	return &session, nil
}

// errSessionRunning signals the retry loop that the session has not yet
// reached a terminal state.
var errSessionRunning = errors.New("session still running")

// AwaitCompletion polls the session on a fixed interval until it reaches a
// terminal state or the wall-clock timeout expires. On timeout the session
// is left running server-side (no cancellation is issued) and the last
// observed snapshot is returned alongside the error. The pipeline itself
// never calls this; it exists for interactive callers.
func (c *Client) AwaitCompletion(ctx context.Context, name string, timeout time.Duration) (*Session, error) {
	log := clog.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last *Session
	operation := func() error {
		session, err := c.GetSession(ctx, name)
		if err != nil {
			log.Warnf("Polling session %s: %v", name, err)
			return err
		}
		last = session
		if session.Terminal() {
			return nil
		}
		log.Infof("Session %s: %s, waiting %s", name, session.State(), c.PollInterval)
		return errSessionRunning
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(c.PollInterval), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return last, fmt.Errorf("awaiting session %s: %w", name, err)
	}
	return last, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
