/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githost

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// PullRequest is an immutable snapshot of the PR under verification,
// fetched once per run. Staleness within a single run is acceptable.
type PullRequest struct {
	Number     int
	NodeID     string
	Title      string
	HeadBranch string
	BaseBranch string
	Draft      bool
	State      string
	URL        string
}

// Client talks to a single owner/repo on GitHub.
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	owner   string
	repo    string
}

// NewClient builds a Client for the "owner/repo" slug using a static token
// for both the REST and GraphQL transports.
func NewClient(ctx context.Context, token, ownerRepo string) (*Client, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("repository must be in owner/repo form, got %q", ownerRepo)
	}

	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return &Client{
		rest:    github.NewClient(hc),
		graphql: githubv4.NewClient(hc),
		owner:   owner,
		repo:    repo,
	}, nil
}

// GetPR fetches the pull request snapshot.
func (c *Client) GetPR(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := c.rest.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching PR #%d: %w", number, err)
	}

	return &PullRequest{
		Number:     pr.GetNumber(),
		NodeID:     pr.GetNodeID(),
		Title:      pr.GetTitle(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Draft:      pr.GetDraft(),
		State:      pr.GetState(),
		URL:        pr.GetHTMLURL(),
	}, nil
}

// PostComment posts a markdown comment on the pull request.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	_, _, err := c.rest.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("commenting on PR #%d: %w", number, err)
	}
	return nil
}

// SetReady marks a draft pull request ready for review.
func (c *Client) SetReady(ctx context.Context, pr *PullRequest) error {
	var m struct {
		MarkPullRequestReadyForReview struct {
			PullRequest struct {
				IsDraft githubv4.Boolean
			}
		} `graphql:"markPullRequestReadyForReview(input: $input)"`
	}
	input := githubv4.MarkPullRequestReadyForReviewInput{
		PullRequestID: githubv4.ID(pr.NodeID),
	}
	if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("marking PR #%d ready: %w", pr.Number, err)
	}
	return nil
}

// SetDraft converts a ready pull request back to draft, protecting
// reviewers from known-broken code.
func (c *Client) SetDraft(ctx context.Context, pr *PullRequest) error {
	var m struct {
		ConvertPullRequestToDraft struct {
			PullRequest struct {
				IsDraft githubv4.Boolean
			}
		} `graphql:"convertPullRequestToDraft(input: $input)"`
	}
	input := githubv4.ConvertPullRequestToDraftInput{
		PullRequestID: githubv4.ID(pr.NodeID),
	}
	if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("converting PR #%d to draft: %w", pr.Number, err)
	}
	return nil
}
