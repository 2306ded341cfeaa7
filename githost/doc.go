/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githost wraps the code-host side of the pipeline: reading pull
// request metadata, posting result comments, and toggling draft state.
// Metadata reads and comments go through the GitHub REST API; draft
// transitions use the GraphQL mutations, which are the only surface GitHub
// exposes for them.
package githost
