/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package remediation wraps the external coding-agent API. A Client creates
// sessions against a sources/sessions style REST surface and can poll a
// session to a terminal state; a Dispatcher turns a verification failure
// into a structured fix request bound to the failing branch.
//
// Dispatch is fire-and-forget with respect to the pipeline: it returns the
// session identifier immediately and never blocks on the agent. Callers
// that do want to block (interactive session watching) use AwaitCompletion,
// which polls on a fixed interval under a bounded wall-clock timeout and on
// expiry abandons polling without cancelling the server-side session.
package remediation
