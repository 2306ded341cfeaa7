/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package secrets provisions required runtime environment files into a
// workspace by symlinking them from configured source directories.
// Symlinking is preferred over copying so every workspace observes the same
// secret material. Provisioning is always best effort: a missing or
// unlinkable file is logged, never fatal.
package secrets
