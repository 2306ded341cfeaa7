/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestProvisionLinksFirstMatch(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()
	ws := t.TempDir()

	// Both paths hold .env.production; only the fallback holds .env.local.
	write(t, filepath.Join(primary, ".env.production"), "primary")
	write(t, filepath.Join(fallback, ".env.production"), "fallback")
	write(t, filepath.Join(fallback, ".env.local"), "local")

	p := NewProvisioner([]string{primary, fallback})
	if !p.Provision(context.Background(), ws) {
		t.Fatal("Provision reported failure")
	}

	got, err := os.ReadFile(filepath.Join(ws, ".env.production"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "primary" {
		t.Errorf(".env.production resolved to %q, want first search path", got)
	}

	if target, err := os.Readlink(filepath.Join(ws, ".env.local")); err != nil {
		t.Errorf(".env.local is not a symlink: %v", err)
	} else if target != filepath.Join(fallback, ".env.local") {
		t.Errorf(".env.local -> %s", target)
	}
}

func TestProvisionReplacesExisting(t *testing.T) {
	src := t.TempDir()
	ws := t.TempDir()
	write(t, filepath.Join(src, ".env.production"), "fresh")
	write(t, filepath.Join(ws, ".env.production"), "stale")

	p := NewProvisioner([]string{src}, ".env.production")
	if !p.Provision(context.Background(), ws) {
		t.Fatal("Provision reported failure")
	}

	got, err := os.ReadFile(filepath.Join(ws, ".env.production"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh" {
		t.Errorf(".env.production = %q, want replacement", got)
	}

	// Re-provisioning over its own symlink is idempotent.
	if !p.Provision(context.Background(), ws) {
		t.Fatal("second Provision reported failure")
	}
}

func TestProvisionMissingSourceIsNotFailure(t *testing.T) {
	p := NewProvisioner([]string{t.TempDir()})
	ws := t.TempDir()

	if !p.Provision(context.Background(), ws) {
		t.Error("missing source files flipped the success flag")
	}
	entries, err := os.ReadDir(ws)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("workspace not left untouched: %v", entries)
	}
}

func TestProvisionLinkFailure(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, ".env.production"), "x")

	// Destination directory does not exist, so the symlink fails.
	p := NewProvisioner([]string{src}, ".env.production")
	if p.Provision(context.Background(), filepath.Join(t.TempDir(), "missing")) {
		t.Error("Provision reported success despite link failure")
	}
}
