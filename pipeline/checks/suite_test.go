/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeSuiteFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, SuiteFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSuiteAbsentFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadSuite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultSuite(dir), got); diff != "" {
		t.Errorf("LoadSuite with no file (-want, +got):\n%s", diff)
	}
}

func TestLoadSuiteOverride(t *testing.T) {
	dir := t.TempDir()
	writeSuiteFile(t, dir, `
setup: ["yarn", "install", "--frozen-lockfile"]
checks:
  - name: Typecheck
    kind: build
    command: ["yarn", "tsc", "--noEmit"]
  - name: Unit Tests
    kind: unit-test
    command: ["yarn", "jest", "--ci"]
`)

	got, err := LoadSuite(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := Suite{
		Setup: []string{"yarn", "install", "--frozen-lockfile"},
		Checks: []Check{
			{Name: "Typecheck", Kind: KindBuild, Command: []string{"yarn", "tsc", "--noEmit"}},
			{Name: "Unit Tests", Kind: KindUnitTest, Command: []string{"yarn", "jest", "--ci"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSuite (-want, +got):\n%s", diff)
	}

	wantCmds := []string{"yarn tsc --noEmit", "yarn jest --ci"}
	if diff := cmp.Diff(wantCmds, got.VerifyCommands()); diff != "" {
		t.Errorf("VerifyCommands (-want, +got):\n%s", diff)
	}
}

func TestLoadSuitePartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSuiteFile(t, dir, `setup: ["make", "deps"]`)

	got, err := LoadSuite(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"make", "deps"}, got.Setup); diff != "" {
		t.Errorf("Setup (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultSuite(dir).Checks, got.Checks); diff != "" {
		t.Errorf("Checks should default (-want, +got):\n%s", diff)
	}
}

func TestLoadSuiteErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{{
		name:    "unparsable yaml",
		content: "checks: [not closed",
	}, {
		name:    "unknown kind",
		content: "checks:\n  - name: X\n    kind: fuzz\n    command: [\"true\"]\n",
	}, {
		name:    "check without a name",
		content: "checks:\n  - kind: lint\n    command: [\"true\"]\n",
	}, {
		name:    "check without a command",
		content: "checks:\n  - name: X\n    kind: lint\n",
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSuiteFile(t, dir, test.content)
			if _, err := LoadSuite(dir); err == nil {
				t.Error("LoadSuite succeeded, wanted error")
			}
		})
	}
}

func TestDefaultSuitePrefersSetupScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scripts", "setup.sh")
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := DefaultSuite(dir).Setup; len(got) != 1 || got[0] != script {
		t.Errorf("Setup = %v, want [%s]", got, script)
	}

	// A non-executable script is ignored.
	if err := os.Chmod(script, 0o644); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"npm", "install"}, DefaultSuite(dir).Setup); diff != "" {
		t.Errorf("Setup with non-executable script (-want, +got):\n%s", diff)
	}
}
