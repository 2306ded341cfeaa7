/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SuiteFileName is the optional per-project suite override, read from the
// workspace root.
const SuiteFileName = ".prpilot.yaml"

// Suite is the project-defined verification plan: one setup command for
// dependency installation plus an ordered list of checks.
type Suite struct {
	Setup  []string `yaml:"setup"`
	Checks []Check  `yaml:"checks"`
}

// VerifyCommands returns the command strings for every check in order,
// suitable for embedding in a remediation prompt as the list of commands an
// agent must re-run to confirm a fix.
func (s Suite) VerifyCommands() []string {
	cmds := make([]string, 0, len(s.Checks))
	for _, c := range s.Checks {
		cmds = append(cmds, c.CommandString())
	}
	return cmds
}

// DefaultSuite returns the stock npm-based suite. Setup prefers the
// project's scripts/setup.sh when it exists and is executable, falling back
// to a plain npm install.
func DefaultSuite(dir string) Suite {
	setup := []string{"npm", "install"}
	script := filepath.Join(dir, "scripts", "setup.sh")
	if info, err := os.Stat(script); err == nil && info.Mode()&0o111 != 0 {
		setup = []string{script}
	}

	return Suite{
		Setup: setup,
		Checks: []Check{
			{Name: "Lint", Kind: KindLint, Command: []string{"npm", "run", "lint"}},
			{Name: "Build", Kind: KindBuild, Command: []string{"npm", "run", "build"}},
			{Name: "Unit Tests", Kind: KindUnitTest, Command: []string{"npm", "run", "test", "--", "--ci"}},
			{Name: "Visual Tests", Kind: KindVisualTest, Command: []string{"npm", "run", "test:visual", "--", "--reporter=list"}},
		},
	}
}

// LoadSuite reads the workspace's suite file, falling back to DefaultSuite
// when the file is absent. A present-but-unparsable file is an error so a
// typo never silently reverts a project to the stock suite.
func LoadSuite(dir string) (Suite, error) {
	data, err := os.ReadFile(filepath.Join(dir, SuiteFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSuite(dir), nil
	}
	if err != nil {
		return Suite{}, fmt.Errorf("reading %s: %w", SuiteFileName, err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("parsing %s: %w", SuiteFileName, err)
	}

	defaults := DefaultSuite(dir)
	if len(s.Setup) == 0 {
		s.Setup = defaults.Setup
	}
	if len(s.Checks) == 0 {
		s.Checks = defaults.Checks
	}
	for i, c := range s.Checks {
		if c.Name == "" || len(c.Command) == 0 {
			return Suite{}, fmt.Errorf("parsing %s: check %d needs a name and a command", SuiteFileName, i)
		}
	}
	return s, nil
}
