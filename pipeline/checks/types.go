/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind classifies a check for failure-detection purposes. Different tooling
// families need different output heuristics, so the kind, not the check
// name, selects the pattern.
type Kind int

const (
	KindSetup Kind = iota
	KindLint
	KindBuild
	KindUnitTest
	KindVisualTest
)

var kindNames = map[Kind]string{
	KindSetup:      "setup",
	KindLint:       "lint",
	KindBuild:      "build",
	KindUnitTest:   "unit-test",
	KindVisualTest: "visual-test",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// UnmarshalYAML accepts the string form used in .prpilot.yaml suite files.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	for kind, kn := range kindNames {
		if kn == strings.ToLower(strings.TrimSpace(name)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown check kind %q", name)
}

// Status is the verdict for a single check.
type Status int

const (
	StatusPass Status = iota
	StatusFail
)

func (s Status) String() string {
	if s == StatusPass {
		return "Pass"
	}
	return "Fail"
}

// Check is a single verification step: a named command of a given kind.
type Check struct {
	Name    string   `yaml:"name"`
	Kind    Kind     `yaml:"kind"`
	Command []string `yaml:"command"`
}

// CommandString renders the check's argv as a shell-style string for
// reports and remediation prompts.
func (c Check) CommandString() string {
	return strings.Join(c.Command, " ")
}

// Result records the outcome of one executed check. The sequence of Results
// from a run is ordered and stops at the first failure: no result is ever
// recorded after the first Fail.
type Result struct {
	Name     string
	Status   Status
	Duration time.Duration
}

// FailureDetail captures everything a report or remediation prompt needs
// about the first failing step. Log holds the full captured transcript;
// consumers truncate for their own size limits.
type FailureDetail struct {
	Step    string
	Command string
	Log     string
}
