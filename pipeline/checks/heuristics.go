/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"regexp"
	"strings"
)

// failurePatterns maps a check kind to a pattern that marks its captured
// output as failed even when the command exits zero. Jest prints a
// "Test Suites: N failed" summary and Playwright prints "N failed", and
// both can exit zero when run under an npm wrapper. Kinds without an entry
// rely on exit code alone. New tool integrations add a row here rather
// than a conditional at a call site.
var failurePatterns = map[Kind]*regexp.Regexp{
	KindUnitTest:   regexp.MustCompile(`test suites?:.*\d+\s+failed`),
	KindVisualTest: regexp.MustCompile(`\d+\s+failed`),
}

// outputIndicatesFailure reports whether the captured output matches the
// kind's failure pattern. Matching is case-insensitive over the whole
// transcript.
func outputIndicatesFailure(kind Kind, output string) bool {
	re, ok := failurePatterns[kind]
	if !ok {
		return false
	}
	return re.MatchString(strings.ToLower(output))
}
