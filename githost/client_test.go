/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githost

import (
	"context"
	"testing"
)

func TestNewClientSlugValidation(t *testing.T) {
	ctx := context.Background()

	for _, slug := range []string{"", "noslash", "/repo", "owner/", "owner"} {
		if _, err := NewClient(ctx, "tok", slug); err == nil {
			t.Errorf("NewClient(%q) succeeded, wanted error", slug)
		}
	}

	c, err := NewClient(ctx, "tok", "acme/web")
	if err != nil {
		t.Fatal(err)
	}
	if c.owner != "acme" || c.repo != "web" {
		t.Errorf("slug parsed to %s/%s, want acme/web", c.owner, c.repo)
	}
}
