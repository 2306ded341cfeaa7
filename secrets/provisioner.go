/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package secrets

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
)

// defaultFiles are the environment files provisioned when the caller does
// not name any.
var defaultFiles = []string{".env.production", ".env.local"}

// Provisioner symlinks secret files from an ordered list of search paths
// into target workspaces. The first path containing a file wins.
type Provisioner struct {
	searchPaths []string
	files       []string
}

// NewProvisioner returns a Provisioner over the given search paths. When no
// files are named the default environment files are used.
func NewProvisioner(searchPaths []string, files ...string) *Provisioner {
	if len(files) == 0 {
		files = defaultFiles
	}
	return &Provisioner{searchPaths: searchPaths, files: files}
}

// Provision links each configured file into dir, replacing any existing
// file or link at the destination. Missing sources warn and continue, since
// some environments legitimately lack a file, while removal or link errors flip
// the returned success flag. Provision never fails the caller.
func (p *Provisioner) Provision(ctx context.Context, dir string) bool {
	log := clog.FromContext(ctx)
	log.Infof("Provisioning secrets for %s", dir)

	ok := true
	for _, name := range p.files {
		src := p.find(name)
		if src == "" {
			log.Warnf("Secret file %q not found in search paths", name)
			continue
		}

		dst := filepath.Join(dir, name)
		if _, err := os.Lstat(dst); err == nil {
			if err := os.Remove(dst); err != nil {
				log.Errorf("Removing existing %s: %v", name, err)
				ok = false
				continue
			}
		}

		if err := os.Symlink(src, dst); err != nil {
			log.Errorf("Linking %s: %v", name, err)
			ok = false
			continue
		}
		log.Infof("Linked %s -> %s", name, src)
	}
	return ok
}

func (p *Provisioner) find(name string) string {
	for _, dir := range p.searchPaths {
		full := filepath.Join(dir, name)
		if _, err := os.Stat(full); err == nil {
			return full
		}
	}
	return ""
}
