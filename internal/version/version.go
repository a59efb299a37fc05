// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version houses the version information for the wallet tools in
// this repository.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables define the application version.
var (
	// Version is the base application version.  It is defined as a
	// variable so it can be overridden during the build process with
	// '-ldflags "-X github.com/npy0/nanopy/internal/version.Version=..."'
	// if needed.
	Version = "0.3.0-pre"
)

// vcsCommitID attempts to pull the revision of the version control system
// the binary was built from out of the embedded build information.
func vcsCommitID() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var vcs, revision string
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs":
			vcs = setting.Value
		case "vcs.revision":
			revision = setting.Value
		}
	}
	if vcs != "git" {
		return ""
	}
	if len(revision) > 9 {
		revision = revision[:9]
	}
	return revision
}

// String returns the application version, including the source revision when
// the build embedded one.
func String() string {
	if commit := vcsCommitID(); commit != "" {
		return fmt.Sprintf("%s+%s", Version, commit)
	}
	return Version
}
