// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports the build information of the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"go.astrophena.name/reheader/syncx"
)

// Info describes a build.
type Info struct {
	// Name is the command name.
	Name string
	// Version is the module version, or "devel" for local builds.
	Version string
	// Commit is the VCS revision, if known.
	Commit string
	// Dirty is true if the build had uncommitted changes.
	Dirty bool
	// Go is the Go version used for the build.
	Go string
}

// String returns a human-readable, newline-terminated description of i.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&sb, " (%s", i.Commit)
		if i.Dirty {
			sb.WriteString(", dirty")
		}
		sb.WriteString(")")
	}
	if i.Go != "" {
		fmt.Fprintf(&sb, " built with %s", i.Go)
	}
	sb.WriteString("\n")
	return sb.String()
}

var info syncx.Lazy[Info]

// Version returns the build information of the running binary.
func Version() Info {
	return info.Get(func() Info {
		i := Info{Name: CmdName(), Version: "devel"}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return i
		}
		i.Go = bi.GoVersion
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			i.Version = v
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				i.Commit = s.Value
			case "vcs.modified":
				i.Dirty = s.Value == "true"
			}
		}
		return i
	})
}

// CmdName returns the name of the running command.
func CmdName() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe")
}
