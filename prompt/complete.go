// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package prompt

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"go.astrophena.name/reheader/walk"
)

// completer completes directory paths. Pressing Tab again on a completion
// cycles to the next candidate.
type completer struct {
	parent     string
	candidates []string
	next       int
	last       string
}

// complete returns the next completion of input, or input itself if there is
// nothing to complete. Hidden directories are offered only when the typed
// name starts with ".".
func (c *completer) complete(input string) string {
	if c.candidates != nil && input == c.last {
		return c.cycle()
	}

	parent, prefix := splitPath(input)
	c.parent = parent
	c.candidates = subdirs(parent, prefix)
	c.next = 0
	switch {
	case len(c.candidates) == 0:
		c.reset()
		return input
	case len(c.candidates) > 1:
		if common := commonPrefix(c.candidates); len(common) > len(prefix) {
			// Complete the shared part first, the next Tab starts cycling.
			c.reset()
			return filepath.Join(parent, common)
		}
	}
	return c.cycle()
}

func (c *completer) cycle() string {
	name := c.candidates[c.next]
	c.next = (c.next + 1) % len(c.candidates)
	c.last = filepath.Join(c.parent, name) + string(filepath.Separator)
	return c.last
}

// reset forgets the candidates. It should be called whenever the input changes
// by other means than completion.
func (c *completer) reset() { *c = completer{} }

func subdirs(parent, prefix string) []string {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if walk.Hidden(name) && !walk.Hidden(prefix) {
			continue
		}
		if !isDir(filepath.Join(parent, name), e.IsDir()) {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func isDir(path string, dir bool) bool {
	if dir {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// splitPath splits input into the directory to list and the name prefix to
// complete.
//
//	""          → (".", "")
//	"cases"     → (".", "cases")
//	"docs/ca"   → ("docs", "ca")
//	"docs/"     → ("docs", "")
func splitPath(input string) (parent, prefix string) {
	if input == "" || input == "." {
		return ".", ""
	}
	if strings.HasSuffix(input, string(filepath.Separator)) || strings.HasSuffix(input, "/") {
		parent = strings.TrimRight(input, `/\`)
		if parent == "" {
			parent = string(filepath.Separator)
		}
		return parent, ""
	}
	return filepath.Dir(input), filepath.Base(input)
}

func commonPrefix(names []string) string {
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}
