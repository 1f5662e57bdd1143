// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package walk finds test case documents in a directory tree.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDir is returned by [Walk] when the root is not a directory.
var ErrNotDir = errors.New("not a directory")

// Filter selects files by name. Both checks are case-sensitive.
type Filter struct {
	Prefix string
	Suffix string
}

// DefaultFilter selects test case documents: TC*.txt.
var DefaultFilter = Filter{Prefix: "TC", Suffix: ".txt"}

// Match reports whether name starts with f.Prefix and ends with f.Suffix.
func (f Filter) Match(name string) bool {
	return strings.HasPrefix(name, f.Prefix) && strings.HasSuffix(name, f.Suffix)
}

// Hidden reports whether name is a hidden file or directory.
func Hidden(name string) bool { return strings.HasPrefix(name, ".") }

// Visitor receives the results of [Walk].
type Visitor interface {
	// Dir is called when Walk enters a directory, before any of its files.
	Dir(path string) error
	// File is called for each selected file.
	File(path string) error
	// Error is called when a directory below the root can't be read or a
	// symlink can't be resolved. The entry is skipped. Returning a non-nil
	// error stops the walk.
	Error(path string, err error) error
}

// Walk walks the tree rooted at root top-down. For each directory it calls
// v.Dir, then v.File for every selected file in lexical order, and then
// descends into subdirectories in lexical order.
//
// Entries whose names start with "." are neither selected nor descended into.
// Selected files are regular files or symlinks to regular files; symlinks to
// directories are not followed.
//
// An error from v.Dir or v.File stops the walk and is returned. The context is
// checked before each file, so cancellation never interrupts v.File.
func Walk(ctx context.Context, root string, f Filter, v Visitor) error {
	fi, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDir)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	return walkDir(ctx, root, entries, f, v)
}

func walkDir(ctx context.Context, dir string, entries []fs.DirEntry, f Filter, v Visitor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.Dir(dir); err != nil {
		return err
	}

	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		if Hidden(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if e.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !f.Match(name) {
			continue
		}
		ok, err := isRegular(e, path)
		if err != nil {
			if err := v.Error(path, err); err != nil {
				return err
			}
			continue
		}
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.File(path); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		entries, err := os.ReadDir(sub)
		if err != nil {
			if err := v.Error(sub, err); err != nil {
				return err
			}
			continue
		}
		if err := walkDir(ctx, sub, entries, f, v); err != nil {
			return err
		}
	}
	return nil
}

func isRegular(e fs.DirEntry, path string) (bool, error) {
	typ := e.Type()
	if typ.IsRegular() {
		return true, nil
	}
	if typ&fs.ModeSymlink == 0 {
		return false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}
