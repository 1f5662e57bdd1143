// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header replaces the header section of test case documents with
// the contents of a template.
//
// The header section of a document is everything before the first line that
// contains the marker (see package [go.astrophena.name/reheader/marker]).
// After a rewrite the document consists of the template, one blank line, and
// the original lines starting at the marker line.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pmezard/go-difflib/difflib"

	"go.astrophena.name/reheader/marker"
)

// ErrMissingMarker is returned by [Replacer.Replace] when a document has no
// marker line. Such documents are left untouched.
var ErrMissingMarker = errors.New("marker not found")

// Template is a header template. It is immutable once loaded.
type Template struct {
	data  []byte
	lines []string
}

// New returns a Template with the given contents.
func New(data []byte) *Template {
	data = bytes.Clone(data)
	return &Template{data: data, lines: marker.Split(data)}
}

// Load reads a Template from the file at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(data), nil
}

// Bytes returns the template contents. The caller must not modify them.
func (t *Template) Bytes() []byte { return t.data }

// Lines returns the template split into lines.
func (t *Template) Lines() []string { return t.lines }

// Contains reports whether the template itself has a line with token.
// Rewriting with such a template is not idempotent: the next run would cut
// the document at the template's own marker line.
func (t *Template) Contains(token string) bool {
	return marker.Locate(t.lines, token) != marker.NotFound
}

// Rewrite returns the template, followed by a newline, followed by lines
// starting at the 1-based line number at. The line at is kept.
//
// It panics if at is out of range; at should come from [marker.Locate].
func Rewrite(t *Template, lines []string, at int) []byte {
	if at < 1 || at > len(lines) {
		panic(fmt.Sprintf("header: line %d out of range [1, %d]", at, len(lines)))
	}
	size := len(t.data) + 1
	for _, l := range lines[at-1:] {
		size += len(l)
	}
	var buf bytes.Buffer
	buf.Grow(size)
	buf.Write(t.data)
	buf.WriteByte('\n')
	for _, l := range lines[at-1:] {
		buf.WriteString(l)
	}
	return buf.Bytes()
}

// Writer replaces the whole contents of a file.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// WriterFunc is an adapter to allow the use of ordinary functions as a Writer.
type WriterFunc func(path string, data []byte) error

// WriteFile calls f(path, data).
func (f WriterFunc) WriteFile(path string, data []byte) error { return f(path, data) }

// Overwrite truncates the file and writes data in place. Permissions of an
// existing file are kept. A crash in the middle of the write can lose data.
var Overwrite Writer = WriterFunc(func(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
})

// Atomic writes data to a temporary file in the same directory and renames it
// over path, so readers see either the old or the new contents. If path is a
// symlink, its target is replaced and the link is kept.
var Atomic Writer = WriterFunc(func(path string, data []byte) error {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		path = p
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
})

// Replacer rewrites documents with a template.
type Replacer struct {
	// Template is the new header. Required.
	Template *Template
	// Token is the marker to look for. Empty means marker.Token.
	Token string
	// Writer writes rewritten documents. Nil means Overwrite.
	Writer Writer
	// DryRun, if true, makes Replace compute the change and its diff
	// without writing anything.
	DryRun bool
}

// Result describes a rewritten (or, in dry-run mode, rewritable) document.
type Result struct {
	// Path is the document path.
	Path string
	// Line is the 1-based number of the marker line in the original document.
	Line int
	// OldSize and NewSize are document sizes in bytes before and after.
	OldSize, NewSize int
	// Diff is a unified diff of the change. Only set in dry-run mode.
	Diff string
}

// Replace rewrites the document at path.
//
// The document is read once, and that snapshot is used both to find the
// marker and to build the new contents. If the document has no marker, it
// returns an error wrapping ErrMissingMarker and writes nothing.
func (r *Replacer) Replace(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := marker.Split(content)
	at := marker.Locate(lines, r.Token)
	if at == marker.NotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingMarker)
	}

	out := Rewrite(r.Template, lines, at)
	res := &Result{
		Path:    path,
		Line:    at,
		OldSize: len(content),
		NewSize: len(out),
	}

	if r.DryRun {
		res.Diff, err = diff(path, content, out)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	w := r.Writer
	if w == nil {
		w = Overwrite
	}
	if err := w.WriteFile(path, out); err != nil {
		return nil, err
	}
	return res, nil
}

func diff(path string, before, after []byte) (string, error) {
	if bytes.Equal(before, after) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
}
