// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/reheader/marker"
	"go.astrophena.name/reheader/testutil"
)

func TestRewrite(t *testing.T) {
	cases := map[string]struct {
		tmpl  string
		lines []string
		at    int
		want  string
	}{
		"replaces everything before marker": {
			tmpl:  "NEW HEADER\n",
			lines: []string{"old\n", "junk\n", "Requirements:\n", "step 1\n"},
			at:    3,
			want:  "NEW HEADER\n\nRequirements:\nstep 1\n",
		},
		"marker on first line": {
			tmpl:  "H\n",
			lines: []string{"REQUIREMENTS\n", "x\n"},
			at:    1,
			want:  "H\n\nREQUIREMENTS\nx\n",
		},
		"marker on last line without newline": {
			tmpl:  "H\n",
			lines: []string{"a\n", "requirements"},
			at:    2,
			want:  "H\n\nrequirements",
		},
		"multi-line template": {
			tmpl:  "Title: x\nAuthor: y\n",
			lines: []string{"Title: old\n", "REQUIREMENTS\n"},
			at:    2,
			want:  "Title: x\nAuthor: y\n\nREQUIREMENTS\n",
		},
		"template without trailing newline": {
			tmpl:  "H",
			lines: []string{"old\n", "REQUIREMENTS\n"},
			at:    2,
			want:  "H\nREQUIREMENTS\n",
		},
		"empty template": {
			tmpl:  "",
			lines: []string{"old\n", "REQUIREMENTS\n"},
			at:    2,
			want:  "\nREQUIREMENTS\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Rewrite(New([]byte(tc.tmpl)), tc.lines, tc.at)
			testutil.AssertEqual(t, string(got), tc.want)
		})
	}
}

func TestRewriteOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Rewrite did not panic")
		}
	}()
	Rewrite(New([]byte("H\n")), []string{"a\n"}, marker.NotFound)
}

func TestTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.txt")
	testutil.WriteFile(t, path, []byte("Line 1\nLine 2\n"))

	tmpl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(tmpl.Bytes()), "Line 1\nLine 2\n")
	testutil.AssertEqual(t, tmpl.Lines(), []string{"Line 1\n", "Line 2\n"})
	testutil.AssertEqual(t, tmpl.Contains(marker.Token), false)
	testutil.AssertEqual(t, New([]byte("See requirements\n")).Contains(marker.Token), true)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load(missing) = %v, want fs.ErrNotExist", err)
	}
}

func TestReplace(t *testing.T) {
	dir := t.TempDir()
	tmpl := New([]byte("NEW HEADER\n"))

	t.Run("rewrites", func(t *testing.T) {
		path := filepath.Join(dir, "TC1.txt")
		testutil.WriteFile(t, path, []byte("old\njunk\nRequirements:\nstep 1\n"))

		r := &Replacer{Template: tmpl}
		res, err := r.Replace(path)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, testutil.ReadFile(t, path), "NEW HEADER\n\nRequirements:\nstep 1\n")
		testutil.AssertEqual(t, res.Line, 3)
		testutil.AssertEqual(t, res.OldSize, 30)
		testutil.AssertEqual(t, res.NewSize, 33)
		testutil.AssertEqual(t, res.Diff, "")
	})

	t.Run("missing marker leaves file untouched", func(t *testing.T) {
		path := filepath.Join(dir, "TC2.txt")
		testutil.WriteFile(t, path, []byte("a\nb\n"))

		r := &Replacer{Template: tmpl}
		res, err := r.Replace(path)
		if !errors.Is(err, ErrMissingMarker) {
			t.Fatalf("Replace() = %v, want ErrMissingMarker", err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q does not name the file", err)
		}
		testutil.AssertEqual(t, res, (*Result)(nil))
		testutil.AssertEqual(t, testutil.ReadFile(t, path), "a\nb\n")
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "TC3.txt")
		testutil.WriteFile(t, path, nil)

		r := &Replacer{Template: tmpl}
		if _, err := r.Replace(path); !errors.Is(err, ErrMissingMarker) {
			t.Fatalf("Replace() = %v, want ErrMissingMarker", err)
		}
		testutil.AssertEqual(t, testutil.ReadFile(t, path), "")
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(dir, "TC4.txt")
		testutil.WriteFile(t, path, []byte("Title\nOwner\n\nREQUIREMENTS\n1. a\nRequirements again\n"))

		r := &Replacer{Template: New([]byte("Title: new\n"))}
		if _, err := r.Replace(path); err != nil {
			t.Fatal(err)
		}
		once := testutil.ReadFile(t, path)
		if _, err := r.Replace(path); err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, testutil.ReadFile(t, path), once)
		testutil.AssertEqual(t, once, "Title: new\n\nREQUIREMENTS\n1. a\nRequirements again\n")
	})

	t.Run("custom token", func(t *testing.T) {
		path := filepath.Join(dir, "TC5.txt")
		testutil.WriteFile(t, path, []byte("x\nREQUIREMENTS\nProcedure\n"))

		r := &Replacer{Template: tmpl, Token: "procedure"}
		if _, err := r.Replace(path); err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, testutil.ReadFile(t, path), "NEW HEADER\n\nProcedure\n")
	})

	t.Run("keeps permissions", func(t *testing.T) {
		path := filepath.Join(dir, "TC6.txt")
		testutil.WriteFile(t, path, []byte("x\nREQUIREMENTS\n"))
		if err := os.Chmod(path, 0o600); err != nil {
			t.Fatal(err)
		}

		r := &Replacer{Template: tmpl}
		if _, err := r.Replace(path); err != nil {
			t.Fatal(err)
		}
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, fi.Mode().Perm(), os.FileMode(0o600))
	})

	t.Run("missing file", func(t *testing.T) {
		r := &Replacer{Template: tmpl}
		if _, err := r.Replace(filepath.Join(dir, "nope.txt")); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("Replace() = %v, want fs.ErrNotExist", err)
		}
	})
}

func TestReplaceDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TC1.txt")
	const orig = "old\njunk\nRequirements:\nstep 1\n"
	testutil.WriteFile(t, path, []byte(orig))

	r := &Replacer{Template: New([]byte("NEW HEADER\n")), DryRun: true}
	res, err := r.Replace(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, testutil.ReadFile(t, path), orig)
	for _, want := range []string{"--- " + path, "+++ " + path, "-old\n", "-junk\n", "+NEW HEADER\n", " Requirements:\n"} {
		if !strings.Contains(res.Diff, want) {
			t.Errorf("diff must contain %q, got:\n%s", want, res.Diff)
		}
	}
}

func TestWriters(t *testing.T) {
	cases := map[string]Writer{
		"overwrite": Overwrite,
		"atomic":    Atomic,
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "TC1.txt")
			testutil.WriteFile(t, path, []byte("a long old header\nREQUIREMENTS\n"))

			r := &Replacer{Template: New([]byte("H\n")), Writer: w}
			if _, err := r.Replace(path); err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, testutil.ReadFile(t, path), "H\n\nREQUIREMENTS\n")
		})
	}

	for name, w := range cases {
		t.Run(name+" through symlink", func(t *testing.T) {
			dir := t.TempDir()
			target := filepath.Join(dir, "real.txt")
			link := filepath.Join(dir, "TC1.txt")
			testutil.WriteFile(t, target, []byte("old\nREQUIREMENTS\n"))
			if err := os.Symlink("real.txt", link); err != nil {
				t.Skipf("symlinks not supported: %v", err)
			}

			r := &Replacer{Template: New([]byte("H\n")), Writer: w}
			if _, err := r.Replace(link); err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, testutil.ReadFile(t, target), "H\n\nREQUIREMENTS\n")
			fi, err := os.Lstat(link)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, fi.Mode()&fs.ModeSymlink != 0, true)
		})
	}

	t.Run("error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "TC1.txt")
		testutil.WriteFile(t, path, []byte("REQUIREMENTS\n"))

		errDiskFull := errors.New("disk full")
		r := &Replacer{
			Template: New([]byte("H\n")),
			Writer: WriterFunc(func(string, []byte) error {
				return errDiskFull
			}),
		}
		if _, err := r.Replace(path); !errors.Is(err, errDiskFull) {
			t.Fatalf("Replace() = %v, want %v", err, errDiskFull)
		}
	})
}
