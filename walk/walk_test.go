// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package walk

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/reheader/testutil"
)

func TestFilter(t *testing.T) {
	cases := map[string]bool{
		"TCfoo.txt":   true,
		"TC.txt":      true,
		"TC_01_a.txt": true,
		"TCfoo.log":   false,
		"foo.txt":     false,
		"tc_foo.txt":  false,
		"TCfoo.TXT":   false,
		"xTCfoo.txt":  false,
		"TCfoo.txt~":  false,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, DefaultFilter.Match(name), want)
		})
	}
}

func TestHidden(t *testing.T) {
	testutil.AssertEqual(t, Hidden(".git"), true)
	testutil.AssertEqual(t, Hidden(".TCfoo.txt"), true)
	testutil.AssertEqual(t, Hidden("TCfoo.txt"), false)
	testutil.AssertEqual(t, Hidden("a.b"), false)
}

// recorder records visits as "kind:path" with paths relative to root.
type recorder struct {
	root   string
	events []string
	// failOn makes File return an error for this relative path.
	failOn string
}

var errStop = errors.New("stop")

func (r *recorder) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		panic(err)
	}
	return filepath.ToSlash(rel)
}

func (r *recorder) Dir(path string) error {
	r.events = append(r.events, "dir:"+r.rel(path))
	return nil
}

func (r *recorder) File(path string) error {
	rel := r.rel(path)
	r.events = append(r.events, "file:"+rel)
	if rel == r.failOn {
		return errStop
	}
	return nil
}

func (r *recorder) Error(path string, err error) error {
	r.events = append(r.events, "error:"+r.rel(path))
	return nil
}

func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		testutil.WriteFile(t, filepath.Join(root, filepath.FromSlash(f)), []byte("REQUIREMENTS\n"))
	}
	return root
}

func TestWalk(t *testing.T) {
	root := makeTree(t,
		"TCa.txt",
		"TCb.log",
		"foo.txt",
		"tc_foo.txt",
		".TChidden.txt",
		".git/TCfoo.txt",
		"TCdir.txt/TCf.txt",
		"sub/TCc.txt",
		"sub/notes.md",
		"sub/.hidden/TCe.txt",
		"sub/deeper/TCd.txt",
		"sub/deeper/TCa.txt",
	)

	r := &recorder{root: root}
	if err := Walk(context.Background(), root, DefaultFilter, r); err != nil {
		t.Fatal(err)
	}

	testutil.AssertEqual(t, r.events, []string{
		"dir:.",
		"file:TCa.txt",
		"dir:TCdir.txt",
		"file:TCdir.txt/TCf.txt",
		"dir:sub",
		"file:sub/TCc.txt",
		"dir:sub/deeper",
		"file:sub/deeper/TCa.txt",
		"file:sub/deeper/TCd.txt",
	})
}

func TestWalkCustomFilter(t *testing.T) {
	root := makeTree(t, "TCa.txt", "case-1.md", "case-2.md", "readme.md")

	r := &recorder{root: root}
	if err := Walk(context.Background(), root, Filter{Prefix: "case-", Suffix: ".md"}, r); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, r.events, []string{"dir:.", "file:case-1.md", "file:case-2.md"})
}

func TestWalkSymlinks(t *testing.T) {
	root := makeTree(t, "TCa.txt", "dir/TCb.txt")
	for link, target := range map[string]string{
		"TClink.txt":    "TCa.txt",
		"TCdirlink.txt": "dir",
		"TCbroken.txt":  "nowhere.txt",
		"linkdir":       "dir",
	} {
		if err := os.Symlink(target, filepath.Join(root, link)); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	r := &recorder{root: root}
	if err := Walk(context.Background(), root, DefaultFilter, r); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, r.events, []string{
		"dir:.",
		"file:TCa.txt",
		"error:TCbroken.txt",
		"file:TClink.txt",
		"dir:dir",
		"file:dir/TCb.txt",
	})
}

func TestWalkUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := makeTree(t, "a/TC1.txt", "b/TC2.txt")
	locked := filepath.Join(root, "a")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	r := &recorder{root: root}
	if err := Walk(context.Background(), root, DefaultFilter, r); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, r.events, []string{"dir:.", "error:a", "dir:b", "file:b/TC2.txt"})
}

func TestWalkErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), DefaultFilter, &recorder{})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("Walk() = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		root := makeTree(t, "TC1.txt")
		err := Walk(context.Background(), filepath.Join(root, "TC1.txt"), DefaultFilter, &recorder{})
		if !errors.Is(err, ErrNotDir) {
			t.Fatalf("Walk() = %v, want ErrNotDir", err)
		}
	})

	t.Run("visitor error stops walk", func(t *testing.T) {
		root := makeTree(t, "TC1.txt", "TC2.txt", "sub/TC3.txt")
		r := &recorder{root: root, failOn: "TC1.txt"}
		err := Walk(context.Background(), root, DefaultFilter, r)
		if !errors.Is(err, errStop) {
			t.Fatalf("Walk() = %v, want %v", err, errStop)
		}
		testutil.AssertEqual(t, r.events, []string{"dir:.", "file:TC1.txt"})
	})

	t.Run("canceled context", func(t *testing.T) {
		root := makeTree(t, "TC1.txt")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := &recorder{root: root}
		err := Walk(ctx, root, DefaultFilter, r)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Walk() = %v, want context.Canceled", err)
		}
		testutil.AssertEqual(t, len(r.events), 0)
	})
}
