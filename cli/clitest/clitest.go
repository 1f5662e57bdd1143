// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides a table-driven harness for testing [cli.App]
// implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/reheader/cli"
)

// Case describes a single run of an application of type T.
type Case[T cli.App] struct {
	// Args are the command-line arguments.
	Args []string
	// Stdin is the standard input. Empty if nil.
	Stdin io.Reader
	// Env holds environment variables visible through cli.Env.Getenv.
	Env map[string]string

	// WantErr, if set, must match the returned error with errors.Is.
	WantErr error
	// WantErrType, if set, must match the returned error with errors.As.
	// It should be a value of the wanted type, for example &MyError{}.
	WantErrType any
	// WantInStdout and WantInStderr must be substrings of the output.
	WantInStdout string
	WantInStderr string
	// WantNothingPrinted requires both stdout and stderr to be empty.
	WantNothingPrinted bool
	// CheckFunc, if set, is called with the application after the run.
	CheckFunc func(*testing.T, T)
}

// Run runs each case in a subtest with a fresh application from setup.
// A case without WantErr or WantErrType must not fail.
func Run[T cli.App](t *testing.T, setup func(*testing.T) T, cases map[string]Case[T]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			var stdout, stderr bytes.Buffer
			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			env := &cli.Env{
				Args:   tc.Args,
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
				Getenv: func(key string) string { return tc.Env[key] },
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr != nil:
				if !errors.Is(err, tc.WantErr) {
					t.Fatalf("want error %v, got %v", tc.WantErr, err)
				}
			case tc.WantErrType != nil:
				target := reflect.New(reflect.TypeOf(tc.WantErrType))
				if !errors.As(err, target.Interface()) {
					t.Fatalf("want error of type %T, got %v", tc.WantErrType, err)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
			}

			if tc.WantNothingPrinted {
				if stdout.Len() > 0 || stderr.Len() > 0 {
					t.Errorf("want nothing printed, got stdout %q and stderr %q", stdout.String(), stderr.String())
				}
			}
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}
			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}
