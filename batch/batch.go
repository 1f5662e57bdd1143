// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package batch rewrites the headers of all test case documents in a
// directory tree.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"go.astrophena.name/reheader/config"
	"go.astrophena.name/reheader/header"
	"go.astrophena.name/reheader/logger"
	"go.astrophena.name/reheader/walk"
)

var (
	// ErrHeaderUnavailable is returned when the header template can't be
	// read. No document is touched in that case.
	ErrHeaderUnavailable = errors.New("header template unavailable")
	// ErrUnclean is returned in strict mode when any document was skipped
	// or failed.
	ErrUnclean = errors.New("not all documents were rewritten")
)

// Report summarizes a run.
type Report struct {
	// Dry is true for dry runs.
	Dry bool
	// Dirs is the number of directories visited.
	Dirs int
	// Selected is the number of documents that matched the name filter.
	Selected int
	// Rewritten is the number of documents rewritten (or, in a dry run,
	// that would be rewritten).
	Rewritten int
	// Skipped lists documents without a marker line.
	Skipped []string
	// Failed lists documents and directories that couldn't be read or
	// written.
	Failed []string
}

// Clean reports whether every selected document was rewritten.
func (r *Report) Clean() bool { return len(r.Skipped) == 0 && len(r.Failed) == 0 }

func (r *Report) String() string {
	if r.Dry {
		return fmt.Sprintf("Done (dry run): %d to rewrite, %d skipped, %d failed", r.Rewritten, len(r.Skipped), len(r.Failed))
	}
	return fmt.Sprintf("Done: %d rewritten, %d skipped, %d failed", r.Rewritten, len(r.Skipped), len(r.Failed))
}

// Run rewrites every document selected by cfg, printing human-readable
// diagnostics to w, colored if color is true.
//
// The header template is loaded once, before anything else; if that fails,
// Run returns an error wrapping ErrHeaderUnavailable. Documents without a
// marker and documents that can't be read or written are reported and
// skipped. Run stops early only if the root can't be walked or ctx is
// canceled; the returned report is valid even then.
func Run(ctx context.Context, cfg *config.Config, w io.Writer, color bool) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := header.Load(cfg.Header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeaderUnavailable, err)
	}
	if tmpl.Contains(cfg.Marker) {
		logger.Warn(ctx, "header template contains the marker, rewriting twice will cut documents at it",
			slog.String("header", cfg.Header),
			slog.String("marker", cfg.Marker),
		)
	}

	v := &visitor{
		ctx: ctx,
		cfg: cfg,
		p:   newPrinter(w, color),
		r: &header.Replacer{
			Template: tmpl,
			Token:    cfg.Marker,
			Writer:   writerFor(cfg),
			DryRun:   cfg.Dry,
		},
		report: &Report{Dry: cfg.Dry},
	}

	logger.Debug(ctx, "starting run",
		slog.String("root", cfg.Root),
		slog.String("header", cfg.Header),
		slog.Int("header_lines", len(tmpl.Lines())),
	)
	v.p.printf("Head of tree traversal selected %s\n", cfg.Root)

	if err := walk.Walk(ctx, cfg.Root, walk.Filter{Prefix: cfg.Prefix, Suffix: cfg.Suffix}, v); err != nil {
		return v.report, err
	}
	v.p.summary(v.report)

	if cfg.Strict && !v.report.Clean() {
		return v.report, fmt.Errorf("%w: %d skipped, %d failed", ErrUnclean, len(v.report.Skipped), len(v.report.Failed))
	}
	return v.report, nil
}

// writerFor returns the writer used for documents. It's a variable so tests
// can replace it.
var writerFor = func(cfg *config.Config) header.Writer {
	if cfg.Atomic {
		return header.Atomic
	}
	return header.Overwrite
}

// visitor implements walk.Visitor.
type visitor struct {
	ctx    context.Context
	cfg    *config.Config
	p      *printer
	r      *header.Replacer
	report *Report
}

func (v *visitor) Dir(path string) error {
	v.report.Dirs++
	v.p.printf("Found directory: %s\n", path)
	return nil
}

func (v *visitor) File(path string) error {
	v.report.Selected++
	v.p.printf("\tReplacing header for %s\n", filepath.Base(path))

	res, err := v.r.Replace(path)
	switch {
	case errors.Is(err, header.ErrMissingMarker):
		v.report.Skipped = append(v.report.Skipped, path)
		v.p.errorf("Could not find %s in %s", v.cfg.Marker, path)
		return nil
	case err != nil:
		v.report.Failed = append(v.report.Failed, path)
		v.p.errorf("%v", err)
		logger.Debug(v.ctx, "document failed", slog.String("path", path), slog.Any("err", err))
		return nil
	}

	v.report.Rewritten++
	logger.Debug(v.ctx, "rewrote header",
		slog.String("path", path),
		slog.Int("marker_line", res.Line),
		slog.Int("old_size", res.OldSize),
		slog.Int("new_size", res.NewSize),
		slog.Bool("dry", v.cfg.Dry),
	)
	if v.cfg.Dry {
		v.p.diff(res.Diff)
	}
	return nil
}

func (v *visitor) Error(path string, err error) error {
	v.report.Failed = append(v.report.Failed, path)
	v.p.errorf("%v", err)
	return nil
}
