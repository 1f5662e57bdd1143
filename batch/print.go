// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printer writes diagnostics for humans.
type printer struct {
	w       io.Writer
	red     *color.Color
	green   *color.Color
	yellow  *color.Color
	heading *color.Color
}

func newPrinter(w io.Writer, useColor bool) *printer {
	p := &printer{
		w:       w,
		red:     color.New(color.FgRed, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		heading: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.red, p.green, p.yellow, p.heading} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) errorf(format string, args ...any) {
	p.red.Fprint(p.w, "ERROR:")
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func (p *printer) diff(d string) {
	for line := range strings.Lines(d) {
		text, nl := strings.CutSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"), strings.HasPrefix(text, "@@"):
			p.heading.Fprint(p.w, text)
		case strings.HasPrefix(text, "+"):
			p.green.Fprint(p.w, text)
		case strings.HasPrefix(text, "-"):
			p.red.Fprint(p.w, text)
		default:
			fmt.Fprint(p.w, text)
		}
		if nl {
			fmt.Fprint(p.w, "\n")
		}
	}
}

func (p *printer) summary(r *Report) {
	c := p.green
	if !r.Clean() {
		c = p.yellow
	}
	c.Fprintln(p.w, r.String())
}
