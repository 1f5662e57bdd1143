// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config holds the configuration of a reheader run.
//
// A configuration starts from [Default], can be read from a TOML file with
// [Load], and can be adjusted with command-line flags registered by
// [Config.Flags]. Flags set on the command line win over the file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"go.astrophena.name/reheader/marker"
)

// ErrInvalid is returned for configurations that can't be used.
var ErrInvalid = errors.New("invalid configuration")

// Color controls colored output.
type Color string

// Color modes.
const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// String implements [flag.Value].
func (c *Color) String() string { return string(*c) }

// Set implements [flag.Value].
func (c *Color) Set(s string) error {
	switch Color(s) {
	case ColorAuto, ColorAlways, ColorNever:
		*c = Color(s)
		return nil
	}
	return fmt.Errorf("%w: color must be one of auto, always or never, got %q", ErrInvalid, s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Color) UnmarshalText(text []byte) error { return c.Set(string(text)) }

// Enabled reports whether output should be colored, given whether it goes to
// a terminal.
func (c Color) Enabled(terminal bool) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return terminal
}

// Config is the configuration of a run.
type Config struct {
	// Root is the directory to walk.
	Root string `toml:"root"`
	// Header is the path of the header template.
	Header string `toml:"header"`
	// Marker is the token that marks the end of the header section.
	Marker string `toml:"marker"`
	// Prefix and Suffix select documents by file name.
	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`
	// Dry prints the changes instead of writing them.
	Dry bool `toml:"dry"`
	// Atomic writes documents through a temporary file and a rename.
	Atomic bool `toml:"atomic"`
	// Strict makes a run with skipped or failed documents an error.
	Strict bool `toml:"strict"`
	// Color controls colored diagnostics.
	Color Color `toml:"color"`
}

// DefaultHeader is the default header template path, relative to the working
// directory.
const DefaultHeader = "header.txt"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Header: DefaultHeader,
		Marker: marker.Token,
		Prefix: "TC",
		Suffix: ".txt",
		Color:  ColorAuto,
	}
}

// Load reads the TOML file at path into c. Keys missing from the file keep
// their current values. Unknown keys are an error.
func Load(path string, c *Config) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks that c can be used for a run.
func (c *Config) Validate() error {
	switch {
	case c.Header == "":
		return fmt.Errorf("%w: header path is empty", ErrInvalid)
	case strings.TrimSpace(c.Marker) == "":
		return fmt.Errorf("%w: marker is empty", ErrInvalid)
	case c.Prefix == "" && c.Suffix == "":
		return fmt.Errorf("%w: prefix and suffix are both empty", ErrInvalid)
	}
	return c.Color.Set(string(c.Color))
}

// Flags registers flags that set the fields of c, except Root.
func (c *Config) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.Header, "header", c.Header, "Read the new header from `file`.")
	fs.StringVar(&c.Marker, "marker", c.Marker, "Replace everything before the first line containing `token` (case-insensitive).")
	fs.StringVar(&c.Prefix, "prefix", c.Prefix, "Only process files whose names start with `prefix`.")
	fs.StringVar(&c.Suffix, "suffix", c.Suffix, "Only process files whose names end with `suffix`.")
	fs.BoolVar(&c.Dry, "dry", c.Dry, "Print the changes as diffs, without writing files.")
	fs.BoolVar(&c.Atomic, "atomic", c.Atomic, "Write files through a temporary file and a rename.")
	fs.BoolVar(&c.Strict, "strict", c.Strict, "Exit with an error if any file was skipped or failed.")
	fs.Var(&c.Color, "color", "Color diagnostics: `auto`, always or never.")
}

// Override copies to c the fields of src whose flags, as registered by
// [Config.Flags], were set on fs.
func (c *Config) Override(src *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "header":
			c.Header = src.Header
		case "marker":
			c.Marker = src.Marker
		case "prefix":
			c.Prefix = src.Prefix
		case "suffix":
			c.Suffix = src.Suffix
		case "dry":
			c.Dry = src.Dry
		case "atomic":
			c.Atomic = src.Atomic
		case "strict":
			c.Strict = src.Strict
		case "color":
			c.Color = src.Color
		}
	})
}
