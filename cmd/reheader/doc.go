// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Reheader replaces the headers of test case documents.

It walks a directory tree and rewrites every file whose name starts with
"TC" and ends with ".txt". Everything before the first line containing
"REQUIREMENTS" (in any case) is replaced with the contents of a header
template, followed by one blank line. The REQUIREMENTS line and everything
after it are kept as is.

Documents without a REQUIREMENTS line are reported and left untouched.
Hidden files and directories (starting with ".") are ignored.

Usage:

	$ reheader [flags] [directory]

The header template is read from header.txt in the current directory, unless
-header is given. If no directory is given and reheader runs in a terminal,
it asks for one.

Settings can also be read from a TOML file passed with -config:

	root = "docs/test-cases"
	header = "templates/header.txt"
	marker = "REQUIREMENTS"
	prefix = "TC"
	suffix = ".txt"
	dry = false
	atomic = false
	strict = false
	color = "auto"

Flags given on the command line override the file.

Run with -dry first to see what would change.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/reheader/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
