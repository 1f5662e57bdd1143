// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package marker finds the line that ends the header section of a test case
// document.
package marker

import (
	"bytes"
	"strings"
)

// Token is the default marker. A header section ends right before the first
// line that contains it.
const Token = "REQUIREMENTS"

// NotFound is returned by [Locate] when no line contains the marker.
const NotFound = -1

// Locate returns the 1-based number of the first line that contains token,
// ignoring case, or [NotFound]. An empty token means [Token].
//
// The match is a substring match over the whole line, so "PREREQUIREMENTS"
// and "Requirements:" both match.
func Locate(lines []string, token string) int {
	if token == "" {
		token = Token
	}
	token = strings.ToUpper(token)
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line), token) {
			return i + 1
		}
	}
	return NotFound
}

// Split splits content into lines. Each line keeps its "\n" terminator, so
// joining the result gives back content unchanged. Empty content has no
// lines.
func Split(content []byte) []string {
	var lines []string
	for len(content) > 0 {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, string(content))
			break
		}
		lines = append(lines, string(content[:i+1]))
		content = content[i+1:]
	}
	return lines
}
