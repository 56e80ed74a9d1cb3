// Package textutil provides the text check and line splitting used before
// handing file content to a comment grammar.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// IsText reports whether data decodes as UTF-8 text. Empty data is text.
// NUL bytes are valid UTF-8 and do not make content binary.
func IsText(data []byte) bool {
	return utf8.Valid(data)
}

// SplitLines splits content on '\n'. A trailing newline does not produce an
// extra empty line; '\r' is left for the caller to trim.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}
