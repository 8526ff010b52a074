// Package textutil provides the line-ending and joining helpers the patch
// codec needs before it ever looks at a diff: normalizing input to LF and
// tracking/restoring a trailing newline so round trips are idempotent about
// it (spec.md §8, "Trailing-newline idempotence").
package textutil

import (
	"bytes"
	"strings"
)

// NormalizeUTF8LF converts CRLF to LF and ensures the output is valid UTF-8
// by replacing invalid byte sequences with the Unicode replacement
// character. It works over []byte; the patch codec itself (text and binary
// mode alike) normalizes its string inputs with NormalizeLF.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}

// JoinWithSingleNL concatenates chunks, inserting a single '\n' between
// chunks when the previous chunk does not end with '\n'.
func JoinWithSingleNL(chunks ...[]byte) []byte {
	if len(chunks) == 0 {
		return nil
	}
	var out []byte
	for i, c := range chunks {
		if i > 0 && len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		out = append(out, c...)
	}
	return out
}

// NormalizeLF is NormalizeUTF8LF's string-mode counterpart: it converts CRLF
// and lone CR line endings to LF, the normalization createPatch performs on
// both inputs before handing them to the line-level diff engine.
func NormalizeLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// SplitLines splits s on '\n' without keeping the separator. A trailing
// newline is not represented as a final empty element; pair this with
// HasTrailingNewline to track that bit separately.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(s, "\n")
	return strings.Split(trimmed, "\n")
}

// HasTrailingNewline reports whether s ends with '\n' (false for the empty
// string, which has no lines at all).
func HasTrailingNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}

// JoinLinesPreserving is the inverse of SplitLines, appending a trailing
// '\n' only when trailingNewline is set, so callers can make the output
// match whatever the source text did.
func JoinLinesPreserving(lines []string, trailingNewline bool) string {
	if len(lines) == 0 {
		if trailingNewline {
			return "\n"
		}
		return ""
	}
	joined := strings.Join(lines, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return joined
}
