package format

import (
	"strings"
	"unicode/utf8"
)

// TabWeightedLen returns the tab-weighted length of s: each '\t' counts as
// two units, every other rune counts as one. This is the length unit used
// by "#<len> <literal>" runs inside a parametric string, and is mandatory —
// an implementation using raw rune counts desynchronizes on any patch
// containing tabs.
func TabWeightedLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ParametricElem is one element of a parametric string: either a dictionary
// reference (Ref != "") or a literal run.
type ParametricElem struct {
	Ref     string // dictionary id, e.g. "0", "A"; empty means Literal is used
	Literal string
}

// BuildParametric renders elems back into the "@<id>" / "#<len> <literal>"
// grammar. Every non-empty literal element is escaped with an explicit
// "#<len> " header, whether or not its text could be mistaken for a marker;
// empty literal elements are dropped.
func BuildParametric(elems []ParametricElem, nc NumCodec) string {
	var b strings.Builder
	for _, e := range elems {
		if e.Ref != "" {
			b.WriteByte('@')
			b.WriteString(e.Ref)
			continue
		}
		if e.Literal == "" {
			continue
		}
		b.WriteByte('#')
		b.WriteString(nc.Encode(TabWeightedLen(e.Literal)))
		b.WriteByte(' ')
		b.WriteString(e.Literal)
	}
	return b.String()
}

// ParsePlainOrParametric reports whether s contains an '@' or '#' character
// anywhere; if not, it is a pure literal string and can be used verbatim,
// per the "otherwise-pure literal string is stored verbatim" rule. It does
// not check that the character starts a well-formed token.
func ParsePlainOrParametric(s string) bool {
	return strings.ContainsAny(s, "@#")
}

// ParseParametric decodes a parametric string into its elements. It needs no
// dictionary: literal runs are self-delimiting via their own "#<len> "
// header, so dictionary content length is irrelevant to parsing — only to
// the earlier encoding choice. isIDByte classifies characters that may
// appear in a "@<id>" reference.
func ParseParametric(s string, nc NumCodec, isIDByte func(byte) bool) []ParametricElem {
	var out []ParametricElem
	i := 0
	n := len(s)
	for i < n {
		switch s[i] {
		case '@':
			j := i + 1
			for j < n && isIDByte(s[j]) {
				j++
			}
			if j > i+1 {
				out = append(out, ParametricElem{Ref: s[i+1 : j]})
				i = j
				continue
			}
			// Lone '@' with no following id characters: treat as literal.
			out = append(out, ParametricElem{Literal: "@"})
			i++
		case '#':
			j := i + 1
			for j < n && nc.IsDigit(s[j]) {
				j++
			}
			if j == i+1 || j >= n || s[j] != ' ' {
				// Not a well-formed "#<len> " header; treat '#' as literal.
				out = append(out, ParametricElem{Literal: "#"})
				i++
				continue
			}
			length, err := nc.Decode(s[i+1 : j])
			if err != nil {
				out = append(out, ParametricElem{Literal: "#"})
				i++
				continue
			}
			litStart := j + 1
			litEnd := consumeTabWeighted(s[litStart:], length)
			out = append(out, ParametricElem{Literal: s[litStart : litStart+litEnd]})
			i = litStart + litEnd
		default:
			// Accumulate a run of plain characters.
			j := i
			for j < n && s[j] != '@' && s[j] != '#' {
				j++
			}
			out = append(out, ParametricElem{Literal: s[i:j]})
			i = j
		}
	}
	return out
}

// consumeTabWeighted returns the byte length of the prefix of s whose
// tab-weighted rune length equals target, consuming the rest of s if it runs
// out early (an overrun fallback mirroring the segment tokenizer's).
func consumeTabWeighted(s string, target int) int {
	weight := 0
	i := 0
	for i < len(s) && weight < target {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\t' {
			weight += 2
		} else {
			weight++
		}
		i += size
	}
	return i
}
