// Package diffengine adapts github.com/pmezard/go-difflib's SequenceMatcher
// into the edit-script shape the patch synthesizer (C3) and the char codec
// (C2) consume. The diff algorithm itself is treated as an external
// collaborator by the spec this package implements — this is the concrete
// binding to one, chosen because the teacher repository this module grew
// out of already depends on go-difflib for its own (unified-diff) output.
package diffengine

import (
	difflib "github.com/pmezard/go-difflib/difflib"
)

// Op mirrors difflib.OpCode: Tag is one of 'r' (replace), 'd' (delete),
// 'i' (insert) or 'e' (equal); [I1,I2) indexes the old sequence and
// [J1,J2) indexes the new sequence.
type Op struct {
	Tag    byte
	I1, I2 int
	J1, J2 int
}

// Strategy names accepted by Options.DiffStrategyName. Only Myers has a
// distinct implementation today; Patience and PreserveStructure are
// accepted and routed through the same matcher (see SPEC_FULL.md §4.0) —
// registering genuinely different algorithms is strategy registration,
// which is out of scope for this codec.
const (
	Myers             = "myers"
	Patience          = "patience"
	PreserveStructure = "preserve-structure"
)

// Lines returns the edit script between two line sequences.
func Lines(strategy string, a, b []string) []Op {
	return runMatcher(a, b)
}

// Runes returns the edit script between two strings' rune sequences, used by
// the char-level codec (C2) in text mode. Each rune becomes a single-element
// token, which is all SequenceMatcher needs — it operates on []string
// regardless of what each string represents.
func Runes(strategy string, a, b string) []Op {
	return runMatcher(explodeRunes(a), explodeRunes(b))
}

// Bytes is Runes' binary-mode counterpart: it diffs two strings byte by
// byte, so mode="binary" content can be patched without assuming valid
// UTF-8.
func Bytes(strategy string, a, b string) []Op {
	return runMatcher(explodeBytes(a), explodeBytes(b))
}

func explodeRunes(s string) []string {
	rs := []rune(s)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func explodeBytes(s string) []string {
	out := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[i : i+1]
	}
	return out
}

func runMatcher(a, b []string) []Op {
	m := difflib.NewMatcher(a, b)
	codes := m.GetOpCodes()
	ops := make([]Op, len(codes))
	for i, c := range codes {
		ops[i] = Op{Tag: c.Tag, I1: c.I1, I2: c.I2, J1: c.J1, J2: c.J2}
	}
	if len(ops) == 0 && (len(a) > 0 || len(b) > 0) {
		// Defensive: difflib should always produce at least one op code for
		// non-identical-empty inputs; guard against ever returning an empty
		// script that would silently drop content.
		tag := byte('r')
		switch {
		case len(a) == 0:
			tag = 'i'
		case len(b) == 0:
			tag = 'd'
		}
		ops = []Op{{Tag: tag, I1: 0, I2: len(a), J1: 0, J2: len(b)}}
	}
	return ops
}
