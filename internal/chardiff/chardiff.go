// Package chardiff implements the intra-line character diff codec (C2):
// converting a pair of single lines to/from the a/d/e/x commands defined in
// internal/format, and applying or inverting those commands. It is the
// building block the line-level codec (C3) delegates to whenever a changed
// line is worth expressing as a character edit instead of a whole-line
// replace.
package chardiff

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"cdiff/internal/diffengine"
	"cdiff/internal/format"
)

// Mode selects the unit a line is diffed over.
type Mode int

const (
	Text   Mode = iota // diff over Unicode runes
	Binary             // diff over raw bytes, content carried as base64
)

// Options configures CreatePatch.
type Options struct {
	Mode              Mode
	Strategy          string // diffengine strategy name; defaults to diffengine.Myers
	IncludeCharEquals bool
	Unsafe            bool // emit x/x* instead of d/d* (no anchor content, not invertible)
}

// groupGapMax is the grouping law threshold from spec.md §8: an equal run of
// this length or shorter, sandwiched between two edits, is folded into them
// rather than left as a stable gap.
const groupGapMax = 4

// CreatePatch converts oldLine -> newLine into the char commands anchored at
// lineNumber. It returns at most one d command (all deletions), at most one
// a command (all additions), and — if opts.IncludeCharEquals is set — one e
// command enumerating the surviving equal runs.
func CreatePatch(oldLine, newLine string, lineNumber int, opts Options) []format.Command {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = diffengine.Myers
	}

	var oldUnits, newUnits []string
	var ops []diffengine.Op
	if opts.Mode == Binary {
		oldUnits, newUnits = explodeBytes(oldLine), explodeBytes(newLine)
		ops = diffengine.Bytes(strategy, oldLine, newLine)
	} else {
		oldUnits, newUnits = explodeRunes(oldLine), explodeRunes(newLine)
		ops = diffengine.Runes(strategy, oldLine, newLine)
	}

	ops = mergeShortEqualGaps(ops, groupGapMax)

	var delSegs, addSegs, eqSegs []format.Segment
	for _, op := range ops {
		switch op.Tag {
		case 'd', 'r':
			if op.I2 > op.I1 {
				if opts.Unsafe {
					delSegs = append(delSegs, format.Segment{Index: op.I1, Length: op.I2 - op.I1})
				} else {
					delSegs = append(delSegs, newSegment(op.I1, op.I2, oldUnits, opts.Mode, true))
				}
			}
		}
		switch op.Tag {
		case 'i', 'r':
			if op.J2 > op.J1 {
				addSegs = append(addSegs, newSegment(op.J1, op.J2, newUnits, opts.Mode, true))
			}
		}
		if opts.IncludeCharEquals && op.Tag == 'e' && op.I2 > op.I1 {
			eqSegs = append(eqSegs, newSegment(op.I1, op.I2, oldUnits, opts.Mode, true))
		}
	}

	var cmds []format.Command
	if len(delSegs) > 0 {
		op := format.OpCharDel
		if opts.Unsafe {
			op = format.OpCharRaw
		}
		cmds = append(cmds, format.Command{Coord: []int{lineNumber}, Op: op, Segments: delSegs})
	}
	if len(addSegs) > 0 {
		cmds = append(cmds, format.Command{Coord: []int{lineNumber}, Op: format.OpCharAdd, Segments: addSegs})
	}
	if opts.IncludeCharEquals && len(eqSegs) > 0 {
		cmds = append(cmds, format.Command{Coord: []int{lineNumber}, Op: format.OpCharEqual, Segments: eqSegs})
	}
	return cmds
}

// newSegment builds a content-bearing Segment for units[i1:i2), encoding to
// base64 in binary mode. Length is the unit count of the *encoded* content
// (runes of the base64 string in binary mode). Unsafe x segments skip this
// entirely and are built directly from the raw span length (see
// CreatePatch), since they carry no content to encode.
func newSegment(i1, i2 int, units []string, mode Mode, hasContent bool) format.Segment {
	raw := strings.Join(units[i1:i2], "")
	content := raw
	length := i2 - i1
	if mode == Binary {
		content = base64.StdEncoding.EncodeToString([]byte(raw))
		length = len([]rune(content))
	}
	return format.Segment{Index: i1, Length: length, Content: content, HasContent: hasContent}
}

// mergeShortEqualGaps folds equal runs of length <= maxGap that sit between
// two non-equal ops into those ops, producing a single replace-shaped op
// that spans both edits and the bridged equal run. Repeats until no more
// merges apply, since a merge can expose a new short gap.
func mergeShortEqualGaps(ops []diffengine.Op, maxGap int) []diffengine.Op {
	for {
		merged, changed := mergeOncePass(ops, maxGap)
		ops = merged
		if !changed {
			return ops
		}
	}
}

func mergeOncePass(ops []diffengine.Op, maxGap int) ([]diffengine.Op, bool) {
	var out []diffengine.Op
	changed := false
	i := 0
	for i < len(ops) {
		if i > 0 && i+1 < len(ops) {
			prev := out[len(out)-1]
			cur := ops[i]
			next := ops[i+1]
			if cur.Tag == 'e' && (cur.I2-cur.I1) <= maxGap && prev.Tag != 'e' && next.Tag != 'e' {
				merged := diffengine.Op{
					Tag: mergedTag(prev, next),
					I1:  prev.I1, I2: next.I2,
					J1: prev.J1, J2: next.J2,
				}
				out[len(out)-1] = merged
				i += 2
				changed = true
				continue
			}
		}
		out = append(out, ops[i])
		i++
	}
	return out, changed
}

// mergedTag is the tag of an op spanning a, the bridged equal run and b. The
// bridged run is deleted from the old line and re-inserted into the new one,
// so the merged op is a replace whatever a and b were.
func mergedTag(a, b diffengine.Op) byte {
	return 'r'
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	Mode   Mode
	Strict bool // anchor mismatches are fatal instead of warn+drop
}

// Apply reconstructs a line from originalLine plus its char commands,
// following the three-step algorithm from spec.md §4.2: verify and apply
// deletions to build an intermediate string, then interleave additions back
// in by final index. Commands must share the same Mode as originalLine's
// encoding; warnings are returned for dropped (lenient) anchor mismatches.
func Apply(originalLine string, cmds []format.Command, opts ApplyOptions) (string, []string, error) {
	var units []string
	if opts.Mode == Binary {
		units = explodeBytes(originalLine)
	} else {
		units = explodeRunes(originalLine)
	}

	deleted := make([]bool, len(units))
	var warnings []string

	for _, cmd := range cmds {
		if base := format.BaseOp(cmd.Op); base != format.OpCharDel && base != format.OpCharRaw {
			continue
		}
		unsafe := format.BaseOp(cmd.Op) == format.OpCharRaw
		for _, seg := range cmd.Segments {
			lo, hi := seg.Index, seg.Index+seg.Length
			if opts.Mode == Binary && !unsafe {
				// Length counts the base64 characters of the content; the
				// span it deletes is the decoded byte count.
				if decoded, err := base64.StdEncoding.DecodeString(seg.Content); err == nil {
					hi = lo + len(decoded)
				}
			}
			if lo < 0 || hi > len(units) || lo > hi {
				msg := fmt.Sprintf("chardiff: delete segment [%d,%d) out of bounds (line has %d units)", lo, hi, len(units))
				if opts.Strict {
					return "", warnings, errors.New(msg)
				}
				warnings = append(warnings, msg)
				continue
			}
			if !unsafe {
				span := strings.Join(units[lo:hi], "")
				declared := seg.Content
				if opts.Mode == Binary {
					decoded, err := base64.StdEncoding.DecodeString(seg.Content)
					if err != nil {
						msg := fmt.Sprintf("chardiff: invalid base64 delete content at index %d: %v", seg.Index, err)
						if opts.Strict {
							return "", warnings, errors.New(msg)
						}
						warnings = append(warnings, msg)
						continue
					}
					declared = string(decoded)
				}
				if span != declared {
					msg := fmt.Sprintf("chardiff: anchor mismatch at index %d: source has %q, patch expected %q", seg.Index, span, declared)
					if opts.Strict {
						return "", warnings, errors.New(msg)
					}
					warnings = append(warnings, msg)
					continue
				}
			}
			for k := lo; k < hi; k++ {
				deleted[k] = true
			}
		}
	}

	var intermediate []string
	for i, u := range units {
		if !deleted[i] {
			intermediate = append(intermediate, u)
		}
	}

	addMap := map[int]string{}
	var addKeys []int
	for _, cmd := range cmds {
		if format.BaseOp(cmd.Op) != format.OpCharAdd {
			continue
		}
		for _, seg := range cmd.Segments {
			content := seg.Content
			if opts.Mode == Binary {
				decoded, err := base64.StdEncoding.DecodeString(seg.Content)
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("chardiff: invalid base64 add content at index %d: %v", seg.Index, err))
					continue
				}
				content = string(decoded)
			}
			if _, ok := addMap[seg.Index]; !ok {
				addKeys = append(addKeys, seg.Index)
			}
			addMap[seg.Index] += content
		}
	}

	var result strings.Builder
	finalIndex := 0
	interPos := 0
	emitted := make(map[int]bool, len(addKeys))
	for interPos < len(intermediate) {
		if c, ok := addMap[finalIndex]; ok && !emitted[finalIndex] {
			result.WriteString(c)
			emitted[finalIndex] = true
			if opts.Mode == Binary {
				finalIndex += len(c)
			} else {
				finalIndex += len([]rune(c))
			}
			continue
		}
		result.WriteString(intermediate[interPos])
		interPos++
		finalIndex++
	}
	for _, k := range addKeys {
		if !emitted[k] {
			result.WriteString(addMap[k])
			emitted[k] = true
		}
	}

	return result.String(), warnings, nil
}

// Invert swaps a <-> d commands, preserving segment content and indices
// literally (the spec does not require recomputing offsets: an inverted
// char patch's d segments describe what the forward patch's a segments
// added, anchored at the position they occupy in the forward-applied
// line, and vice versa). x/x* commands cannot be inverted since they carry
// no content to become the other side's anchor.
func Invert(cmds []format.Command) ([]format.Command, error) {
	out := make([]format.Command, 0, len(cmds))
	for _, cmd := range cmds {
		switch format.BaseOp(cmd.Op) {
		case format.OpCharAdd:
			inv := cmd
			inv.Op = swapGroupSuffix(cmd.Op, format.OpCharDel)
			out = append(out, inv)
		case format.OpCharDel:
			inv := cmd
			inv.Op = swapGroupSuffix(cmd.Op, format.OpCharAdd)
			out = append(out, inv)
		case format.OpCharEqual:
			out = append(out, cmd)
		case format.OpCharRaw:
			return nil, fmt.Errorf("chardiff: cannot invert unsafe command (no anchor content): %s", format.SerializeHeader(cmd, format.Decimal))
		default:
			out = append(out, cmd)
		}
	}
	return out, nil
}

func swapGroupSuffix(op, base string) string {
	if format.IsGrouped(op) {
		return base + "*"
	}
	return base
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
