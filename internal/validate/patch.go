// Package validate performs lightweight, dependency-free validation of
// parsed patches. It is not a full grammar re-checker — parsing already
// rejects or flags malformed lines — instead it checks the structural and
// semantic invariants createPatch is supposed to guarantee but a
// hand-written or mutated patch might violate.
//
// Goals:
//   - No external dependencies beyond this module's own packages
//   - Aggregate multiple issues into a single error for better UX
//   - Deterministic, strict-enough checks without being overbearing
package validate

import (
	"fmt"
	"sort"

	"cdiff/internal/format"
)

// Commands validates a parsed command stream against the invariants
// SPEC_FULL.md §8 documents:
//
//   - Coordinates are non-negative; block headers declare Count >= 0.
//   - A block command's Content length matches Count, unless it was marked
//     Truncated by the parser (already diagnosed there, so it is not
//     reported again here).
//   - X+ blocks carry no content.
//   - Char-command segments are sorted by Index and non-overlapping.
//   - x/x* segments carry no content; every other char segment does.
//
// Returns nil if everything checks out, or one aggregated error describing
// every issue found.
func Commands(cmds []format.Command) error {
	var errs format.DiagList

	for i, cmd := range cmds {
		if cmd.RawPass {
			continue
		}
		prefix := fmt.Sprintf("command[%d] (%s)", i, format.SerializeHeader(cmd, format.Decimal))

		for _, c := range cmd.Coord {
			if c < 0 {
				errs.Addf("%s: coordinate must be non-negative, got %d", prefix, c)
			}
		}
		if !sort.IntsAreSorted(cmd.Coord) {
			errs.Addf("%s: coordinate list must be ascending", prefix)
		}

		if format.IsBlock(cmd.Op) {
			if cmd.Count < 0 {
				errs.Addf("%s: block count must be non-negative, got %d", prefix, cmd.Count)
			}
			if cmd.Op == format.OpDelRawBlk && len(cmd.Content) != 0 {
				errs.Addf("%s: X+ must not carry content, found %d lines", prefix, len(cmd.Content))
			} else if cmd.Op != format.OpDelRawBlk && !cmd.Truncated && len(cmd.Content) != cmd.Count {
				errs.Addf("%s: declared count %d does not match %d content lines", prefix, cmd.Count, len(cmd.Content))
			}
		}

		if format.IsChar(cmd.Op) {
			validateSegments(&errs, prefix, cmd.Op, cmd.Segments)
		}
	}

	return errs.Err()
}

func validateSegments(errs *format.DiagList, prefix, op string, segs []format.Segment) {
	wantContent := format.HasContentOp(op)
	prevEnd := -1
	for j, s := range segs {
		if s.Index < 0 || s.Length < 0 {
			errs.Addf("%s: segment[%d] has negative index/length (%d/%d)", prefix, j, s.Index, s.Length)
			continue
		}
		if s.Index < prevEnd {
			errs.Addf("%s: segment[%d] at index %d overlaps the previous segment ending at %d", prefix, j, s.Index, prevEnd)
		}
		if s.HasContent != wantContent {
			errs.Addf("%s: segment[%d] content presence (%v) does not match opcode %q", prefix, j, s.HasContent, op)
		}
		prevEnd = s.Index + s.Length
	}
}
