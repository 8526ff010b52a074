package format

import (
	"fmt"
	"sort"
	"strings"
)

// EncodeRangeList renders a sorted, duplicate-free slice of line numbers as
// a comma-separated list of numbers and inclusive ranges, e.g. [1,2,3,5,8,9]
// -> "1-3,5,8-9". A single-element slice renders as a bare number, which is
// exactly the uncompressed single-coordinate form used by non-grouped
// commands.
func EncodeRangeList(lines []int, nc NumCodec) string {
	if len(lines) == 0 {
		return ""
	}
	var parts []string
	i := 0
	for i < len(lines) {
		j := i
		for j+1 < len(lines) && lines[j+1] == lines[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, nc.Encode(lines[i])+"-"+nc.Encode(lines[j]))
		} else {
			parts = append(parts, nc.Encode(lines[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// DecodeRangeList parses a range-list coordinate into a sorted, expanded,
// duplicate-free slice of line numbers.
func DecodeRangeList(s string, nc NumCodec) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("format: empty coordinate")
	}
	var out []int
	for _, tok := range strings.Split(s, ",") {
		if tok == "" {
			return nil, fmt.Errorf("format: empty range-list segment in %q", s)
		}
		if dash := strings.IndexByte(tok, '-'); dash > 0 {
			lo, err := nc.Decode(tok[:dash])
			if err != nil {
				return nil, fmt.Errorf("format: bad range start %q: %w", tok, err)
			}
			hi, err := nc.Decode(tok[dash+1:])
			if err != nil {
				return nil, fmt.Errorf("format: bad range end %q: %w", tok, err)
			}
			if hi < lo {
				return nil, fmt.Errorf("format: descending range %q", tok)
			}
			for v := lo; v <= hi; v++ {
				out = append(out, v)
			}
		} else {
			v, err := nc.Decode(tok)
			if err != nil {
				return nil, fmt.Errorf("format: bad coordinate %q: %w", tok, err)
			}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	// De-duplicate, since the grammar requires ascending sorted, non-overlapping
	// entries; a well-formed patch never needs this, but a hand-edited one might.
	deduped := out[:0]
	for i, v := range out {
		if i == 0 || v != deduped[len(deduped)-1] {
			deduped = append(deduped, v)
		}
	}
	return deduped, nil
}
