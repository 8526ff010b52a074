package compress

import (
	"sort"
	"strconv"
	"strings"

	"cdiff/internal/base58"
	"cdiff/internal/format"
	"cdiff/internal/sortutil"
)

// Compress rewrites an uncompressed, decimal-coded patch into the
// dictionary-compressed form described in spec.md §4.5.
func Compress(lines []string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	cmds, _ := format.ParsePatch(lines, format.Decimal)

	// Pass 1 — partition. "Other" (context E/E+) is identified inline below
	// by simply not contributing to either mining pool; it still passes
	// through Pass 4's rewrite (a no-op for it) and Base58 re-encoding.
	var stringPool []string
	var charPool []string
	for _, cmd := range cmds {
		if cmd.RawPass {
			continue
		}
		switch cmd.Op {
		case format.OpAdd, format.OpDel, format.OpDelRaw:
			stringPool = append(stringPool, cmd.Literal)
		case format.OpAddBlock, format.OpDelBlock:
			stringPool = append(stringPool, cmd.Content...)
		}
		if format.IsChar(cmd.Op) {
			for _, seg := range cmd.Segments {
				if seg.HasContent && seg.Content != "" {
					charPool = append(charPool, seg.Content)
				}
			}
		}
	}

	stringTemplates := mineStringTemplates(stringPool, opts)
	charTemplates := mineCharTemplates(charPool)
	dict := unionTemplates(stringTemplates, charTemplates)
	ids := assignIDs(dict)

	rewritten := make([]format.Command, len(cmds))
	for i, cmd := range cmds {
		rewritten[i] = rewriteCommand(cmd, dict, ids)
	}
	aggregated := aggregateBlocks(rewritten)

	out := make([]string, 0, len(dict)+2+len(aggregated))
	out = append(out, "~")
	for _, content := range dict {
		out = append(out, "@"+ids[content]+" "+content)
	}
	out = append(out, "$")
	out = append(out, format.SerializePatch(aggregated, Base58)...)
	return out, nil
}

func unionTemplates(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sortutil.ByLenThenLex(out)
	return out
}

// assignIDs implements Pass 3: the ten shortest dictionary entries get the
// literal decimal digits "0".."9"; every entry after that gets
// base58.Encode(rank-1) so the sequence reads "@0",...,"@9","@A","@B",...
// with no collision between the digit-id range and the Base58 range (digit
// '0' is not itself a Base58 character).
func assignIDs(dict []string) map[string]string {
	ids := make(map[string]string, len(dict))
	for i, content := range dict {
		if i < 10 {
			ids[content] = strconv.Itoa(i)
		} else {
			ids[content] = base58.Encode(uint64(i - 1))
		}
	}
	return ids
}

// rewriteCommand implements Pass 4 for one command: string payloads are
// encoded parametrically against the dictionary, char segments whose
// content exactly matches a dictionary entry are compacted to their
// "<index>@<id>" form, and everything else (E/E+, X+, RawPass) is left
// untouched beyond the Base58 re-encoding SerializePatch applies uniformly
// afterward.
func rewriteCommand(cmd format.Command, dict []string, ids map[string]string) format.Command {
	switch {
	case cmd.RawPass:
		return cmd
	case format.IsChar(cmd.Op):
		cmd.Segments = rewriteSegments(cmd.Segments, ids)
		return cmd
	case cmd.Op == format.OpAdd, cmd.Op == format.OpDel, cmd.Op == format.OpDelRaw:
		cmd.Literal = encodeParametric(cmd.Literal, dict, ids)
		return cmd
	case cmd.Op == format.OpAddBlock, cmd.Op == format.OpDelBlock:
		content := make([]string, len(cmd.Content))
		for i, c := range cmd.Content {
			content[i] = encodeParametric(c, dict, ids)
		}
		cmd.Content = content
		return cmd
	default:
		return cmd
	}
}

func rewriteSegments(segs []format.Segment, ids map[string]string) []format.Segment {
	out := make([]format.Segment, len(segs))
	for i, s := range segs {
		if s.HasContent && s.Content != "" {
			if id, ok := ids[s.Content]; ok {
				out[i] = format.Segment{Index: s.Index, DictRef: id, HasContent: true}
				continue
			}
		}
		out[i] = s
	}
	return out
}

// encodeParametric scans s left to right, greedily substituting the
// longest dictionary template matching at the current position (spec.md
// §4.5 Pass 4's "Parametric" alternative). When no template ever matches,
// it returns s unchanged — the cheaper "Literal" alternative — rather than
// paying BuildParametric's escaping overhead for nothing. When every
// matched span, concatenated, accounts for the whole string it naturally
// degenerates to the "Simple" alternative (pure "@id" references, no
// literal gaps).
func encodeParametric(s string, dict []string, ids map[string]string) string {
	if s == "" {
		return s
	}
	if len(dict) == 0 {
		if !strings.ContainsAny(s, "@#") {
			return s
		}
		// No templates to match against, but the literal still contains a
		// character the parametric grammar treats as a marker; it must be
		// escaped so Decompress doesn't misread it as one.
		return format.BuildParametric([]format.ParametricElem{{Literal: s}}, Base58)
	}
	byLen := append([]string(nil), dict...)
	sort.SliceStable(byLen, func(i, j int) bool { return len(byLen[i]) > len(byLen[j]) })

	var elems []format.ParametricElem
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			elems = append(elems, format.ParametricElem{Literal: lit.String()})
			lit.Reset()
		}
	}

	hasRef := false
	i, n := 0, len(s)
	for i < n {
		matched := ""
		for _, d := range byLen {
			if d != "" && strings.HasPrefix(s[i:], d) {
				matched = d
				break
			}
		}
		if matched != "" {
			flush()
			elems = append(elems, format.ParametricElem{Ref: ids[matched]})
			hasRef = true
			i += len(matched)
			continue
		}
		lit.WriteByte(s[i])
		i++
	}
	flush()

	// A string with no dictionary match at all is cheapest stored verbatim
	// ("Literal") — unless it contains a literal '@' or '#', which would
	// otherwise be misread as a parametric marker on decompression; such a
	// string is no longer "otherwise-pure" (spec.md §3) and must go through
	// BuildParametric's escaping even though it references nothing.
	if !hasRef && !strings.ContainsAny(s, "@#") {
		return s
	}
	return format.BuildParametric(elems, Base58)
}

// aggregateBlocks implements Pass 4's final step: consecutive single-line
// commands of the same kind and strictly sequential coordinates collapse
// into one block header followed by their (already rewritten) bodies.
func aggregateBlocks(cmds []format.Command) []format.Command {
	var out []format.Command
	i := 0
	for i < len(cmds) {
		cmd := cmds[i]
		if cmd.RawPass || len(cmd.Coord) != 1 || !isAggregable(cmd.Op) {
			out = append(out, cmd)
			i++
			continue
		}
		j := i + 1
		for j < len(cmds) &&
			!cmds[j].RawPass &&
			cmds[j].Op == cmd.Op &&
			len(cmds[j].Coord) == 1 &&
			cmds[j].Coord[0] == cmds[j-1].Coord[0]+1 {
			j++
		}
		if j-i == 1 {
			out = append(out, cmd)
			i++
			continue
		}
		blockOp := blockOpFor(cmd.Op)
		var content []string
		if blockOpHasContent(blockOp) {
			content = make([]string, 0, j-i)
			for k := i; k < j; k++ {
				content = append(content, cmds[k].Literal)
			}
		}
		out = append(out, format.Command{Coord: []int{cmd.Coord[0]}, Op: blockOp, Count: j - i, Content: content})
		i = j
	}
	return out
}

func isAggregable(op string) bool {
	switch op {
	case format.OpAdd, format.OpDel, format.OpDelRaw:
		return true
	}
	return false
}

func blockOpFor(op string) string {
	switch op {
	case format.OpAdd:
		return format.OpAddBlock
	case format.OpDel:
		return format.OpDelBlock
	case format.OpDelRaw:
		return format.OpDelRawBlk
	}
	return op
}

func blockOpHasContent(op string) bool {
	return op != format.OpDelRawBlk
}
