package format

import (
	"regexp"
	"strings"
)

// Opcode constants for the single-line / block string commands and the
// intra-line char commands. "+"-suffixed opcodes are block variants; "*"
// suffixed opcodes are grouped char variants.
const (
	OpAdd    = "A"
	OpDel    = "D"
	OpDelRaw = "X" // unsafe delete, no anchor
	OpEqual  = "E"

	OpAddBlock   = "A+"
	OpDelBlock   = "D+"
	OpDelRawBlk  = "X+"
	OpEqualBlock = "E+"

	OpCharAdd   = "a"
	OpCharDel   = "d"
	OpCharEqual = "e"
	OpCharRaw   = "x" // unsafe, no content

	OpCharAddGrp = "a*"
	OpCharDelGrp = "d*"
	OpCharRawGrp = "x*"
)

// headerPattern matches a well-formed command header. Longer/more specific
// alternatives are listed before their prefixes (A+ before A, a* before a)
// so the first match wins unambiguously.
var headerPattern = regexp.MustCompile(
	`^([0-9A-Za-z]+(?:-[0-9A-Za-z]+)?(?:,[0-9A-Za-z]+(?:-[0-9A-Za-z]+)?)*) (A\+|D\+|X\+|E\+|a\*|d\*|x\*|A|D|X|E|a|d|e|x)(?: (.*))?$`,
)

// Command is the parsed form of one header line (plus any block content it
// owns). Coord is always expanded and sorted ascending; non-grouped
// commands carry exactly one element.
type Command struct {
	Coord   []int
	Op      string
	Count   int      // block header count; zero for non-block ops
	Literal string   // A/D/E payload
	Content []string // A+/D+/E+ block content (X+ never has any)

	Segments []Segment // char ops only

	Truncated bool // block consumed fewer than Count lines before hitting end-of-patch or a header-shaped line

	Raw     string // original line text, kept for RawPassthrough commands
	RawPass bool   // true when Raw did not match the header grammar at all
}

// IsBlock reports whether op is one of the "+" block variants.
func IsBlock(op string) bool {
	switch op {
	case OpAddBlock, OpDelBlock, OpDelRawBlk, OpEqualBlock:
		return true
	}
	return false
}

// IsGrouped reports whether op is one of the "*" grouped char variants.
func IsGrouped(op string) bool {
	switch op {
	case OpCharAddGrp, OpCharDelGrp, OpCharRawGrp:
		return true
	}
	return false
}

// IsChar reports whether op is any intra-line command (grouped or not).
func IsChar(op string) bool {
	switch op {
	case OpCharAdd, OpCharDel, OpCharEqual, OpCharRaw, OpCharAddGrp, OpCharDelGrp, OpCharRawGrp:
		return true
	}
	return false
}

// IsString reports whether op is a line-level command (A/D/X/E and block
// variants).
func IsString(op string) bool {
	switch op {
	case OpAdd, OpDel, OpDelRaw, OpEqual, OpAddBlock, OpDelBlock, OpDelRawBlk, OpEqualBlock:
		return true
	}
	return false
}

// HasContentOp reports whether char segments for op store literal content
// (false only for the unsafe x/x* variants).
func HasContentOp(op string) bool {
	return op != OpCharRaw && op != OpCharRawGrp
}

// blockHasContent reports whether a block header of this op is followed by
// content lines at all (false only for X+, whose deletions are unanchored).
func blockHasContent(op string) bool {
	return op != OpDelRawBlk
}

// BaseOp strips the "+"/"*" suffix, e.g. "A+" -> "A", "a*" -> "a".
func BaseOp(op string) string {
	return strings.TrimRight(op, "+*")
}

// ParseHeader attempts to parse a single line as a command header (without
// consuming any following block-content lines). ok is false if line does
// not match the header grammar at all.
func ParseHeader(line string, nc NumCodec) (cmd Command, ok bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Command{Raw: line, RawPass: true}, false
	}
	coord, err := DecodeRangeList(m[1], nc)
	if err != nil {
		return Command{Raw: line, RawPass: true}, false
	}
	op := m[2]
	payload := m[3]

	cmd = Command{Coord: coord, Op: op, Raw: line}

	switch {
	case IsBlock(op):
		count, err := nc.Decode(payload)
		if err != nil {
			return Command{Raw: line, RawPass: true}, false
		}
		cmd.Count = count
	case IsChar(op):
		segs, err := TokenizeSegments(payload, nc, HasContentOp(op), nc.IsDigit)
		if err != nil {
			return Command{Raw: line, RawPass: true}, false
		}
		cmd.Segments = segs
	default: // A, D, X, E
		cmd.Literal = payload
	}
	return cmd, true
}

// IsBase58Byte classifies characters belonging to the Base58 alphabet, for
// use as a NumCodec.IsDigit in compressed-patch contexts.
func IsBase58Byte(c byte) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z' && c != 'I' && c != 'O':
		return true
	case c >= 'a' && c <= 'z' && c != 'l':
		return true
	}
	return false
}

// LooksLikeHeader reports whether line matches the command header grammar,
// used by block consumption to implement the truncation rule: any
// syntactically valid header appearing where content was expected ends the
// block early.
func LooksLikeHeader(line string, nc NumCodec) bool {
	_, ok := ParseHeader(line, nc)
	return ok
}

// ParsePatch parses an entire command stream. It never hard-fails: lines
// that don't match the header grammar become RawPass commands (forward
// compatibility per the spec's format-error policy), and block headers that
// overrun the end of the patch are marked Truncated rather than rejected.
// Returned diagnostics are human-readable warnings a caller may log.
func ParsePatch(lines []string, nc NumCodec) ([]Command, []string) {
	var cmds []Command
	var diags []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		cmd, ok := ParseHeader(line, nc)
		i++
		if !ok {
			cmds = append(cmds, cmd)
			continue
		}
		if IsBlock(cmd.Op) && blockHasContent(cmd.Op) {
			content := make([]string, 0, cmd.Count)
			for len(content) < cmd.Count && i < len(lines) {
				if LooksLikeHeader(lines[i], nc) {
					break
				}
				content = append(content, lines[i])
				i++
			}
			if len(content) < cmd.Count {
				cmd.Truncated = true
				diags = append(diags, "format: block header declared "+nc.Encode(cmd.Count)+" lines but only "+nc.Encode(len(content))+" were available: "+line)
			}
			cmd.Content = content
		}
		cmds = append(cmds, cmd)
	}
	return cmds, diags
}

// SerializeHeader renders cmd back into wire form, not including any block
// content lines (those are appended separately by SerializePatch).
func SerializeHeader(cmd Command, nc NumCodec) string {
	if cmd.RawPass {
		return cmd.Raw
	}
	coord := EncodeRangeList(cmd.Coord, nc)
	switch {
	case IsBlock(cmd.Op):
		return coord + " " + cmd.Op + " " + nc.Encode(cmd.Count)
	case IsChar(cmd.Op):
		payload := SerializeSegments(cmd.Segments, nc)
		if payload == "" {
			return coord + " " + cmd.Op
		}
		return coord + " " + cmd.Op + " " + payload
	default:
		if cmd.Literal == "" {
			return coord + " " + cmd.Op
		}
		return coord + " " + cmd.Op + " " + cmd.Literal
	}
}

// SerializePatch renders a full command list (with block content) back to
// wire-format lines.
func SerializePatch(cmds []Command, nc NumCodec) []string {
	var out []string
	for _, cmd := range cmds {
		if cmd.RawPass {
			out = append(out, cmd.Raw)
			continue
		}
		out = append(out, SerializeHeader(cmd, nc))
		if IsBlock(cmd.Op) && blockHasContent(cmd.Op) {
			out = append(out, cmd.Content...)
		}
	}
	return out
}
