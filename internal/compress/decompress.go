package compress

import (
	"errors"
	"strings"

	"cdiff/internal/format"
)

// ErrNotCompressed is returned by Decompress when its input does not begin
// with the "~" magic header.
var ErrNotCompressed = errors.New("compress: patch does not begin with the \"~\" magic header")

// IsCompressed reports whether lines begins with the "~" magic header.
func IsCompressed(lines []string) bool {
	return len(lines) > 0 && lines[0] == "~"
}

// Decompress is the exact inverse of Compress: install the dictionary,
// then expand every command's parametric payload and dictionary-ref char
// segments back to literal content, and re-encode numeric fields back to
// decimal.
func Decompress(lines []string) ([]string, error) {
	if !IsCompressed(lines) {
		return nil, ErrNotCompressed
	}

	dict := map[string]string{}
	i := 1
	for i < len(lines) {
		line := lines[i]
		if line == "$" {
			i++
			break
		}
		if !strings.HasPrefix(line, "@") {
			// Legacy patches omit the separator; the first non-dictionary
			// line is already the start of the command stream.
			break
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			break
		}
		dict[line[1:sp]] = line[sp+1:]
		i++
	}

	cmds, _ := format.ParsePatch(lines[i:], Base58)
	out := make([]format.Command, len(cmds))
	for idx, cmd := range cmds {
		out[idx] = expandCommand(cmd, dict)
	}
	return format.SerializePatch(out, format.Decimal), nil
}

func expandCommand(cmd format.Command, dict map[string]string) format.Command {
	switch {
	case cmd.RawPass:
		return cmd
	case format.IsChar(cmd.Op):
		cmd.Segments = expandSegments(cmd.Segments, dict)
		return cmd
	case cmd.Op == format.OpAdd, cmd.Op == format.OpDel, cmd.Op == format.OpDelRaw:
		cmd.Literal = expandParametric(cmd.Literal, dict)
		return cmd
	case cmd.Op == format.OpAddBlock, cmd.Op == format.OpDelBlock:
		content := make([]string, len(cmd.Content))
		for i, c := range cmd.Content {
			content[i] = expandParametric(c, dict)
		}
		cmd.Content = content
		return cmd
	default:
		return cmd
	}
}

func expandParametric(s string, dict map[string]string) string {
	if !format.ParsePlainOrParametric(s) {
		return s
	}
	elems := format.ParseParametric(s, Base58, isDictIDByte)
	var b strings.Builder
	for _, e := range elems {
		if e.Ref != "" {
			b.WriteString(dict[e.Ref])
			continue
		}
		b.WriteString(e.Literal)
	}
	return b.String()
}

func expandSegments(segs []format.Segment, dict map[string]string) []format.Segment {
	out := make([]format.Segment, len(segs))
	for i, s := range segs {
		if s.DictRef != "" {
			content := dict[s.DictRef]
			out[i] = format.Segment{
				Index:      s.Index,
				Length:     len([]rune(content)),
				Content:    content,
				HasContent: true,
			}
			continue
		}
		out[i] = s
	}
	return out
}
