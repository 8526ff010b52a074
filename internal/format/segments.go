package format

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Segment describes one span of a char-level edit: the index into the
// reference line (old line for d/x, new line for a), its length, and its
// content. HasContent is false for unsafe 'x'/'x*' segments, which omit
// content to save bytes and are therefore not invertible. DictRef is set
// only on compressed segments rewritten as "<index>@<id>" (see
// internal/compress); a zero-value DictRef means the segment carries its
// content literally.
type Segment struct {
	Index      int
	Length     int
	Content    string
	HasContent bool
	DictRef    string
}

// SerializeSegments joins segments into the single-space-delimited payload
// used by a/d/e/a*/d*/x* commands.
func SerializeSegments(segs []Segment, nc NumCodec) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		switch {
		case s.DictRef != "":
			parts = append(parts, nc.Encode(s.Index)+"@"+s.DictRef)
		case s.HasContent:
			parts = append(parts, fmt.Sprintf("%s %s %s", nc.Encode(s.Index), nc.Encode(s.Length), s.Content))
		default:
			parts = append(parts, fmt.Sprintf("%s %s", nc.Encode(s.Index), nc.Encode(s.Length)))
		}
	}
	return strings.Join(parts, " ")
}

// TokenizeSegments parses a char-command payload into its constituent
// segments. hasContent tells the tokenizer whether the opcode stores content
// at all ('x'/'x*' do not); isAlphaNum classifies characters belonging to the
// coordinate/length alphabet in use (digits for decimal, the Base58 alphabet
// for compressed patches), so the same tokenizer backs both forms.
//
// Content extraction follows the three-step rule content ambiguity demands:
// a fast path assumes the content has no embedded spaces; if the declared
// length disagrees with that assumption, the remainder of the payload is
// joined and sliced to the declared rune length; if the payload runs out
// before that many runes are available, whatever remains is taken verbatim
// (the overrun fallback).
func TokenizeSegments(payload string, nc NumCodec, hasContent bool, isAlphaNum func(byte) bool) ([]Segment, error) {
	var segs []Segment
	pos := 0
	n := len(payload)
	readToken := func() string {
		start := pos
		for pos < n && isAlphaNum(payload[pos]) {
			pos++
		}
		return payload[start:pos]
	}
	for pos < n {
		for pos < n && payload[pos] == ' ' {
			pos++
		}
		if pos >= n {
			break
		}
		idxTok := readToken()
		if idxTok == "" {
			return nil, fmt.Errorf("format: expected segment index at offset %d in %q", pos, payload)
		}
		idx, err := nc.Decode(idxTok)
		if err != nil {
			return nil, fmt.Errorf("format: bad segment index %q: %w", idxTok, err)
		}

		if pos < n && payload[pos] == '@' {
			pos++
			idStart := pos
			for pos < n && payload[pos] != ' ' {
				pos++
			}
			id := payload[idStart:pos]
			segs = append(segs, Segment{Index: idx, DictRef: id, HasContent: true})
			continue
		}

		if pos >= n || payload[pos] != ' ' {
			return nil, fmt.Errorf("format: expected length after index %d in %q", idx, payload)
		}
		pos++ // skip mandatory space before length
		lenTok := readToken()
		if lenTok == "" {
			return nil, fmt.Errorf("format: expected segment length at offset %d in %q", pos, payload)
		}
		length, err := nc.Decode(lenTok)
		if err != nil {
			return nil, fmt.Errorf("format: bad segment length %q: %w", lenTok, err)
		}

		if !hasContent {
			segs = append(segs, Segment{Index: idx, Length: length, HasContent: false})
			continue
		}

		if length == 0 {
			if pos < n && payload[pos] == ' ' {
				pos++
			}
			segs = append(segs, Segment{Index: idx, Length: 0, Content: "", HasContent: true})
			continue
		}

		if pos >= n || payload[pos] != ' ' {
			return nil, fmt.Errorf("format: expected content after length %d in %q", length, payload)
		}
		pos++ // the single mandatory space before content

		// Fast path: assume content has no embedded spaces.
		fastEnd := pos
		for fastEnd < n && payload[fastEnd] != ' ' {
			fastEnd++
		}
		fastTok := payload[pos:fastEnd]
		if utf8.RuneCountInString(fastTok) == length {
			segs = append(segs, Segment{Index: idx, Length: length, Content: fastTok, HasContent: true})
			pos = fastEnd
			continue
		}

		// Join-the-rest-and-slice fallback, with an overrun fallback if the
		// payload is exhausted before `length` runes are available.
		rest := []rune(payload[pos:])
		if len(rest) <= length {
			segs = append(segs, Segment{Index: idx, Length: length, Content: string(rest), HasContent: true})
			pos = n
			continue
		}
		content := string(rest[:length])
		segs = append(segs, Segment{Index: idx, Length: length, Content: content, HasContent: true})
		pos += len(content)
	}
	return segs, nil
}

// DecimalAlphaNum classifies ASCII digits, for use with Decimal-coded
// patches.
func DecimalAlphaNum(c byte) bool {
	return c >= '0' && c <= '9'
}
