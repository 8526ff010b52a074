package format

import (
	"reflect"
	"testing"
)

func TestParseHeaderSingleLineAdd(t *testing.T) {
	cmd, ok := ParseHeader("2 A line 2", Decimal)
	if !ok {
		t.Fatalf("expected header to parse")
	}
	if !reflect.DeepEqual(cmd.Coord, []int{2}) || cmd.Op != OpAdd || cmd.Literal != "line 2" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseHeaderUnrecognizedIsPassthrough(t *testing.T) {
	cmd, ok := ParseHeader("not a command", Decimal)
	if ok {
		t.Fatalf("expected passthrough for unrecognized line")
	}
	if !cmd.RawPass || cmd.Raw != "not a command" {
		t.Fatalf("unexpected passthrough command: %+v", cmd)
	}
}

func TestParsePatchBlockConsumesContent(t *testing.T) {
	lines := []string{"2 A+ 3", "A", "B", "C"}
	cmds, diags := ParsePatch(lines, Decimal)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	c := cmds[0]
	if c.Op != OpAddBlock || c.Count != 3 || !reflect.DeepEqual(c.Content, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected block command: %+v", c)
	}
}

func TestParsePatchBlockTruncatesOnHeaderLookingContent(t *testing.T) {
	// Declared count is 3 but the third "content" line is itself a valid
	// header, so the block must stop at 2 lines (the forgiveness rule).
	lines := []string{"2 A+ 3", "A", "B", "5 D old"}
	cmds, diags := ParsePatch(lines, Decimal)
	if len(diags) == 0 {
		t.Fatalf("expected a truncation diagnostic")
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands (truncated block + the D), got %d: %+v", len(cmds), cmds)
	}
	if !cmds[0].Truncated || !reflect.DeepEqual(cmds[0].Content, []string{"A", "B"}) {
		t.Fatalf("block not truncated as expected: %+v", cmds[0])
	}
	if cmds[1].Op != OpDel {
		t.Fatalf("expected second command to be the D line, got %+v", cmds[1])
	}
}

func TestParsePatchXPlusHasNoContent(t *testing.T) {
	lines := []string{"4 X+ 2", "this looks like content but is dropped by X+"}
	cmds, _ := ParsePatch(lines, Decimal)
	if len(cmds) != 2 {
		t.Fatalf("X+ must not consume the following line as content, got %+v", cmds)
	}
	if cmds[0].Op != OpDelRawBlk || len(cmds[0].Content) != 0 {
		t.Fatalf("unexpected X+ command: %+v", cmds[0])
	}
}

func TestSerializePatchRoundTrip(t *testing.T) {
	lines := []string{"2 A+ 3", "A", "B", "C", "5 D old line", "1 d 6 1 x"}
	cmds, diags := ParsePatch(lines, Decimal)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	out := SerializePatch(cmds, Decimal)
	if !reflect.DeepEqual(out, lines) {
		t.Fatalf("round trip mismatch:\ngot  %v\nwant %v", out, lines)
	}
}

func TestGroupedCharCommand(t *testing.T) {
	cmd, ok := ParseHeader("1-2 a* 0 2   ", Decimal)
	if !ok {
		t.Fatalf("expected grouped command to parse")
	}
	if !reflect.DeepEqual(cmd.Coord, []int{1, 2}) {
		t.Fatalf("unexpected coord: %v", cmd.Coord)
	}
	if len(cmd.Segments) != 1 || cmd.Segments[0].Content != "  " {
		t.Fatalf("unexpected segments: %+v", cmd.Segments)
	}
}

func TestRangeListEncodeDecode(t *testing.T) {
	in := []int{1, 2, 3, 5, 8, 9}
	enc := EncodeRangeList(in, Decimal)
	if enc != "1-3,5,8-9" {
		t.Fatalf("EncodeRangeList = %q", enc)
	}
	out, err := DecodeRangeList(enc, Decimal)
	if err != nil {
		t.Fatalf("DecodeRangeList error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("DecodeRangeList = %v, want %v", out, in)
	}
}

func TestTokenizeSegmentsSpaceInContent(t *testing.T) {
	// "10 11 hello world" -> one segment, index 10, length 11 ("hello world"
	// is 11 runes), content "hello world".
	segs, err := TokenizeSegments("10 11 hello world", Decimal, true, DecimalAlphaNum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 1 || segs[0].Content != "hello world" {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}

func TestTokenizeSegmentsMultiple(t *testing.T) {
	segs, err := TokenizeSegments("0 1 x 5 2 yz", Decimal, true, DecimalAlphaNum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Segment{
		{Index: 0, Length: 1, Content: "x", HasContent: true},
		{Index: 5, Length: 2, Content: "yz", HasContent: true},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("segments = %+v, want %+v", segs, want)
	}
}

func TestTokenizeSegmentsNoContentForX(t *testing.T) {
	segs, err := TokenizeSegments("3 4", Decimal, false, DecimalAlphaNum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 1 || segs[0].HasContent || segs[0].Length != 4 {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}
