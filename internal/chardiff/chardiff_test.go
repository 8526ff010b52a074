package chardiff

import (
	"reflect"
	"testing"

	"cdiff/internal/format"
)

func TestCreatePatchSingleCharReplace(t *testing.T) {
	// spec.md seed scenario #3: "const x = 10;" -> "const y = 10;" should
	// produce exactly a d and an a command, each with one segment at index 6.
	cmds := CreatePatch("const x = 10;", "const y = 10;", 1, Options{})
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d: %+v", len(cmds), cmds)
	}
	d, a := cmds[0], cmds[1]
	if d.Op != format.OpCharDel || !reflect.DeepEqual(d.Coord, []int{1}) {
		t.Fatalf("unexpected delete command: %+v", d)
	}
	if len(d.Segments) != 1 || d.Segments[0].Index != 6 || d.Segments[0].Content != "x" {
		t.Fatalf("unexpected delete segments: %+v", d.Segments)
	}
	if a.Op != format.OpCharAdd || len(a.Segments) != 1 || a.Segments[0].Index != 6 || a.Segments[0].Content != "y" {
		t.Fatalf("unexpected add command: %+v", a)
	}
}

func TestCreatePatchApplyRoundTrip(t *testing.T) {
	old := "const x = 10;"
	new_ := "const y = 10;"
	cmds := CreatePatch(old, new_, 1, Options{})
	got, warnings, err := Apply(old, cmds, ApplyOptions{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got != new_ {
		t.Fatalf("Apply = %q, want %q", got, new_)
	}
}

func TestGroupingLawMergesShortGap(t *testing.T) {
	// "abcXdefg" -> "abcYdefZ": two single-char edits separated by "def"
	// (length 3, <= 4) must collapse into one merged change per the
	// grouping law, so exactly one d and one a command should result, each
	// carrying a single segment spanning the whole bridged region.
	old := "abcXdefg"
	newLine := "abcYdefZ"
	cmds := CreatePatch(old, newLine, 1, Options{})
	if len(cmds) != 2 {
		t.Fatalf("expected exactly 2 commands (merged), got %d: %+v", len(cmds), cmds)
	}
	for _, c := range cmds {
		if len(c.Segments) != 1 {
			t.Fatalf("expected grouping to merge into a single segment, got %+v", c.Segments)
		}
	}
}

func TestGroupingLawKeepsLongGapSeparate(t *testing.T) {
	// An equal run of length 5 (>= 5) must NOT be merged: two independent
	// single-char changes remain two segments per side.
	old := "XabcdeY"
	newLine := "ZabcdeW"
	cmds := CreatePatch(old, newLine, 1, Options{})
	for _, c := range cmds {
		if len(c.Segments) != 2 {
			t.Fatalf("expected changes to stay separate, got %+v", c.Segments)
		}
	}
}

func TestApplyAnchorMismatchLenientWarns(t *testing.T) {
	cmds := []format.Command{
		{Coord: []int{1}, Op: format.OpCharDel, Segments: []format.Segment{
			{Index: 0, Length: 1, Content: "z", HasContent: true},
		}},
	}
	got, warnings, err := Apply("abc", cmds, ApplyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected an anchor mismatch warning")
	}
	if got != "abc" {
		t.Fatalf("mismatched segment should be dropped, got %q", got)
	}
}

func TestApplyAnchorMismatchStrictFails(t *testing.T) {
	cmds := []format.Command{
		{Coord: []int{1}, Op: format.OpCharDel, Segments: []format.Segment{
			{Index: 0, Length: 1, Content: "z", HasContent: true},
		}},
	}
	if _, _, err := Apply("abc", cmds, ApplyOptions{Strict: true}); err == nil {
		t.Fatalf("expected strict mode to fail on anchor mismatch")
	}
}

func TestInvertSwapsAddAndDelete(t *testing.T) {
	cmds := CreatePatch("const x = 10;", "const y = 10;", 1, Options{})
	inv, err := Invert(cmds)
	if err != nil {
		t.Fatalf("Invert error: %v", err)
	}
	// forward applying inv to the new line should reproduce the old line
	got, _, err := Apply("const y = 10;", inv, ApplyOptions{})
	if err != nil {
		t.Fatalf("Apply(inverted) error: %v", err)
	}
	if got != "const x = 10;" {
		t.Fatalf("Apply(inverted) = %q, want %q", got, "const x = 10;")
	}
}

func TestInvertRejectsUnsafe(t *testing.T) {
	cmds := CreatePatch("const x = 10;", "const y = 10;", 1, Options{Unsafe: true})
	if _, err := Invert(cmds); err == nil {
		t.Fatalf("expected Invert to reject unsafe (x) commands")
	}
}

func TestBinaryModeRoundTrip(t *testing.T) {
	old := string([]byte{0x00, 0x01, 0xFF, 0x02})
	newLine := string([]byte{0x00, 0x09, 0xFF, 0x02})
	cmds := CreatePatch(old, newLine, 1, Options{Mode: Binary})
	got, warnings, err := Apply(old, cmds, ApplyOptions{Mode: Binary})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got != newLine {
		t.Fatalf("binary round trip = %x, want %x", got, newLine)
	}
}
