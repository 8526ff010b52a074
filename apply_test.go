package cdiff

import "testing"

// TestApplyPatchSeedScenarios applies spec.md §8's seed patches (all but the
// grouped a* one) back onto their old text and checks the new text is
// reproduced — the inverse direction of TestCreatePatchSeedScenarios.
func TestApplyPatchSeedScenarios(t *testing.T) {
	cases := []struct {
		name      string
		old, new_ string
		patch     []string
	}{
		{"pure insert", "line 1\nline 3", "line 1\nline 2\nline 3", []string{"2 A line 2"}},
		{"pure delete", "line 1\nline 2\nline 3", "line 1\nline 3", []string{"2 D line 2"}},
		{"char replace", "const x = 10;", "const y = 10;", []string{"1 d 6 1 x", "1 a 6 1 y"}},
		{"block insert", "start\nend", "start\nA\nB\nC\nend", []string{"2 A+ 3", "A", "B", "C"}},
		{"full reversal", "AAA\nBBB\nCCC", "CCC\nBBB\nAAA", []string{"1 D AAA", "3 D CCC", "1 A CCC", "3 A AAA"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ApplyPatch(c.old, Patch(c.patch), ApplyOptions{})
			if err != nil {
				t.Fatalf("ApplyPatch: %v", err)
			}
			if got != c.new_ {
				t.Fatalf("got %q, want %q", got, c.new_)
			}
		})
	}
}

func TestApplyPatchUniversalRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"one\ntwo\nthree", "one\ntwo\nfour"},
		{"", "a\nb\nc"},
		{"x\ny\nz", ""},
		{"same\ntext", "same\ntext"},
		{"alpha\nbeta\ngamma", "gamma\nbeta\nalpha"},
	}
	for _, p := range pairs {
		patch, err := CreatePatch(p[0], p[1], Options{})
		if err != nil {
			t.Fatalf("CreatePatch(%q, %q): %v", p[0], p[1], err)
		}
		got, err := ApplyPatch(p[0], patch, ApplyOptions{})
		if err != nil {
			t.Fatalf("ApplyPatch: %v", err)
		}
		if got != p[1] {
			t.Fatalf("round trip mismatch: old=%q new=%q patch=%v got=%q", p[0], p[1], []string(patch), got)
		}
	}
}

func TestApplyPatchAnchorMismatchStrictMode(t *testing.T) {
	_, err := ApplyPatch("one\ntwo", Patch([]string{"1 D wrong"}), ApplyOptions{StrictMode: true})
	if err == nil {
		t.Fatal("expected an error for mismatched anchor content in strict mode")
	}
}

func TestApplyPatchAnchorMismatchLenientModeWarnsAndDrops(t *testing.T) {
	var warnings []string
	got, err := ApplyPatch("one\ntwo", Patch([]string{"1 D wrong"}), ApplyOptions{
		OnWarning: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for the mismatched anchor")
	}
	if got != "one\ntwo" {
		t.Fatalf("expected the line to survive the dropped deletion, got %q", got)
	}
}

func TestApplyPatchBinaryMode(t *testing.T) {
	old := "hello"
	new_ := "hallo"
	patch, err := CreatePatch(old, new_, Options{Mode: "binary"})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	got, err := ApplyPatch(old, patch, ApplyOptions{Mode: "binary"})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if got != new_ {
		t.Fatalf("got %q, want %q", got, new_)
	}
}
