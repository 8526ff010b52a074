package cdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStatsCountsAdditionsAndDeletions(t *testing.T) {
	s, err := Stats(Patch([]string{"1 A line 2"}))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := PatchStats{Commands: 1, Additions: 1}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsCountsBlockCommands(t *testing.T) {
	patch, err := CreatePatch("start\nend", "start\nA\nB\nC\nend", Options{})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	s, err := Stats(patch)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.BlockCommands != 1 || s.Additions != 3 {
		t.Fatalf("got %+v, want a single block command adding 3 lines", s)
	}
}

func TestStatsCountsCharEdits(t *testing.T) {
	patch, err := CreatePatch("const x = 10;", "const y = 10;", Options{})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	s, err := Stats(patch)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.CharEdits != 2 {
		t.Fatalf("got %+v, want 2 char edits (one d, one a)", s)
	}
}
