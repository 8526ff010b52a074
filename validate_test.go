package cdiff

import "testing"

func TestValidateAcceptsCreatePatchOutput(t *testing.T) {
	patch, err := CreatePatch("one\ntwo\nthree", "one\ntwo\nfour\nfive", Options{})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	if err := Validate(patch); err != nil {
		t.Fatalf("Validate rejected a patch CreatePatch produced: %v", err)
	}
}

func TestValidateAcceptsCompressedPatch(t *testing.T) {
	patch, err := CreatePatch("one\ntwo\nthree", "one\ntwo\nfour", Options{Compress: true})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	if err := Validate(patch); err != nil {
		t.Fatalf("Validate rejected a compressed patch: %v", err)
	}
}

func TestValidateRejectsTruncatedBlock(t *testing.T) {
	// Declares 3 content lines but the patch only supplies 2 before running
	// out; the parser marks this Truncated and reports it as a diagnostic,
	// which Validate folds into its returned error.
	err := Validate(Patch([]string{"1 A+ 3", "x", "y"}))
	if err == nil {
		t.Fatal("expected Validate to flag a truncated block")
	}
}

func TestValidateRejectsOverlappingSegments(t *testing.T) {
	err := Validate(Patch([]string{"1 a 0 3 abc 1 2 bc"}))
	if err == nil {
		t.Fatal("expected Validate to reject overlapping char segments")
	}
}
