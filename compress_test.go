package cdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestCompressDecompressRoundTrip checks property 3 from spec.md §8 at the
// root-package level: decompress(compress(P)).patch = P.
func TestCompressDecompressRoundTrip(t *testing.T) {
	patch, err := CreatePatch("a\nb\nc", "a\nbee\nc", Options{})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	compressed, err := Compress(patch, CompressOptions{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !IsCompressed(compressed) {
		t.Fatal("expected compressed patch to report IsCompressed")
	}
	back, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if diff := cmp.Diff([]string(patch), []string(back)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestIsCompressedMagicHeader checks property 4: isCompressed(P) iff
// P[0] == '~'.
func TestIsCompressedMagicHeader(t *testing.T) {
	if IsCompressed(Patch([]string{"1 A x"})) {
		t.Fatal("patch without magic header reported as compressed")
	}
	if !IsCompressed(Patch([]string{"~", "$"})) {
		t.Fatal("patch with magic header not reported as compressed")
	}
}

func TestDecompressUncompressedReturnsErrNotCompressed(t *testing.T) {
	_, err := Decompress(Patch([]string{"1 A x"}))
	if err != ErrNotCompressed {
		t.Fatalf("expected ErrNotCompressed, got %v", err)
	}
}

func TestCreatePatchCompressOption(t *testing.T) {
	old := "line one\nline two"
	new_ := "line one\nline two\nline one\nline two"
	patch, err := CreatePatch(old, new_, Options{Compress: true})
	if err != nil {
		t.Fatalf("CreatePatch: %v", err)
	}
	if !IsCompressed(patch) {
		t.Fatal("expected Options.Compress=true to yield a compressed patch")
	}
}
