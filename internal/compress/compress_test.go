package compress

import (
	"reflect"
	"testing"

	"cdiff/internal/format"
)

// TestCompressDuplicateLineTemplating matches the literal worked example
// from spec.md §8: two identical "A" payloads collapse to one dictionary
// entry referenced twice.
func TestCompressDuplicateLineTemplating(t *testing.T) {
	in := []string{"10 A common line", "20 A common line"}
	out, err := Compress(in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if out[0] != "~" {
		t.Fatalf("expected magic header, got %q", out[0])
	}
	if out[1] != "@0 common line" {
		t.Fatalf("expected dictionary entry '@0 common line', got %q", out[1])
	}
	if out[2] != "$" {
		t.Fatalf("expected separator, got %q", out[2])
	}
	back, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, in)
	}
}

func TestIsCompressed(t *testing.T) {
	if IsCompressed([]string{"1 A x"}) {
		t.Fatal("uncompressed patch reported as compressed")
	}
	if !IsCompressed([]string{"~", "$"}) {
		t.Fatal("compressed patch not recognized")
	}
	if IsCompressed(nil) {
		t.Fatal("nil patch reported as compressed")
	}
}

func TestDecompressRejectsMissingMagicHeader(t *testing.T) {
	_, err := Decompress([]string{"1 A x"})
	if err != ErrNotCompressed {
		t.Fatalf("expected ErrNotCompressed, got %v", err)
	}
}

func TestCompressRoundTripsUnrepeatedContent(t *testing.T) {
	in := []string{"1 A hello world", "2 D goodbye"}
	out, err := Compress(in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	back, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, in)
	}
}

func TestCompressRoundTripsAmbiguousLiteral(t *testing.T) {
	in := []string{"1 A user@example.com", "2 A ticket #42 filed"}
	out, err := Compress(in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	back, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch for @/# literal content: got %v, want %v", back, in)
	}
}

func TestCompressRoundTripsCharSegments(t *testing.T) {
	cmds := []format.Command{
		{Coord: []int{1}, Op: format.OpCharAdd, Segments: []format.Segment{{Index: 0, Length: 6, Content: "banana", HasContent: true}}},
		{Coord: []int{2}, Op: format.OpCharAdd, Segments: []format.Segment{{Index: 0, Length: 6, Content: "banana", HasContent: true}}},
	}
	in := format.SerializePatch(cmds, format.Decimal)
	out, err := Compress(in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	back, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, in)
	}
}

func TestAssignIDsFollowsDigitThenBase58Sequence(t *testing.T) {
	dict := make([]string, 12)
	for i := range dict {
		dict[i] = string(rune('a' + i))
	}
	ids := assignIDs(dict)
	want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "A", "B"}
	for i, w := range want {
		if got := ids[dict[i]]; got != w {
			t.Errorf("id[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestCompressAggregatesConsecutiveAdds(t *testing.T) {
	in := []string{"1 A alpha", "2 A beta", "3 A gamma"}
	out, err := Compress(in, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	found := false
	for _, l := range out {
		// Coordinates and counts are Base58-encoded in a compressed patch:
		// line 1 and count 3 render as "2" and "4" under the Base58 codec.
		if l == "2 A+ 4" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected aggregated A+ block header in %v", out)
	}
	back, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, in)
	}
}

func TestCompressEmptyPatch(t *testing.T) {
	out, err := Compress(nil, Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(out) != 2 || out[0] != "~" || out[1] != "$" {
		t.Fatalf("expected bare magic+separator for empty input, got %v", out)
	}
}
