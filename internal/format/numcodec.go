// Package format implements the wire grammar shared by every component that
// reads or writes a patch: command headers, range-list coordinates, the
// intra-line segment tokenizer, and the parametric-string grammar used by
// compressed patches. It deliberately knows nothing about how numbers are
// spelled (decimal for uncompressed patches, Base58 for compressed ones) —
// callers supply a NumCodec so the same parsing/serialization logic backs
// both forms.
package format

import "strconv"

// NumCodec pairs an encoder/decoder for the integer coordinates and counts
// that appear in a command stream, plus a classifier for the characters its
// encoding can produce (used by the segment tokenizer to find token
// boundaries). Decimal is used for uncompressed patches; compressed patches
// supply a Base58-backed NumCodec (see internal/compress).
type NumCodec struct {
	Encode  func(int) string
	Decode  func(string) (int, error)
	IsDigit func(byte) bool
}

// Decimal is the NumCodec for uncompressed patches.
var Decimal = NumCodec{
	Encode:  strconv.Itoa,
	Decode:  strconv.Atoi,
	IsDigit: DecimalAlphaNum,
}
