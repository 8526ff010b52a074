// Package compress implements C5/C6 from spec.md §4.5-4.6: the secondary
// dictionary compressor and its exact inverse. Compress mines recurring
// string and char fragments out of an uncompressed patch, assigns them
// ascending-length dictionary IDs, rewrites each command parametrically
// against the dictionary, aggregates consecutive single-line commands into
// blocks, and re-encodes every numeric field in Base58. Decompress undoes
// all of it.
package compress

import (
	"cdiff/internal/base58"
	"cdiff/internal/format"
)

// Base58 is the NumCodec compressed patches use for every coordinate,
// count and segment index/length.
var Base58 = format.NumCodec{
	Encode:  base58.MustEncode,
	Decode:  base58.DecodeInt,
	IsDigit: format.IsBase58Byte,
}

// isDictIDByte classifies characters that may appear in a "@<id>"
// reference: either a single literal decimal digit (the first ten
// dictionary entries) or a Base58 character (every entry after that).
func isDictIDByte(c byte) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return format.IsBase58Byte(c)
}
