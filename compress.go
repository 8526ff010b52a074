package cdiff

import (
	"errors"

	"cdiff/internal/compress"
)

// Compress runs the secondary dictionary compressor (spec.md §4.5) over an
// uncompressed patch. The result starts with the "~" magic header and is
// itself a valid Patch.
func Compress(patch Patch, opts CompressOptions) (Patch, error) {
	o := opts.withDefaults()
	out, err := compress.Compress([]string(patch), compress.Options{
		SeedLength: o.SeedLength,
		Overhead:   o.Overhead,
		Threshold:  o.Threshold,
	})
	if err != nil {
		return nil, err
	}
	return Patch(out), nil
}

// Decompress is the exact inverse of Compress. It returns ErrNotCompressed
// if patch does not begin with the "~" magic header.
func Decompress(patch Patch) (Patch, error) {
	out, err := compress.Decompress([]string(patch))
	if err != nil {
		if errors.Is(err, compress.ErrNotCompressed) {
			return nil, ErrNotCompressed
		}
		return nil, err
	}
	return Patch(out), nil
}

// IsCompressed reports whether patch begins with the "~" magic header.
func IsCompressed(patch Patch) bool {
	return compress.IsCompressed([]string(patch))
}
