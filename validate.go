package cdiff

import (
	"fmt"
	"strings"

	"cdiff/internal/format"
	"cdiff/internal/validate"
)

// Validate parses patch and checks it against the structural invariants
// SPEC_FULL.md §8 documents (coordinate ordering, block count/content
// agreement, segment non-overlap), without applying it to any source text.
// A patch CreatePatch produced always passes; this exists for patches built
// or edited by hand. A compressed patch is transparently decompressed first.
//
// Parser-level diagnostics (truncated blocks) also make Validate fail: they
// are folded into the returned error alongside any structural issue
// validate.Commands finds, so a caller sees the complete picture at once.
// Unrecognized lines are folded to RawPass by the parser without a
// diagnostic and are not reported.
func Validate(patch Patch) error {
	lines := []string(patch)
	if IsCompressed(patch) {
		decompressed, err := Decompress(patch)
		if err != nil {
			return err
		}
		lines = []string(decompressed)
	}
	cmds, diags := format.ParsePatch(lines, format.Decimal)
	if err := validate.Commands(cmds); err != nil {
		if len(diags) == 0 {
			return err
		}
		return fmt.Errorf("%w; %s", err, strings.Join(diags, "; "))
	}
	if len(diags) > 0 {
		return fmt.Errorf("cdiff: %s", strings.Join(diags, "; "))
	}
	return nil
}
