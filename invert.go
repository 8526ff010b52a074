package cdiff

import (
	"cdiff/internal/chardiff"
	"cdiff/internal/format"
)

// InvertPatch swaps additions and deletions throughout patch so that
// applying the result to the "after" text reproduces the "before" text:
// A<->D, A+<->D+, a<->d, a*<->d*. Coordinates, counts, content and segment
// ordering are preserved literally — swapping is sound because each side's
// content is indexed against the post-swap pre-image (spec.md §4.2, §4.3).
// Equal commands (E/E+) are inert for application and pass through
// unchanged. A patch containing any unsafe command (X, X+, x, x*) has no
// anchor content to swap and cannot be inverted; InvertPatch returns
// ErrUnsafeInvert in that case without emitting a partial result.
func InvertPatch(patch Patch) (Patch, error) {
	cmds, _ := format.ParsePatch([]string(patch), format.Decimal)

	for _, cmd := range cmds {
		if cmd.RawPass {
			continue
		}
		switch cmd.Op {
		case format.OpDelRaw, format.OpDelRawBlk, format.OpCharRaw, format.OpCharRawGrp:
			return nil, ErrUnsafeInvert
		}
	}

	out := make([]format.Command, 0, len(cmds))
	for _, cmd := range cmds {
		switch {
		case cmd.RawPass:
			out = append(out, cmd)
		case cmd.Op == format.OpAdd:
			cmd.Op = format.OpDel
			out = append(out, cmd)
		case cmd.Op == format.OpDel:
			cmd.Op = format.OpAdd
			out = append(out, cmd)
		case cmd.Op == format.OpAddBlock:
			cmd.Op = format.OpDelBlock
			out = append(out, cmd)
		case cmd.Op == format.OpDelBlock:
			cmd.Op = format.OpAddBlock
			out = append(out, cmd)
		case format.IsChar(cmd.Op):
			inv, err := chardiff.Invert([]format.Command{cmd})
			if err != nil {
				return nil, err
			}
			out = append(out, inv...)
		default: // E, E+ and anything else pass through
			out = append(out, cmd)
		}
	}

	return Patch(format.SerializePatch(out, format.Decimal)), nil
}
