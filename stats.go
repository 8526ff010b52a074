package cdiff

import "cdiff/internal/format"

// PatchStats summarizes the shape of a patch, the way the teacher's
// collector logs a debug-level summary after assembling a bundle.
type PatchStats struct {
	Commands      int
	Additions     int
	Deletions     int
	CharEdits     int
	BlockCommands int
}

// Stats parses patch and reports its shape without applying it. CreatePatch
// logs the same summary at debug level once it finishes assembling a patch.
func Stats(patch Patch) (PatchStats, error) {
	cmds, _ := format.ParsePatch([]string(patch), format.Decimal)
	return statsFor(cmds), nil
}

func statsFor(cmds []format.Command) PatchStats {
	var s PatchStats
	for _, cmd := range cmds {
		if cmd.RawPass {
			continue
		}
		s.Commands++
		switch {
		case format.IsBlock(cmd.Op):
			s.BlockCommands++
			switch cmd.Op {
			case format.OpAddBlock:
				s.Additions += cmd.Count
			case format.OpDelBlock, format.OpDelRawBlk:
				s.Deletions += cmd.Count
			}
		case format.IsChar(cmd.Op):
			s.CharEdits++
		case cmd.Op == format.OpAdd:
			s.Additions++
		case cmd.Op == format.OpDel, cmd.Op == format.OpDelRaw:
			s.Deletions++
		}
	}
	return s
}

func (s PatchStats) fields() map[string]any {
	return map[string]any{
		"commands":       s.Commands,
		"additions":      s.Additions,
		"deletions":      s.Deletions,
		"char_edits":     s.CharEdits,
		"block_commands": s.BlockCommands,
	}
}
