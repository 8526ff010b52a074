package cdiff

import (
	"fmt"
	"sort"

	"cdiff/internal/chardiff"
	"cdiff/internal/format"
	"cdiff/internal/logging"
	"cdiff/internal/textutil"
)

// ApplyPatch reconstructs the post-application text from oldText and patch,
// following the three-phase algorithm from spec.md §4.4: parse the command
// stream into deletions/additions/char-mods buckets, apply char mods to
// their source lines first, then assemble the result by walking the source
// lines (skipping deletions) and interleaving additions at their target
// position. Anchor mismatches on D/D+ are warned-and-dropped in lenient
// mode (the default) or returned as ErrAnchorMismatch in strict mode; X/X+
// deletions never carry an anchor to check.
func ApplyPatch(oldText string, patch Patch, opts ApplyOptions) (string, error) {
	warn := opts.OnWarning
	if warn == nil {
		sink := logging.Default()
		warn = func(msg string) { sink.Warn(msg, nil) }
	}

	mode := chardiff.Text
	if opts.Mode == "binary" {
		mode = chardiff.Binary
	}

	normalized := textutil.NormalizeLF(oldText)
	sourceLines := textutil.SplitLines(normalized)
	trailingNL := textutil.HasTrailingNewline(normalized)

	cmds, diags := format.ParsePatch([]string(patch), format.Decimal)
	for _, d := range diags {
		warn(d)
	}

	deletions := make(map[int]bool)
	additions := make(map[int][]string)
	var addKeys []int
	charMods := make(map[int][]format.Command)

	addAddition := func(line int, content string) {
		if _, ok := additions[line]; !ok {
			addKeys = append(addKeys, line)
		}
		additions[line] = append(additions[line], content)
	}

	for _, cmd := range cmds {
		if cmd.RawPass {
			continue
		}
		switch cmd.Op {
		case format.OpAdd:
			addAddition(cmd.Coord[0], cmd.Literal)

		case format.OpAddBlock:
			for i, line := range cmd.Content {
				addAddition(cmd.Coord[0]+i, line)
			}

		case format.OpDel:
			line := cmd.Coord[0]
			if line < 1 || line > len(sourceLines) {
				warn(fmt.Sprintf("applyPatch: D at out-of-range line %d", line))
				continue
			}
			if sourceLines[line-1] != cmd.Literal {
				msg := fmt.Sprintf("applyPatch: anchor mismatch at line %d: source has %q, patch expected %q", line, sourceLines[line-1], cmd.Literal)
				if opts.StrictMode {
					return "", fmt.Errorf("%w: %s", ErrAnchorMismatch, msg)
				}
				warn(msg)
				continue
			}
			deletions[line] = true

		case format.OpDelBlock:
			for i, want := range cmd.Content {
				line := cmd.Coord[0] + i
				if line < 1 || line > len(sourceLines) {
					warn(fmt.Sprintf("applyPatch: D+ at out-of-range line %d", line))
					continue
				}
				if sourceLines[line-1] != want {
					msg := fmt.Sprintf("applyPatch: anchor mismatch at line %d: source has %q, patch expected %q", line, sourceLines[line-1], want)
					if opts.StrictMode {
						return "", fmt.Errorf("%w: %s", ErrAnchorMismatch, msg)
					}
					warn(msg)
					continue
				}
				deletions[line] = true
			}

		case format.OpDelRaw:
			deletions[cmd.Coord[0]] = true

		case format.OpDelRawBlk:
			for i := 0; i < cmd.Count; i++ {
				deletions[cmd.Coord[0]+i] = true
			}

		case format.OpEqual, format.OpEqualBlock:
			// context/inline informational commands; inert for application.

		default:
			if format.IsChar(cmd.Op) {
				for _, line := range cmd.Coord {
					charMods[line] = append(charMods[line], cmd)
				}
			}
		}
	}

	// Char-apply phase: replace each modified source line with C2's applied
	// result before the assemble phase consults deletions.
	for line, mods := range charMods {
		if line < 1 || line > len(sourceLines) {
			warn(fmt.Sprintf("applyPatch: char command at out-of-range line %d", line))
			continue
		}
		applied, warnings, err := chardiff.Apply(sourceLines[line-1], mods, chardiff.ApplyOptions{
			Mode:   mode,
			Strict: opts.StrictMode,
		})
		if err != nil {
			return "", err
		}
		for _, w := range warnings {
			warn(w)
		}
		sourceLines[line-1] = applied
	}

	sort.Ints(addKeys)

	var out []string
	targetCounter := 1
	emitted := make(map[int]bool)
	emitReady := func() {
		for {
			adds, ok := additions[targetCounter]
			if !ok || emitted[targetCounter] {
				return
			}
			out = append(out, adds...)
			emitted[targetCounter] = true
			targetCounter++
		}
	}

	for i := 1; i <= len(sourceLines); i++ {
		emitReady()
		if deletions[i] {
			continue
		}
		out = append(out, sourceLines[i-1])
		targetCounter++
	}
	emitReady()
	for _, k := range addKeys {
		if !emitted[k] {
			out = append(out, additions[k]...)
			emitted[k] = true
		}
	}

	return textutil.JoinLinesPreserving(out, trailingNL), nil
}
