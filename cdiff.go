// Package cdiff implements a compact textual diff/patch codec for
// line-oriented text, with a secondary byte-oriented binary mode. Given two
// versions of content it produces a Patch: an ordered sequence of wire-format
// command lines that, applied to the first version, reconstructs the
// second. Patches can be applied forward, inverted and reapplied to roll a
// change back, and optionally passed through a secondary dictionary
// compression stage that deduplicates repeated fragments within the patch
// itself.
package cdiff

import "errors"

// Patch is an ordered sequence of wire-format lines (see internal/format
// for the command grammar). It is the one artifact CreatePatch, ApplyPatch,
// InvertPatch, Compress and Decompress all operate on.
type Patch []string

// Sentinel errors, checkable with errors.Is.
var (
	// ErrUnsafeInvert is returned by InvertPatch when the patch contains an
	// unsafe command (X, X+, x, x*) that carries no anchor content to swap.
	ErrUnsafeInvert = errors.New("cdiff: patch contains an unsafe command and cannot be inverted")

	// ErrGranularityUnsupported is returned by CreatePatch when
	// Options.Granularity is "chars", which spec.md §4.3 explicitly leaves
	// unimplemented.
	ErrGranularityUnsupported = errors.New("cdiff: granularity \"chars\" is not implemented")

	// ErrNotCompressed is returned by Decompress when its input does not
	// begin with the "~" magic header.
	ErrNotCompressed = errors.New("cdiff: patch is not compressed")

	// ErrAnchorMismatch is returned (in strict mode only) when a deletion's
	// declared content does not match the source span it claims to remove.
	ErrAnchorMismatch = errors.New("cdiff: anchor content does not match source")
)

// Options configures CreatePatch.
type Options struct {
	// Granularity is "mixed" (default), "lines", or "chars" (unimplemented,
	// returns ErrGranularityUnsupported).
	Granularity string

	// DeletionStrategy is "safe" (default, emits D/D+), "unsafe" (emits
	// X/X+, not invertible), or a func(content string, lineNum int) string
	// returning "safe"/"unsafe" per line.
	DeletionStrategy any

	// IncludeEqualMode is "none" (default), "inline", "separate", or
	// "context".
	IncludeEqualMode string

	// IncludeContextLines is the window size for IncludeEqualMode="context".
	IncludeContextLines int

	// IncludeCharEquals forces C2 to also emit e commands. Implied true by
	// IncludeEqualMode="context".
	IncludeCharEquals bool

	// Compress runs the result through Compress before returning it.
	Compress bool

	// Optimal, when Compress is set, returns whichever of the compressed or
	// uncompressed serialization is shorter.
	Optimal bool

	// ValidationLevel is "none" (default), "apply" (round-trip via
	// ApplyPatch), or "all-invert" (also invert and reapply), checked
	// before CreatePatch returns.
	ValidationLevel string

	// DiffStrategyName is "myers" (default), "patience", or
	// "preserve-structure" — see internal/diffengine.
	DiffStrategyName string

	// Mode is "text" (default) or "binary".
	Mode string
}

// ApplyOptions configures ApplyPatch.
type ApplyOptions struct {
	StrictMode bool
	OnWarning  func(string)
	Mode       string // "text" | "binary"

	// IncludeCharEquals mirrors Options.IncludeCharEquals. ApplyPatch does
	// not read it: e commands are always parsed, without warnings, and are
	// inert during application.
	IncludeCharEquals bool
}

// CompressOptions carries the Pass 2a string-fragment-mining tuning knobs
// from spec.md §4.5.
type CompressOptions struct {
	SeedLength int // default 12
	Overhead   int // default 2
	Threshold  int // default 16
}

func (o CompressOptions) withDefaults() CompressOptions {
	if o.SeedLength <= 0 {
		o.SeedLength = 12
	}
	if o.Overhead <= 0 {
		o.Overhead = 2
	}
	if o.Threshold <= 0 {
		o.Threshold = 16
	}
	return o
}
