// Package logging provides the default warning sink createPatch/applyPatch
// report lenient recoveries through (anchor mismatches, truncated blocks,
// dropped segments). It wraps zerolog the way the teacher's own services
// reach for github.com/rs/zerolog/log: a package-level logger configured
// once, console-pretty in development and JSON otherwise.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Sink receives warnings and debug summaries emitted during patch creation
// and application. The zero value of Logger satisfies it, so callers who
// don't care about diagnostics can simply not pass one (see
// internal/logging.Discard).
type Sink interface {
	Warn(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
}

// Logger adapts a zerolog.Logger to the Sink interface.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing to w. Pretty selects zerolog's human-readable
// console writer (for CLI use); false emits structured JSON (for embedding
// in services that already aggregate JSON logs).
func New(w io.Writer, pretty bool) Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// Default returns a pretty Logger writing to stderr, the sink CreatePatch
// and ApplyPatch fall back to when the caller doesn't supply one.
func Default() Logger {
	return New(os.Stderr, true)
}

// Discard is a Sink that drops every warning, for callers (tests, library
// embedders that route diagnostics elsewhere) that want silence.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(string, map[string]any)  {}
func (discardSink) Debug(string, map[string]any) {}

// Warn implements Sink.
func (l Logger) Warn(msg string, fields map[string]any) {
	ev := l.zl.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Debug implements Sink. CreatePatch uses this to report PatchStats, the way
// the teacher's collector logs a debug-level summary after assembling a
// bundle.
func (l Logger) Debug(msg string, fields map[string]any) {
	ev := l.zl.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
