// Package logging provides leveled logging and selection-transition tracing
// for demodash. It offers two outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TransitionLogger for JSONL traces of applied events (transitions.jsonl)
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level every
// auto-advance tick and rendered image is logged as well.
const LevelTrace = slog.LevelDebug - 4

// TransitionsFile is the name of the transition trace inside the log dir.
const TransitionsFile = "transitions.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TransitionLogger appends one JSON line per applied selection event.
// A nil *TransitionLogger discards everything.
type TransitionLogger struct {
	out *JSONL
	now func() time.Time
}

// OpenTransitionLogger opens dir/transitions.jsonl for append when level is
// debug or trace. At info it returns nil and creates nothing, as it does
// when the file cannot be opened.
func OpenTransitionLogger(dir, level string) *TransitionLogger {
	if ParseLevel(level) > slog.LevelDebug {
		return nil
	}
	out, err := OpenJSONL(dir, TransitionsFile)
	if err != nil {
		return nil
	}
	return &TransitionLogger{out: out, now: time.Now}
}

// NewTransitionLogger wraps an arbitrary sink.
func NewTransitionLogger(w io.WriteCloser) *TransitionLogger {
	return &TransitionLogger{out: NewJSONL(w), now: time.Now}
}

type transitionEntry struct {
	Time   string `json:"time"`
	Event  string `json:"event"`
	Before any    `json:"before"`
	After  any    `json:"after"`
}

// Record writes {time, event, before, after}. Write failures are dropped.
func (l *TransitionLogger) Record(event string, before, after any) {
	if l == nil {
		return
	}
	_ = l.out.Append(transitionEntry{
		Time:   l.now().UTC().Format(time.RFC3339Nano),
		Event:  event,
		Before: before,
		After:  after,
	})
}

// Close closes the sink. Safe to call on nil receiver and more than once.
func (l *TransitionLogger) Close() error {
	if l == nil {
		return nil
	}
	return l.out.Close()
}
