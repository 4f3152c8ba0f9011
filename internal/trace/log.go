package trace

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogTracer writes events through a zerolog logger.
// Text format uses zerolog.ConsoleWriter, NDJSON writes raw JSON lines.
type LogTracer struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
	level  Level
}

// NewLogTracer creates a tracer over w. closer may be nil.
func NewLogTracer(w io.Writer, closer io.Closer, level Level, format Format, runID string) *LogTracer {
	out := w
	if format != FormatNDJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}
	ctx := zerolog.New(out).With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run_id", runID)
	}
	return &LogTracer{
		logger: ctx.Logger(),
		closer: closer,
		level:  level,
	}
}

// FromLogger wraps an existing logger, e.g. the CLI logger.
func FromLogger(logger zerolog.Logger, level Level) *LogTracer {
	return &LogTracer{logger: logger, level: level}
}

// Emit writes an event if its scope passes the level filter.
func (t *LogTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.logger.Log().
		Uint64("seq", ev.Seq).
		Str("kind", ev.Kind.String()).
		Str("scope", ev.Scope.String()).
		Uint64("span", ev.SpanID)
	if ev.ParentID != 0 {
		e = e.Uint64("parent", ev.ParentID)
	}
	if ev.Detail != "" {
		e = e.Str("detail", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			e = e.Str(k, ev.Extra[k])
		}
	}
	e.Msg(arrow(ev.Kind) + " " + ev.Name)
}

// Flush is a no-op: zerolog writes each event immediately.
func (t *LogTracer) Flush() error {
	return nil
}

// Close closes the underlying file, if the tracer opened one.
func (t *LogTracer) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *LogTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *LogTracer) Enabled() bool {
	return t.level > LevelOff
}
