// Package trace provides pipeline tracing for the Flow toolchain.
//
// Enable tracing via command-line flags:
//
//	flow run --trace=- --trace-level=phase examples/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - LogTracer: writes events through zerolog (console text or NDJSON)
//   - DiagReporter: forwards diagnostics as point events
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelPhase: driver and pass boundaries (lex, parse, eval)
//   - LevelDetail: per-file events in batch runs
//   - LevelDebug: everything including individual diagnostics
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
