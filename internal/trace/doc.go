// Package trace is the logging layer of nuir.
//
// Events are structured (scope, name, detail, key/value extras) and flow to a
// Tracer chosen from command-line flags. Tracers travel through the pipeline
// inside a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "irgen", parentID)
//	defer span.End("")
//
// # Implementations
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for crash dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass boundaries, LevelDetail adds per-file
// events, LevelDebug adds one event per lowered AST node.
package trace
