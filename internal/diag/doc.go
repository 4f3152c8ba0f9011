// Package diag defines the diagnostic model shared by the lexer and the parser.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable ID such as LEX1001.
//   - Message – human oriented text without position, e.g. "unknown character '@'".
//   - Primary span and Pos – where the problem is; Pos is zero for whole-input findings.
//   - Notes – optional secondary locations (e.g. the opening parenthesis).
//
// Text and Line add the position and the closing period, producing the
// single-line form "ERROR: unknown character '@' at line 1, column 3.".
//
// # Emitting diagnostics
//
// Phases report through a Reporter. BagReporter stores into a Bag, which is
// append-only, bounded by its limit and hands out copies from Items.
// MultiReporter fans a report out, e.g. to a Bag and to a tracing sink.
//
// Package diag performs no IO; rendering lives in internal/diagfmt.
package diag
