// Package token defines lexical token kinds and token values for Flow.
// Invariants:
//   - Token.Value is present only for Number, Unknown and Whitespace tokens.
//   - Synthetic tokens produced by the parser during recovery never carry a value.
//   - Token.Span covers the raw source bytes of the token; Token.Pos is its resolved start.
package token
