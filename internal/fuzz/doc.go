// Package fuzztests holds Go fuzz harnesses for the lex -> parse -> eval pipeline.
// Every harness checks that arbitrary input never panics and that the
// structural guarantees of each stage hold.
//
//	go test ./internal/fuzz -run=^$ -fuzz=FuzzParser -fuzztime=30s
package fuzztests
