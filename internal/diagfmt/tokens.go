package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"flow/internal/source"
	"flow/internal/token"
)

type TokenOutput struct {
	Kind   string `json:"kind" yaml:"kind"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	Line   uint32 `json:"line" yaml:"line"`
	Column uint32 `json:"column" yaml:"column"`
	Start  uint32 `json:"start" yaml:"start"`
	End    uint32 `json:"end" yaml:"end"`
}

func tokenOutput(tok token.Token) TokenOutput {
	out := TokenOutput{
		Kind:   tok.Kind.String(),
		Line:   tok.Pos.Line,
		Column: tok.Pos.Col,
		Start:  tok.Span.Start,
		End:    tok.Span.End,
	}
	if n, ok := tok.Value.Int(); ok {
		out.Value = n
	} else if s, ok := tok.Value.Text(); ok {
		out.Value = s
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
//
//	  1: NUMBER          12 at 1:1-1:3
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := tok.Pos, tok.Pos
		if fs != nil {
			startPos, endPos = fs.Resolve(tok.Span)
		}

		if _, err := fmt.Fprintf(w, "%3d: %-17s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Value.Present() {
			if _, isNum := tok.Value.Int(); isNum {
				fmt.Fprintf(w, " %s", tok.Value)
			} else {
				fmt.Fprintf(w, " %q", tok.Value.String())
			}
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", startPos.Line, startPos.Col, endPos.Line, endPos.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, tokenOutput(tok))
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
