package parser

import (
	"fmt"
	"strings"
	"testing"

	"flow/internal/diag"
	"flow/internal/source"
)

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Text())
	}
	return strings.Join(lines, "; ")
}

// parseTestInput parses input from a virtual file and returns the tree with its file.
func parseTestInput(t *testing.T, input string, opts Options) (*Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.flow", []byte(input))
	file := fs.Get(id)
	return New(file, opts).Parse(), file
}
