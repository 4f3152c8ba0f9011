package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"flow/internal/diag"
	"flow/internal/source"
)

// Lines renders diagnostics in the single-line compatibility form "ERROR: <text>".
func Lines(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Line()
	}
	return out
}

type palette struct {
	sev   map[diag.Severity]*color.Color
	caret *color.Color
	note  *color.Color
	dim   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		caret: color.New(color.FgRed, color.Bold),
		note:  color.New(color.FgCyan),
		dim:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.caret, p.note, p.dim, p.sev[diag.SevError], p.sev[diag.SevWarning], p.sev[diag.SevInfo]} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатается строка совместимого формата
//
//	ERROR: expected NUMBER but got END OF FILE at line 1, column 3.
//
// затем (ShowSource) место в файле, строка исходника и каретка под колонкой,
// затем (ShowNotes) заметки. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	sevColor, ok := pal.sev[d.Severity]
	if !ok {
		sevColor = pal.sev[diag.SevError]
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", sevColor.Sprint(d.Severity.String()), d.Text()); err != nil {
		return err
	}

	var file *source.File
	if fs != nil {
		file = fs.Get(d.Primary.File)
	}
	if opts.ShowSource && file != nil && !d.Pos.IsZero() {
		if err := writeSnippet(w, file, fs, d, opts, pal); err != nil {
			return err
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			text := n.Msg
			if !n.Pos.IsZero() {
				text += fmt.Sprintf(" at line %d, column %d", n.Pos.Line, n.Pos.Col)
			}
			if _, err := fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("= note:"), text); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeSnippet печатает
//
//	 --> path:1:3 [SYN2001]
//	  |
//	1 | 2+
//	  |   ^
func writeSnippet(w io.Writer, file *source.File, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts, pal palette) error {
	lineNo := strconv.FormatUint(uint64(d.Pos.Line), 10)
	gutter := strings.Repeat(" ", len(lineNo)+1)
	path := displayPath(file, fs, opts.PathMode)

	line := expandTabs(file.Line(d.Pos.Line))
	pad := caretOffset(line, d.Pos.Col)
	carets := "^"
	if width := spanWidth(file, d); width > 1 {
		carets += strings.Repeat("~", width-1)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s %s:%d:%d [%s]\n", gutter[1:], pal.dim.Sprint("-->"), path, d.Pos.Line, d.Pos.Col, d.Code.ID())
	fmt.Fprintf(&sb, "%s%s\n", gutter, pal.dim.Sprint("|"))
	fmt.Fprintf(&sb, "%s %s %s\n", lineNo, pal.dim.Sprint("|"), line)
	fmt.Fprintf(&sb, "%s%s %s%s\n", gutter, pal.dim.Sprint("|"), strings.Repeat(" ", pad), pal.caret.Sprint(carets))
	_, err := io.WriteString(w, sb.String())
	return err
}

// caretOffset returns the display width of the first col-1 runes of line.
func caretOffset(line string, col uint32) int {
	if col <= 1 {
		return 0
	}
	runes := []rune(line)
	n := int(col - 1)
	if n > len(runes) {
		// колонка за концом строки (EOF): дополняем пробелами
		return runewidth.StringWidth(line) + n - len(runes)
	}
	return runewidth.StringWidth(string(runes[:n]))
}

// spanWidth is the display width of the primary span, clipped to its first line.
func spanWidth(file *source.File, d diag.Diagnostic) int {
	sp := d.Primary
	if sp.Empty() || int(sp.End) > len(file.Content) || sp.Start > sp.End {
		return 1
	}
	text := string(file.Content[sp.Start:sp.End])
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return max(1, runewidth.StringWidth(expandTabs(text)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
