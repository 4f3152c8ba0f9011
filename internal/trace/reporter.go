package trace

import (
	"flow/internal/diag"
	"flow/internal/source"
)

// DiagReporter turns every reported diagnostic into a node-scope point event.
type DiagReporter struct {
	Tracer Tracer
	Parent uint64
}

// Report implements diag.Reporter.
func (r DiagReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, pos source.LineCol, msg string, _ []diag.Note) {
	if r.Tracer == nil || !r.Tracer.Enabled() {
		return
	}
	d := diag.New(sev, code, primary, pos, msg)
	Point(r.Tracer, ScopeNode, "diag:"+code.ID(), d.Text(), r.Parent)
}

// Reporter returns a DiagReporter for t, or nil when tracing is off,
// so that diag.Combine drops it entirely.
func Reporter(t Tracer, parent uint64) diag.Reporter {
	if t == nil || !t.Enabled() {
		return nil
	}
	return DiagReporter{Tracer: t, Parent: parent}
}
