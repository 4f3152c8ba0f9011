package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"flow/internal/diag"
	"flow/internal/source"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf, RunID: "run-1"})
	if err != nil {
		t.Fatal(err)
	}

	root := Begin(tr, ScopeDriver, "eval", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	pass.WithExtra("tokens", "5").End("ok")
	// file scope is filtered at LevelPhase
	Begin(tr, ScopeFile, "file:a.flow", root.ID()).End("")
	root.End("")

	events := decodeLines(t, &buf)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %s", len(events), buf.String())
	}
	if events[0]["kind"] != "begin" || events[0]["message"] != "→ eval" {
		t.Fatalf("unexpected first event: %v", events[0])
	}
	if events[2]["tokens"] != "5" || events[2]["detail"] != "ok" {
		t.Fatalf("expected extra and detail on end event: %v", events[2])
	}
	for _, ev := range events {
		if ev["run_id"] != "run-1" {
			t.Fatalf("missing run_id: %v", ev)
		}
	}
}

func TestLogTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogTracer(&buf, nil, LevelDebug, FormatText, "")
	Point(tr, ScopeNode, "token", "NUMBER", 0)
	if !strings.Contains(buf.String(), "• token") {
		t.Fatalf("expected console line, got %q", buf.String())
	}
}

func TestNopTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff must produce a disabled tracer")
	}
	sp := Begin(tr, ScopeDriver, "x", 0)
	if sp.ID() != 0 || sp.End("") != 0 {
		t.Fatal("nop span must be inert")
	}
	if Reporter(tr, 0) != nil {
		t.Fatal("Reporter must be nil for a disabled tracer")
	}
}

func TestDiagReporter(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogTracer(&buf, nil, LevelDebug, FormatNDJSON, "")
	r := Reporter(tr, 7)
	r.Report(diag.LexUnknownChar, diag.SevError, source.Span{}, source.LineCol{Line: 1, Col: 2}, "unknown character '@'", nil)

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	ev := events[0]
	if ev["message"] != "• diag:LEX1001" || ev["detail"] != "unknown character '@' at line 1, column 2." {
		t.Fatalf("unexpected event %v", ev)
	}
	if ev["parent"] != float64(7) {
		t.Fatalf("expected parent 7, got %v", ev["parent"])
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}

	if DetectFormat("trace.ndjson") != FormatNDJSON || DetectFormat("-") != FormatText {
		t.Error("unexpected DetectFormat result")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop without tracer")
	}
	tr := NewLogTracer(&bytes.Buffer{}, nil, LevelPhase, FormatText, "")
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated")
	}
	if ParentFrom(ctx) != 0 {
		t.Fatal("unexpected parent")
	}
	span := Begin(tr, ScopeDriver, "run", 0)
	ctx = WithParent(ctx, span)
	if ParentFrom(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("parent = %d, span = %d", ParentFrom(ctx), span.ID())
	}
	child := span.Child(ScopePass, "parse")
	if child.ID() == 0 || child.ID() == span.ID() {
		t.Fatalf("child id = %d", child.ID())
	}
	if Begin(tr, ScopeNode, "node", 0).ID() != 0 {
		t.Fatal("node scope must be filtered at phase level")
	}
}
