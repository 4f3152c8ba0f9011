package driver

import (
	"encoding/json"
	"fmt"

	"flow/internal/diag"
	"flow/internal/observ"
	"flow/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an informational ObsTimings entry; the JSON report is its note.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s for %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, source.LineCol{}, msg).
		WithNote(source.Span{}, source.LineCol{}, string(data))

	// лимит Bag не должен скрывать отчёт о таймингах
	bag.AddAll([]diag.Diagnostic{d})
}
