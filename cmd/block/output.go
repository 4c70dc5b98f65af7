package main

import (
	"encoding/json"
	"fmt"
	"io"

	"block-lang/internal/diag"
	"block-lang/internal/span"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// diagsToSlice converts diagnostics to JSON-ready maps, with label positions resolved to
// lines and columns of source.
func diagsToSlice(source string, diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		labels := make([]map[string]interface{}, len(d.Labels))
		for j, l := range d.Labels {
			s := span.Widen(source, l.Span)
			labels[j] = map[string]interface{}{
				"style":   l.Style.String(),
				"message": l.Message,
				"start":   positionToMap(s.Start),
				"end":     positionToMap(s.End),
			}
		}
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"labels":   labels,
		}
		if len(d.Notes) > 0 {
			result[i]["notes"] = d.Notes
		}
	}
	return result
}

func positionToMap(p span.Position) map[string]interface{} {
	return map[string]interface{}{
		"index":  p.Index,
		"line":   p.Line,
		"column": p.Column,
	}
}
