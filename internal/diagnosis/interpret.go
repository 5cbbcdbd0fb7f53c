package diagnosis

import (
	"bytes"
	"encoding/json"
	"strings"

	"poultrydx/pkg/types"
)

// Interpret classifies a webhook body. Order matters:
//  1. the whole body as a JSON object;
//  2. the substring from the first '{' to the last '}' of the trimmed body;
//  3. otherwise the trimmed body as raw text.
//
// An object without a "diagnosis" key is reported as unstructured too.
func Interpret(body []byte) types.DiagnosisResponse {
	text := strings.TrimSpace(string(body))

	obj, ok := decodeObject(body)
	if !ok {
		obj, ok = decodeObject(extractBraced(text))
	}
	if !ok {
		return unstructured(text)
	}
	if _, has := obj["diagnosis"]; !has {
		if raw, isStr := obj["raw_text"].(string); isStr {
			return unstructured(raw)
		}
		return unstructured(text)
	}
	return structured(obj)
}

// extractBraced returns text[first '{' : last '}'+1], or nil when there is no
// such span. Nested or multiple objects are not balanced; the outermost span
// is taken as is.
func extractBraced(text string) []byte {
	s, e := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}')
	if s == -1 || e == -1 || e <= s {
		return nil
	}
	return []byte(text[s : e+1])
}

func decodeObject(b []byte) (map[string]any, bool) {
	if len(b) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing data makes the document invalid
	if len(bytes.TrimSpace(b[dec.InputOffset():])) != 0 {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func unstructured(raw string) types.DiagnosisResponse {
	return types.DiagnosisResponse{Kind: types.KindUnstructured, RawText: &raw}
}

func structured(obj map[string]any) types.DiagnosisResponse {
	resp := types.DiagnosisResponse{
		Kind:       types.KindStructured,
		Diagnosis:  optionalText(obj["diagnosis"]),
		Confidence: optionalText(obj["confidence"]),
		RiskLevel:  optionalText(obj["risk_level"]),
		RedFlags:   textList(obj["red_flags"]),
		References: textList(obj["references"]),
	}
	if remedy, ok := obj["remedy"].(map[string]any); ok {
		resp.Remedy.ImmediateSteps = textList(remedy["immediate_steps"])
		resp.Remedy.TreatmentPlan = textList(remedy["treatment_plan"])
	}
	return resp
}

// optionalText returns nil for absent or null values.
func optionalText(v any) *string {
	s, ok := scalarText(v)
	if !ok {
		return nil
	}
	return &s
}

// textList accepts an array of values or a lone string. Null entries are skipped.
func textList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalarText(item); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
