package diagnosis

import (
	"poultrydx/pkg/types"
)

// Placeholder stands in for absent optional fields.
const Placeholder = "—"

const (
	ProgressText    = "Contacting the AI workflow..."
	SuccessText     = "✅ Diagnosis received"
	UnstructuredMsg = "The workflow returned unstructured text. Showing raw output below."
	UnstructuredTip = "Tip: Ensure your n8n Code node parses JSON and Respond to Webhook returns {{$json}} as JSON."

	TitleDiagnosis      = "Diagnosis"
	TitleImmediateSteps = "Immediate Steps"
	TitleTreatmentPlan  = "Treatment Plan"
	TitleRedFlags       = "⚠️ Red Flags"
	TitleReferences     = "📚 References"
)

// Render lays out resp. Unstructured responses get a warning, the raw text and
// a hint; structured ones get the success line followed by Diagnosis,
// Immediate Steps, Treatment Plan, then Red Flags and References when those
// are non-empty.
func Render(resp types.DiagnosisResponse) types.View {
	if !resp.Structured() {
		raw := ""
		if resp.RawText != nil {
			raw = *resp.RawText
		}
		return types.View{
			Kind:    types.KindUnstructured,
			Warning: UnstructuredMsg,
			Code:    raw,
			Hint:    UnstructuredTip,
		}
	}

	v := types.View{Kind: types.KindStructured, Success: SuccessText}
	v.Sections = append(v.Sections,
		types.Section{
			Title: TitleDiagnosis,
			Lines: []string{
				orPlaceholder(resp.Diagnosis),
				"Confidence: " + orPlaceholder(resp.Confidence) + "  ·  Risk: " + orPlaceholder(resp.RiskLevel),
			},
			Items: []string{},
		},
		listSection(TitleImmediateSteps, resp.Remedy.ImmediateSteps),
		listSection(TitleTreatmentPlan, resp.Remedy.TreatmentPlan),
	)
	if len(resp.RedFlags) > 0 {
		v.Sections = append(v.Sections, listSection(TitleRedFlags, resp.RedFlags))
	}
	if len(resp.References) > 0 {
		v.Sections = append(v.Sections, listSection(TitleReferences, resp.References))
	}
	return v
}

func listSection(title string, items []string) types.Section {
	return types.Section{Title: title, Items: append([]string{}, items...)}
}

func orPlaceholder(s *string) string {
	if s == nil {
		return Placeholder
	}
	return *s
}
