package webhook

import (
	"strings"

	"poultrydx/pkg/types"
)

// Build assembles the webhook payload. Species and age are expected to be
// validated at the input boundary; symptoms are trimmed and otherwise left as is.
func Build(species types.Species, ageWeeks int, symptoms string) types.DiagnosisRequest {
	return types.DiagnosisRequest{
		Species:  species,
		AgeWeeks: ageWeeks,
		Symptoms: strings.TrimSpace(symptoms),
	}
}
