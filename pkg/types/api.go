package types

// Species is one of the bird kinds the workflow knows how to reason about.
type Species string

const (
	SpeciesChicken Species = "chicken"
	SpeciesDuck    Species = "duck"
	SpeciesTurkey  Species = "turkey"
	SpeciesQuail   Species = "quail"
)

// AllSpecies lists the accepted species in display order.
var AllSpecies = []Species{SpeciesChicken, SpeciesDuck, SpeciesTurkey, SpeciesQuail}

// Valid reports whether s is one of AllSpecies.
func (s Species) Valid() bool {
	for _, k := range AllSpecies {
		if s == k {
			return true
		}
	}
	return false
}

// DiagnosisRequest is the payload POSTed to the webhook.
type DiagnosisRequest struct {
	// Bird species.
	// example: chicken
	Species Species `json:"species" example:"chicken"`
	// Age of the flock in weeks (non-negative).
	// example: 10
	AgeWeeks int `json:"age_weeks" example:"10"`
	// Observed symptoms, whitespace-trimmed.
	// example: coughing, watery diarrhea
	Symptoms string `json:"symptoms" example:"coughing, watery diarrhea"`
}

// ResponseKind tells which rendering path a DiagnosisResponse takes.
type ResponseKind string

const (
	KindStructured   ResponseKind = "structured"
	KindUnstructured ResponseKind = "unstructured"
)

// Remedy groups the action lists of a structured diagnosis.
type Remedy struct {
	ImmediateSteps []string `json:"immediate_steps,omitempty"`
	TreatmentPlan  []string `json:"treatment_plan,omitempty"`
}

// DiagnosisResponse is the interpreted webhook reply for one request.
// Pointer fields are nil when the webhook omitted them.
type DiagnosisResponse struct {
	// Which rendering path applies.
	// example: structured
	Kind ResponseKind `json:"kind" example:"structured"`
	// example: Coccidiosis
	Diagnosis *string `json:"diagnosis,omitempty" example:"Coccidiosis"`
	// Confidence as sent by the workflow; numbers and booleans are kept as their JSON text.
	// example: high
	Confidence *string `json:"confidence,omitempty" example:"high"`
	// example: medium
	RiskLevel  *string  `json:"risk_level,omitempty" example:"medium"`
	Remedy     Remedy   `json:"remedy"`
	RedFlags   []string `json:"red_flags,omitempty"`
	References []string `json:"references,omitempty"`
	// Only set on the unstructured variant.
	RawText *string `json:"raw_text,omitempty"`
}

// Structured reports whether the response carries a diagnosis.
func (r DiagnosisResponse) Structured() bool { return r.Kind == KindStructured }

// Section is one titled block of a rendered view.
type Section struct {
	// example: Immediate Steps
	Title string `json:"title" example:"Immediate Steps"`
	// Plain lines shown under the title, in order.
	Lines []string `json:"lines,omitempty"`
	// Items rendered as a bulleted list, in order.
	Items []string `json:"items"`
}

// View is the presentation-ready form of a DiagnosisResponse.
type View struct {
	Kind ResponseKind `json:"kind" example:"structured"`
	// Success line for structured results.
	// example: ✅ Diagnosis received
	Success string `json:"success,omitempty"`
	// Warning banner for unstructured results.
	Warning string `json:"warning,omitempty"`
	// Raw webhook output shown verbatim in a code block.
	Code string `json:"code,omitempty"`
	// Hint shown after the raw output.
	Hint     string    `json:"hint,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// DiagnoseResponse is returned by POST /api/diagnose.
type DiagnoseResponse struct {
	// Submission id.
	// example: 0b6c3f8e-3f5a-4d9b-9a55-0e1f3c2b7a10
	ID string `json:"id" example:"0b6c3f8e-3f5a-4d9b-9a55-0e1f3c2b7a10"`
	// Terminal state of the submission.
	// example: success_structured
	State    string            `json:"state" example:"success_structured"`
	Response DiagnosisResponse `json:"response"`
	View     View              `json:"view"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
