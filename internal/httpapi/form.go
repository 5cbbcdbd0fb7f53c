package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"poultrydx/internal/diagnosis"
	"poultrydx/internal/render"
	"poultrydx/internal/submit"
	"poultrydx/internal/webhook"
	"poultrydx/pkg/types"
)

const (
	defaultAgeWeeks = 10
	defaultSymptoms = "coughing, watery diarrhea"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>🐔 Poultry Symptom Checker</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{font-family:system-ui,sans-serif;max-width:46rem;margin:2rem auto;padding:0 1rem}
label{display:block;margin-top:1rem}
textarea{width:100%;height:6rem}
.alert{padding:.75rem 1rem;border-radius:.4rem;margin:1rem 0}
.success{background:#e6f4ea}.warning{background:#fff4e5}.info{background:#e8f0fe}.error{background:#fde7e9}
pre{background:#f6f8fa;padding:1rem;overflow:auto}
</style>
</head>
<body>
<h1>🐔 Poultry Symptom Checker</h1>
<p><small>AI-powered diagnosis from your n8n workflow.</small></p>
<form method="post" action="/diagnose" onsubmit="this.querySelector('button').disabled=true;document.getElementById('progress').hidden=false">
<label>Species
<select name="species">{{range .Species}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>{{end}}</select>
</label>
<label>Age (weeks)
<input type="number" name="age_weeks" min="0" step="1" value="{{.AgeWeeks}}">
</label>
<label>Symptoms (comma-separated)
<textarea name="symptoms">{{.Symptoms}}</textarea>
</label>
<p><button type="submit">Diagnose</button></p>
<p id="progress" class="alert info" hidden>{{.Progress}}</p>
</form>
{{if .Error}}<div class="alert error">{{.Error}}</div>{{end}}
{{.Result}}
</body>
</html>
`))

type pageData struct {
	Species  []types.Species
	Selected types.Species
	AgeWeeks int
	Symptoms string
	Progress string
	Error    string
	Result   template.HTML
}

func newPageData() pageData {
	return pageData{
		Species:  types.AllSpecies,
		Selected: types.SpeciesChicken,
		AgeWeeks: defaultAgeWeeks,
		Symptoms: defaultSymptoms,
		Progress: diagnosis.ProgressText,
	}
}

func writePage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// resultHTML renders a successful outcome's view as an HTML fragment.
func resultHTML(o submit.Outcome) (template.HTML, error) {
	if o.View == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, *o.View); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// userMessage phrases a failed submission for the form.
func userMessage(err error) string {
	switch {
	case webhook.IsConfigurationError(err):
		return "Please set your Production Webhook URL (POULTRYDX_WEBHOOK_URL or --webhook-url). " + err.Error()
	case submit.IsValidationError(err):
		return err.Error()
	default:
		return "Request failed: " + err.Error()
	}
}
