package render

import (
	"html/template"
	"io"

	"poultrydx/pkg/types"
)

var viewTmpl = template.Must(template.New("view").Parse(`{{if eq .Kind "unstructured" -}}
<div class="alert warning">{{.Warning}}</div>
<pre><code>{{.Code}}</code></pre>
<div class="alert info">{{.Hint}}</div>
{{- else -}}
<div class="alert success">{{.Success}}</div>
{{range .Sections}}<section>
<h3>{{.Title}}</h3>
{{range $i, $l := .Lines}}{{if eq $i 0}}<p><strong>{{$l}}</strong></p>{{else}}<p><em>{{$l}}</em></p>{{end}}
{{end}}{{if .Items}}<ul>
{{range .Items}}<li>{{.}}</li>
{{end}}</ul>
{{end}}</section>
{{end}}{{end}}`))

// HTML writes v as an HTML fragment. All webhook text is escaped.
func HTML(w io.Writer, v types.View) error {
	return viewTmpl.Execute(w, v)
}
