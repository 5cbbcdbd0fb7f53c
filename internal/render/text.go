package render

import (
	"bufio"
	"io"
	"strings"

	"poultrydx/pkg/types"
)

// Text writes v as Markdown-flavoured plain text for terminals.
func Text(w io.Writer, v types.View) error {
	bw := bufio.NewWriter(w)
	if v.Kind == types.KindUnstructured {
		bw.WriteString("WARNING: " + v.Warning + "\n\n")
		bw.WriteString("```\n" + v.Code)
		if !strings.HasSuffix(v.Code, "\n") {
			bw.WriteString("\n")
		}
		bw.WriteString("```\n\n")
		bw.WriteString(v.Hint + "\n")
		return bw.Flush()
	}

	bw.WriteString(v.Success + "\n")
	for _, s := range v.Sections {
		bw.WriteString("\n## " + s.Title + "\n")
		for _, l := range s.Lines {
			bw.WriteString(l + "\n")
		}
		for _, it := range s.Items {
			bw.WriteString("- " + it + "\n")
		}
	}
	return bw.Flush()
}

// Error writes a terminal failure for a submission.
func Error(w io.Writer, err error) error {
	_, werr := io.WriteString(w, "ERROR: Request failed: "+err.Error()+"\n")
	return werr
}
