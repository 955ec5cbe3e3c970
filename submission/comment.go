package submission

import (
	"fmt"
	"strings"
)

// CommentInfo describes one batch for the hosted report's comment line.
// MOSS renders the comment as HTML at the top of the report, so the output
// uses <b> and <br> markup.
type CommentInfo struct {
	BaseFiles      string
	Solutions      string
	MaxSubmissions int
	Batch          []string
}

func (ci CommentInfo) String() string {
	var parts []string
	if ci.BaseFiles != "" {
		parts = append(parts, "<b>Base files:</b> "+ci.BaseFiles)
	}
	if ci.Solutions != "" {
		parts = append(parts, "<b>Solutions:</b> "+ci.Solutions)
	}
	if ci.MaxSubmissions > 0 {
		parts = append(parts, fmt.Sprintf("<b>Max submissions:</b> %d", ci.MaxSubmissions))
		if len(ci.Batch) > 0 {
			parts = append(parts, "<b>Submissions in this batch:</b><br>"+strings.Join(ci.Batch, "<br>"))
		}
	}
	return strings.Join(parts, "<br><br>")
}
