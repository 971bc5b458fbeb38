package pipeline

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salescope/internal/utils"
)

// Markdown renders the collected sections as a Markdown document.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("# Sales Analysis Report\n\n")
	fmt.Fprintf(&b, "- Input: `%s`\n", r.Input)
	fmt.Fprintf(&b, "- Total column: `%s`\n", r.TotalColumn)
	fmt.Fprintf(&b, "- Run: `%s`\n\n", r.RunID)
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n```\n%s\n```\n\n", s.Title, strings.TrimRight(s.Body, "\n"))
	}
	if len(r.Charts) > 0 {
		b.WriteString("## Charts\n\n")
		for _, p := range r.Charts {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteReport saves the result as JSON or Markdown depending on the path extension.
func WriteReport(path string, r *Result) error {
	var data []byte
	switch ReportFormat(path) {
	case "json":
		b, err := utils.PrettyJSON(r)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		data = b
	default:
		data = []byte(r.Markdown())
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
