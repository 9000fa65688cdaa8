package pagegrade

import (
	"fmt"
	"strings"
)

// FormatReport formats a report for terminal display.
// Failed checks are listed as feedback; a report with none says so.
func FormatReport(r *Report) string {
	if r == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", r.URL)
	fmt.Fprintf(&sb, "Score: %d/100 (HTML %d, CSS %d, JS %d)\n",
		r.Score, evaluationScore(r.HTML), evaluationScore(r.CSS), evaluationScore(r.JS))
	fmt.Fprintf(&sb, "CSS: %s, %s\n", pluralFiles(r.Styles.FileCount), FormatBytes(r.Styles.ByteCount))
	fmt.Fprintf(&sb, "JS: %s, %s\n", pluralFiles(r.Scripts.FileCount), FormatBytes(r.Scripts.ByteCount))

	feedback := r.Feedback()
	if len(feedback) == 0 {
		sb.WriteString("No issues found.\n")
		return sb.String()
	}

	sb.WriteString("Feedback:\n")
	for _, msg := range feedback {
		fmt.Fprintf(&sb, "  - %s\n", msg)
	}
	return sb.String()
}

func evaluationScore(e *Evaluation) int {
	if e == nil {
		return 0
	}
	return e.Score
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatResources formats discovered resource totals for terminal display.
// When withContent is set the collected CSS and JavaScript follow the totals.
func FormatResources(pageURL string, res *Resources, withContent bool) string {
	if res == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", pageURL)
	fmt.Fprintf(&sb, "CSS: %s, %s\n", pluralFiles(res.CSS.FileCount), FormatBytes(res.CSS.ByteCount))
	fmt.Fprintf(&sb, "JS: %s, %s\n", pluralFiles(res.JS.FileCount), FormatBytes(res.JS.ByteCount))
	if !withContent {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n--- CSS ---\n%s\n", res.CSS.Content)
	fmt.Fprintf(&sb, "\n--- JS ---\n%s\n", res.JS.Content)
	return sb.String()
}
