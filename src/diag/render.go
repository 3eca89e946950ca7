package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Render writes every diagnostic in diags to w, one per line plus any
// snippet/fix lines, colorized by severity when the output stream is a
// TTY (spec.md §6, "Rendering uses ANSI color when the output is a TTY").
// Color detection is handled by github.com/fatih/color's own NoColor
// logic (checked against os.Stdout/NO_COLOR), the library the retrieved
// pack's terminal-facing tools already depend on.
func Render(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		renderOne(w, d)
	}
}

func renderOne(w io.Writer, d Diagnostic) {
	sev := severityColor(d.Severity).Sprint(d.Severity.String())
	fmt.Fprintf(w, "%s: %s: %s\n", d.Location, sev, d.Message)
	if d.Snippet != "" {
		fmt.Fprintf(w, "  %s\n", d.Snippet)
	}
	if d.Fix != "" {
		fmt.Fprintf(w, "  fix: %s\n", color.GreenString(d.Fix))
	}
}

func severityColor(s Severity) *color.Color {
	switch s {
	case Error:
		return color.New(color.FgRed, color.Bold)
	case Warning:
		return color.New(color.FgYellow)
	case Note:
		return color.New(color.FgCyan)
	case Hint:
		return color.New(color.FgBlue)
	default:
		return color.New()
	}
}
