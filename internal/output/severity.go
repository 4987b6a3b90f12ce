package output

import "github.com/charmbracelet/lipgloss"

// severityColors draws on the Catppuccin Mocha palette internal/cli uses for
// its help card: critical, high and medium use the card's colors; low, which
// the card prints together with medium in yellow, is green here.
var severityColors = map[string]lipgloss.Color{
	"critical": lipgloss.Color("#f38ba8"),
	"high":     lipgloss.Color("#fab387"),
	"medium":   lipgloss.Color("#f9e2af"),
	"low":      lipgloss.Color("#a6e3a1"),
}

// colorizeSeverity renders sev bold in its severity color, or plain if sev
// isn't one of the four recognized labels.
func colorizeSeverity(sev string) string {
	c, ok := severityColors[sev]
	if !ok {
		return sev
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(sev)
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(severityColors["low"])
}

func deniedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(severityColors["critical"])
}
