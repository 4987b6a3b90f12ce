// Package cli implements colorized help and a quick reference card using lipgloss.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Catppuccin Mocha color palette
var (
	colorMauve   = lipgloss.Color("#cba6f7") // Title
	colorBlue    = lipgloss.Color("#89b4fa") // Section headers
	colorGreen   = lipgloss.Color("#a6e3a1") // Commands
	colorYellow  = lipgloss.Color("#f9e2af") // Flags
	colorRed     = lipgloss.Color("#f38ba8") // critical severity
	colorPeach   = lipgloss.Color("#fab387") // high severity
	colorCaution = lipgloss.Color("#f9e2af") // medium severity
	colorOverlay = lipgloss.Color("#6c7086") // Muted text
	colorBase    = lipgloss.Color("#1e1e2e") // Background
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMauve).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	flagStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	criticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	highStyle = lipgloss.NewStyle().
			Foreground(colorPeach)

	mediumStyle = lipgloss.NewStyle().
			Foreground(colorCaution)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorOverlay)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Background(colorBase).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

var quickrefCmd = &cobra.Command{
	Use:   "quickref",
	Short: "Print a colorized quick-reference card for common cmdgate commands",
	Run: func(cmd *cobra.Command, args []string) {
		showQuickReference()
	},
}

func init() {
	rootCmd.AddCommand(quickrefCmd)
}

func showQuickReference() {
	width := clampWidth(detectWidth())
	useUnicode := supportsUnicode()

	border := lipgloss.RoundedBorder()
	if !useUnicode {
		border = lipgloss.Border{
			Top:         "-",
			Bottom:      "-",
			Left:        "|",
			Right:       "|",
			TopLeft:     "+",
			TopRight:    "+",
			BottomLeft:  "+",
			BottomRight: "+",
		}
	}

	container := boxStyle.Copy().Border(border).Width(width)

	titleText := " CMDGATE QUICK REFERENCE — Shell Command Safety Gate "
	titleRendered := gradientText(titleText, []lipgloss.Color{colorMauve, colorBlue})
	if !useUnicode {
		titleRendered = "CMDGATE QUICK REFERENCE - Shell Command Safety Gate"
	}
	title := titleStyle.Copy().Width(width - 4).Align(lipgloss.Center).Render(titleRendered)

	validating := renderSection(useUnicode, "🔷 VALIDATE (no side effects)", []string{
		bullet(`cmdgate validate "rm -rf ./build"`, "report matched checks without gating"),
		bullet(`cmdgate validate "git push --force" --severity critical,high`, "restrict to a severity floor"),
	})

	approving := renderSection(useUnicode, "🔶 APPROVE (may open a challenge page)", []string{
		bullet(`cmdgate approve "terraform destroy" --challenge math`, "math challenge on the loopback page"),
		bullet(`cmdgate approve "git push --force" --deny git:force_push`, "force an outright deny by check id"),
		bullet(`cmdgate approve "rm -rf /tmp/x" --challenge block`, "unconditional deny, no page served"),
	})

	executing := renderSection(useUnicode, "🔧 EXEC (validate, approve, then run)", []string{
		bullet(`cmdgate exec "npm test" --propagate-env PATH,HOME`, "only PATH and HOME reach the child"),
		bullet(`cmdgate exec "rm -rf ./dist" --timeout 30000`, "30s challenge timeout before an automatic deny"),
	})

	configuring := renderSection(useUnicode, "🛡️ CONFIG (layered: defaults < user < project < env < flags)", []string{
		bullet(`cmdgate config get challenge.type`, "inspect the merged configuration"),
		bullet(`cmdgate config set validation.allowed_severities critical,high`, "writes the project config file"),
	})

	severities := severityLegend(useUnicode)
	flags := flagLegend(useUnicode)
	footer := footerLegend(useUnicode)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		validating,
		approving,
		executing,
		configuring,
		severities,
		flags,
		footer,
	)

	fmt.Println(container.Render(content))
}

func clampWidth(w int) int {
	if w < 72 {
		return 72
	}
	if w > 100 {
		return 100
	}
	return w
}

func detectWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	// fall back to environment or default
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

func supportsUnicode() bool {
	termEnv := strings.ToLower(os.Getenv("TERM"))
	locale := strings.ToLower(strings.Join([]string{
		os.Getenv("LC_ALL"),
		os.Getenv("LC_CTYPE"),
		os.Getenv("LANG"),
	}, " "))
	if strings.Contains(termEnv, "dumb") {
		return false
	}
	return strings.Contains(locale, "utf-8") || strings.Contains(locale, "utf8")
}

func gradientText(text string, colors []lipgloss.Color) string {
	if len(colors) == 0 || !supportsUnicode() {
		return text
	}
	runes := []rune(text)
	segments := len(colors)
	if segments == 1 {
		return lipgloss.NewStyle().Foreground(colors[0]).Render(text)
	}
	// Handle single character case to avoid division by zero
	if len(runes) <= 1 {
		return lipgloss.NewStyle().Foreground(colors[0]).Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		// simple linear gradient selection
		idx := i * (segments - 1) / (len(runes) - 1)
		b.WriteString(lipgloss.NewStyle().Foreground(colors[idx]).Render(string(r)))
	}
	return b.String()
}

func bullet(command, desc string) string {
	return commandStyle.Render("  "+command) + mutedStyle.Render("  "+desc)
}

func renderSection(useUnicode bool, title string, lines []string) string {
	if !useUnicode {
		title = strings.TrimLeft(title, "🔷🔶🔧🛡️ ") // strip icons for ASCII fallback
	}
	header := sectionStyle.Render(title)
	body := strings.Join(lines, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func severityLegend(useUnicode bool) string {
	crit := "CRITICAL"
	hi := "HIGH"
	med := "MEDIUM/LOW"
	if useUnicode {
		crit = "🔴 " + crit
		hi = "🟠 " + hi
		med = "🟡 " + med
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("🎯 SEVERITY"),
		fmt.Sprintf("  %s   %s   %s", criticalStyle.Render(crit), highStyle.Render(hi), mediumStyle.Render(med)),
	)
}

func flagLegend(useUnicode bool) string {
	prefix := "🚩 GLOBAL FLAGS"
	if !useUnicode {
		prefix = "FLAGS"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(prefix),
		flagStyle.Render("  -j, --json")+mutedStyle.Render("              shorthand for --output=json"),
		flagStyle.Render("  -o, --output <fmt>")+mutedStyle.Render("      text, json, yaml, toon"),
		flagStyle.Render("  -C, --project <dir>")+mutedStyle.Render("     run as if invoked from <dir>"),
		flagStyle.Render("  --severity <csv>")+mutedStyle.Render("        allow-listed severities to gate on"),
		flagStyle.Render("  --deny <csv>")+mutedStyle.Render("            check ids that force a deny verdict"),
	)
}

func footerLegend(useUnicode bool) string {
	version := "cmdgate version"
	help := "cmdgate <command> --help"
	if !useUnicode {
		return mutedStyle.Render("VERSION: " + version + "   HELP: " + help)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		mutedStyle.Render("VERSION: "), commandStyle.Render(version),
		mutedStyle.Render("   HELP: "), commandStyle.Render(help),
	)
}
