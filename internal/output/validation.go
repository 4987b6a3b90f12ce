package output

import (
	"fmt"
	"strings"
)

// MatchSummary is the minimal projection of a fired check that the
// text-mode validate rendering needs: enough to color by severity
// and show what's at risk. Kept independent of internal/engine's
// MatchRecord so this package never imports the engine (callers convert).
type MatchSummary struct {
	ID          string
	Group       string
	Severity    string
	Description string
	Targets     []string
}

// WriteValidationSummary renders a validate result as colorized text: one
// line per fired check, severity-colored, with any extracted risk targets
// appended, followed by the allow/challenge/deny verdict. This is cmdgate's
// own FormatText rendering for validate (approve and exec print only
// WriteApprovalVerdict's one-line verdict in text mode) — every other
// format still goes through the generic Write(result) JSON/YAML/TOON path,
// so this only replaces the plain %v dump a human actually reads at the
// terminal.
func (w *Writer) WriteValidationSummary(matches []MatchSummary, shouldChallenge, shouldDeny bool) {
	if len(matches) == 0 {
		fmt.Fprintln(w.errOut, "no risk matched")
		return
	}

	for _, m := range matches {
		line := fmt.Sprintf("[%s] %s (%s) — %s", colorizeSeverity(m.Severity), m.ID, m.Group, m.Description)
		if len(m.Targets) > 0 {
			line += fmt.Sprintf("\n    at risk: %s", strings.Join(m.Targets, ", "))
		}
		fmt.Fprintln(w.errOut, line)
	}

	verdict := "challenge"
	if shouldDeny {
		verdict = "deny"
	}
	if !shouldChallenge {
		verdict = "allow"
	}
	fmt.Fprintf(w.errOut, "verdict: %s\n", verdict)
}

// WriteApprovalVerdict renders an approve/exec outcome as a single colored
// line: green "allowed", or red "denied: <reason>" ("denied" when reason
// is empty).
func (w *Writer) WriteApprovalVerdict(allowed bool, reason string) {
	if allowed {
		fmt.Fprintln(w.errOut, successStyle().Render("allowed"))
		return
	}
	msg := "denied"
	if reason != "" {
		msg = fmt.Sprintf("denied: %s", reason)
	}
	fmt.Fprintln(w.errOut, deniedStyle().Render(msg))
}
