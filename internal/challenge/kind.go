// Package challenge implements the local-loopback HTTP challenge controller
// (C6): a one-shot session that renders a math/word/confirm/block page,
// collects exactly one verdict from the human (approve, deny, or timeout),
// and tears itself down cleanly.
package challenge

// Kind is the tagged variant of challenge the controller can run. Modeled
// as a string enum plus per-kind data on Session, rather than an
// inheritance hierarchy, per the spec's design note on dynamic dispatch
// over challenge kinds.
type Kind string

const (
	KindConfirm Kind = "confirm"
	KindMath    Kind = "math"
	KindWord    Kind = "word"
	KindBlock   Kind = "block"
)

// Valid reports whether k is one of the four recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindConfirm, KindMath, KindWord, KindBlock:
		return true
	default:
		return false
	}
}

// ParseKind parses a challenge type string, falling back to KindConfirm
// with ok=false for anything unrecognized (the CLI surface in spec.md §6
// warns and falls back; ok lets the caller decide whether to warn).
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	if k.Valid() {
		return k, true
	}
	return KindConfirm, false
}

// MatchInfo is the projection of a matched check shown on the challenge
// page: id, group, severity, description, and any concrete targets the
// match put at risk. No regex state, mirroring engine.MatchRecord at the
// HTTP boundary.
type MatchInfo struct {
	ID          string
	Group       string
	Severity    string
	Description string
	Targets     []string
}

// PageData is everything the rendered page needs: the command under
// review, the matches that fired, and the highest severity among them
// (already defaulted to "medium" by the caller when matches is empty).
type PageData struct {
	Command         string
	Matches         []MatchInfo
	HighestSeverity string
}

// Result is the terminal outcome of a challenge session.
type Result struct {
	Approved bool
	Kind     Kind
	Reason   string
}
