package catalog

import "fmt"

// Severity is an ordered risk label: low < medium < high < critical.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "medium"
	}
}

// ParseSeverity parses a severity string, defaulting to Medium when unrecognized or absent.
func ParseSeverity(s string) Severity {
	switch s {
	case "low":
		return Low
	case "medium":
		return Medium
	case "high":
		return High
	case "critical":
		return Critical
	default:
		return Medium
	}
}

// Highest returns the maximum severity under the ordered set, defaulting to Medium
// when the input is empty.
func Highest(severities []Severity) Severity {
	if len(severities) == 0 {
		return Medium
	}
	max := severities[0]
	for _, s := range severities[1:] {
		if s > max {
			max = s
		}
	}
	return max
}

// MarshalJSON renders the severity as its lowercase string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}
