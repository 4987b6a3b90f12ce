// Package matcher evaluates a single sub-command against the check catalog,
// producing the raw (pre-filter) set of matches.
package matcher

import "github.com/kesaralabs/cmdgate/internal/catalog"

// Match pairs a fired Check with the regex submatches that triggered it and
// the concrete targets it puts at risk (when the check knows how to name
// them), so downstream predicate evaluation and the challenge page have
// something to work with. ASTOnly matches carry no submatches.
type Match struct {
	Check      *catalog.Check
	Submatches []string
	Targets    []string
}

// MatchOne evaluates every enabled rule's pattern against part and returns
// every rule that fired, in catalog iteration order. Each rule matches at
// most once per part.
func MatchOne(part string, cat *catalog.Catalog) []Match {
	var matches []Match

	for _, check := range cat.All() {
		if check.ASTOnly {
			continue
		}
		if check.Pattern == nil {
			continue
		}
		sub := check.Pattern.FindStringSubmatch(part)
		if sub == nil {
			continue
		}
		matches = append(matches, Match{Check: check, Submatches: sub, Targets: extractTargets(check, part, sub)})
	}

	matches = append(matches, astMatches(part, cat)...)
	return matches
}

func extractTargets(check *catalog.Check, part string, submatches []string) []string {
	if check.ExtractTargets == nil {
		return nil
	}
	return check.ExtractTargets(part, submatches)
}
