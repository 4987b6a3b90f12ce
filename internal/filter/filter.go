// Package filter applies severity allow-listing and runtime predicates to a
// raw match set before the decision function sees it.
package filter

import (
	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/matcher"
)

// Options configures filtering for one validation call.
type Options struct {
	// AllowedSeverities restricts kept matches to this set; empty means
	// "no filter" (all severities pass).
	AllowedSeverities map[catalog.Severity]bool
	// FileExists resolves predicate path checks. Defaults to the real
	// filesystem when nil.
	FileExists catalog.FileExists
}

// Apply runs the severity allow-list and then runtime predicates over
// matches, in that order, and returns the surviving matches. Deny-list
// marking is the decision function's concern (internal/decision), since it
// does not remove matches from the result, only flags the aggregate.
func Apply(matches []matcher.Match, opts Options) []matcher.Match {
	kept := severityFilter(matches, opts.AllowedSeverities)
	kept = predicateFilter(kept, opts.FileExists)
	return kept
}

func severityFilter(matches []matcher.Match, allowed map[catalog.Severity]bool) []matcher.Match {
	if len(allowed) == 0 {
		return matches
	}
	var kept []matcher.Match
	for _, m := range matches {
		if allowed[m.Check.Severity] {
			kept = append(kept, m)
		}
	}
	return kept
}

func predicateFilter(matches []matcher.Match, fileExists catalog.FileExists) []matcher.Match {
	if fileExists == nil {
		fileExists = catalog.StatFileExists
	}
	var kept []matcher.Match
	for _, m := range matches {
		if !passesPredicates(m, fileExists) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func passesPredicates(m matcher.Match, fileExists catalog.FileExists) bool {
	if len(m.Check.Predicates) == 0 {
		return true
	}
	names := m.Check.Names()
	for _, p := range m.Check.Predicates {
		if !p.Eval(names, m.Submatches, fileExists) {
			return false
		}
	}
	return true
}
