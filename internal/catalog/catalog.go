// Package catalog holds the embedded, immutable set of named checks that the
// matcher evaluates against each sub-command. The catalog is compiled once at
// process start and is read-only thereafter.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
)

// ChallengeHint records a suggested challenge kind for a check. The approval
// pipeline does not read it: engine.Approve always runs the challenge type
// its caller passes, whatever the matched checks suggest.
type ChallengeHint string

const (
	HintNone    ChallengeHint = ""
	HintMath    ChallengeHint = "math"
	HintWord    ChallengeHint = "word"
	HintConfirm ChallengeHint = "confirm"
	HintBlock   ChallengeHint = "block"
)

// ExtractTargets pulls the concrete targets a match puts at risk out of the
// matched sub-command, so a challenge page or CLI summary can show what is
// at risk rather than only that something is. Only the fs group's rm checks
// set one (the paths rm would remove); every other check reports no targets.
type ExtractTargets func(command string, submatches []string) []string

// Check is a single immutable rule: a regex pattern plus the metadata needed
// to report and gate on a match.
type Check struct {
	// ID is globally unique within the catalog, "group:name".
	ID string
	// Group is the category tag (fs, git, k8s, docker, aws, sql, terraform, shell, ...).
	Group string
	// Severity is the ordered risk label.
	Severity Severity
	// Description is the human-readable explanation shown in the UI.
	Description string
	// ChallengeHint optionally suggests a challenge kind for this check.
	ChallengeHint ChallengeHint
	// Predicates are runtime conditions evaluated after a regex match; any
	// failing predicate suppresses the match.
	Predicates []Predicate
	// ExtractTargets optionally reports the concrete targets at risk.
	ExtractTargets ExtractTargets

	// Pattern is the compiled regex. Nil for ASTOnly checks.
	Pattern *regexp.Regexp
	// ASTOnly marks a check that is never evaluated by the regex matcher;
	// it is instead raised by the AST-assisted structural pass over
	// mvdan.cc/sh/v3/syntax (see internal/matcher/ast.go).
	ASTOnly bool
}

// Names returns the compiled pattern's capture group names, or nil for an
// ASTOnly check.
func (c *Check) Names() []string {
	if c.Pattern == nil {
		return nil
	}
	return c.Pattern.SubexpNames()
}

// CatalogError reports a rule that failed to compile at load time.
type CatalogError struct {
	RuleID string
	Reason string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog: rule %q: %s", e.RuleID, e.Reason)
}

// Catalog is the complete, immutable set of checks, loaded once and read
// concurrently for the life of the process.
type Catalog struct {
	checks  []*Check
	byID    map[string]*Check
	byGroup map[string][]*Check
}

// Load compiles every embedded rule definition into a Catalog. It is the
// only fallible entry point; callers that cannot tolerate catalog load
// failure should treat a non-nil error as fatal (see cmd/cmdgate).
func Load() (*Catalog, error) {
	defs := builtinChecks()
	cat := &Catalog{
		byID:    make(map[string]*Check, len(defs)),
		byGroup: make(map[string][]*Check),
	}

	for _, d := range defs {
		if _, dup := cat.byID[d.id]; dup {
			return nil, &CatalogError{RuleID: d.id, Reason: "duplicate check id"}
		}

		check := &Check{
			ID:             d.id,
			Group:          d.group,
			Severity:       d.severity,
			Description:    d.description,
			ChallengeHint:  d.hint,
			Predicates:     d.predicates,
			ExtractTargets: d.extract,
			ASTOnly:        d.astOnly,
		}

		if !d.astOnly {
			re, err := regexp.Compile(d.pattern)
			if err != nil {
				return nil, &CatalogError{RuleID: d.id, Reason: err.Error()}
			}
			check.Pattern = re
		}

		cat.checks = append(cat.checks, check)
		cat.byID[d.id] = check
		cat.byGroup[d.group] = append(cat.byGroup[d.group], check)
	}

	return cat, nil
}

// MustLoad loads the catalog or panics. Used where the caller wants a fatal
// init failure rather than threading an error (e.g. package-level globals in
// tests).
func MustLoad() *Catalog {
	cat, err := Load()
	if err != nil {
		panic(err)
	}
	return cat
}

// All returns every check, in catalog (load) order.
func (c *Catalog) All() []*Check {
	return c.checks
}

// Groups returns the distinct group values present in the catalog, sorted.
func (c *Catalog) Groups() []string {
	groups := make([]string, 0, len(c.byGroup))
	for g := range c.byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// ByGroup returns every check whose Group equals g, in catalog order.
func (c *Catalog) ByGroup(g string) []*Check {
	return c.byGroup[g]
}

// ByID looks up a single check by its stable id.
func (c *Catalog) ByID(id string) (*Check, bool) {
	check, ok := c.byID[id]
	return check, ok
}

// Len reports the number of checks in the catalog.
func (c *Catalog) Len() int {
	return len(c.checks)
}
