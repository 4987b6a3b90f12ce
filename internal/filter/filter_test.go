package filter

import (
	"regexp"
	"testing"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/matcher"
	"github.com/kesaralabs/cmdgate/internal/testutil"
)

func TestApply_SeverityAllowList(t *testing.T) {
	cat := catalog.MustLoad()
	matches := matcher.MatchOne("git add .", cat) // fires only the low-severity git:add_all; synthetic matches below are used instead
	_ = matches

	raw := []matcher.Match{
		{Check: &catalog.Check{ID: "a", Severity: catalog.Low}},
		{Check: &catalog.Check{ID: "b", Severity: catalog.Critical}},
	}

	kept := Apply(raw, Options{})
	testutil.RequireLen(t, kept, 2, "empty allow-list keeps everything")

	kept = Apply(raw, Options{AllowedSeverities: map[catalog.Severity]bool{catalog.Critical: true}})
	testutil.RequireLen(t, kept, 1, "severity filter")
	testutil.RequireEqual(t, kept[0].Check.ID, "b", "surviving check")
}

func TestApply_PredicateDropsOnMissingPath(t *testing.T) {
	check := &catalog.Check{
		ID:         "fs:delete_env_file",
		Severity:   catalog.High,
		Predicates: []catalog.Predicate{{Capture: "path"}},
		Pattern:    regexp.MustCompile(`^rm\s+(?P<path>\S+)$`),
	}
	sub := check.Pattern.FindStringSubmatch("rm /tmp/x.env")
	raw := []matcher.Match{{Check: check, Submatches: sub}}

	kept := Apply(raw, Options{FileExists: func(string) bool { return false }})
	testutil.RequireLen(t, kept, 0, "predicate should drop when path absent")

	kept = Apply(raw, Options{FileExists: func(string) bool { return true }})
	testutil.RequireLen(t, kept, 1, "predicate should keep when path exists")
}

func TestApply_NoPredicatesAlwaysPasses(t *testing.T) {
	raw := []matcher.Match{{Check: &catalog.Check{ID: "x", Severity: catalog.Medium}}}
	kept := Apply(raw, Options{})
	testutil.RequireLen(t, kept, 1, "no predicates means no filtering")
}
