package matcher

import (
	"testing"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/testutil"
)

func TestMatchOne_Basic(t *testing.T) {
	cat := catalog.MustLoad()

	matches := MatchOne("echo hello", cat)
	testutil.RequireLen(t, matches, 0, "safe command should not match")

	matches = MatchOne("rm -rf /", cat)
	found := false
	for _, m := range matches {
		if m.Check.ID == "fs:recursive_delete_slash" || m.Check.ID == "fs:recursive_delete" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rm -rf / to match a recursive delete check, got %+v", matches)
	}
}

func TestMatchOne_Deterministic(t *testing.T) {
	cat := catalog.MustLoad()
	a := MatchOne("git push --force origin main", cat)
	b := MatchOne("git push --force origin main", cat)
	testutil.RequireLen(t, a, len(b), "match count should be stable")
	for i := range a {
		if a[i].Check.ID != b[i].Check.ID {
			t.Fatalf("non-deterministic match order: %v vs %v", a, b)
		}
	}
}

func TestMatchOne_ASTPipeline(t *testing.T) {
	cat := catalog.MustLoad()
	matches := MatchOne("ps aux | grep foo", cat)
	found := false
	for _, m := range matches {
		if m.Check.ID == "shell:pipeline" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected pipeline AST match, got %+v", matches)
	}
}

func TestMatchOne_ASTCommandSubstitution(t *testing.T) {
	cat := catalog.MustLoad()
	matches := MatchOne(`echo "$(rm -rf /tmp/x)"`, cat)
	found := false
	for _, m := range matches {
		if m.Check.ID == "shell:command_substitution" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected command substitution AST match, got %+v", matches)
	}
}

func TestMatchOne_NoDuplicateHitsPerPart(t *testing.T) {
	cat := catalog.MustLoad()
	matches := MatchOne("rm -rf / /boot", cat)
	counts := map[string]int{}
	for _, m := range matches {
		counts[m.Check.ID]++
	}
	for id, n := range counts {
		if n > 1 {
			t.Fatalf("check %q matched %d times on one part, want at most once", id, n)
		}
	}
}
