package cli

import (
	"testing"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/testutil"
)

func TestParseSeverities(t *testing.T) {
	got := parseSeverities("critical, high,,medium")
	testutil.RequireLen(t, keys(got), 3, "three severities parsed")
	if !got[catalog.Critical] || !got[catalog.High] || !got[catalog.Medium] {
		t.Fatalf("unexpected set: %+v", got)
	}
}

func TestParseSeverities_Empty(t *testing.T) {
	if got := parseSeverities("  "); got != nil {
		t.Fatalf("expected nil for blank csv, got %+v", got)
	}
}

func TestParseIDs(t *testing.T) {
	got := parseIDs("git:force_push, fs:rm_rf_root")
	testutil.RequireLen(t, keys(got), 2, "two ids parsed")
	if !got["git:force_push"] || !got["fs:rm_rf_root"] {
		t.Fatalf("unexpected set: %+v", got)
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV("PATH, HOME ,")
	testutil.RequireLen(t, got, 2, "two entries")
	testutil.RequireEqual(t, got[0], "PATH", "first entry")
	testutil.RequireEqual(t, got[1], "HOME", "second entry")
}

func TestParseCSV_Empty(t *testing.T) {
	if got := parseCSV(""); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func keys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
