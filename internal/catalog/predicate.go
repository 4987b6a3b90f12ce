package catalog

import "os"

// FileExists reports whether path exists on disk. Production code uses the real
// stat-based resolver; tests inject a fake so predicate evaluation never touches
// the filesystem.
type FileExists func(path string) bool

// StatFileExists is the default FileExists resolver, backed by os.Stat.
func StatFileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Predicate is a runtime condition evaluated after a regex match fires. It can
// suppress the match (e.g. "only alert if this captured path exists").
type Predicate struct {
	// Capture is the name of the regex capture group holding the path to probe.
	Capture string
}

// Eval resolves the named capture group from submatches/names and checks it
// against fs. A predicate with no usable capture evaluates to false (fail-open:
// the match is dropped, not the process).
func (p Predicate) Eval(names []string, submatches []string, fs FileExists) bool {
	if fs == nil {
		fs = StatFileExists
	}
	idx := -1
	for i, n := range names {
		if n == p.Capture {
			idx = i
			break
		}
	}
	if idx == -1 || idx >= len(submatches) {
		return false
	}
	path := submatches[idx]
	if path == "" {
		return false
	}
	return fs(path)
}
