package catalog

import "strings"

// extractRmTargets returns the non-flag arguments of an rm invocation: the
// paths that would actually be removed. Grounded on the teacher's
// xargs/segment handling in core/patterns.go, which treats the tail of a
// matched segment as the thing at risk rather than re-deriving it from the
// regex capture groups.
func extractRmTargets(command string, _ []string) []string {
	fields := strings.Fields(command)
	var targets []string
	for _, f := range fields[1:] { // skip the leading "rm"
		if strings.HasPrefix(f, "-") {
			continue
		}
		targets = append(targets, f)
	}
	return targets
}
