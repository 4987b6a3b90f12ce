// Package decision implements the tri-state verdict function: from a
// filtered match set and a deny-list, decide whether the command may pass
// unchallenged, must be challenged, or is an outright deny.
package decision

import "github.com/kesaralabs/cmdgate/internal/matcher"

// Result is the decision function's output.
type Result struct {
	ShouldChallenge bool
	ShouldDeny      bool
}

// Decide implements:
//
//	should_challenge = matches.non_empty
//	should_deny      = should_challenge AND (some match.id in denyIDs)
//
// A deny verdict always implies a challenge verdict was present; should_deny
// with should_challenge=false is never produced.
func Decide(kept []matcher.Match, denyIDs map[string]bool) Result {
	if len(kept) == 0 {
		return Result{}
	}

	res := Result{ShouldChallenge: true}
	for _, m := range kept {
		if denyIDs[m.Check.ID] {
			res.ShouldDeny = true
			break
		}
	}
	return res
}
