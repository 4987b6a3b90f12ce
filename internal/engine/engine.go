// Package engine implements the Approval Pipeline (C7): it orchestrates the
// splitter, matcher, filter, and decision function into validate(), then
// conditionally runs a Challenge Controller session in approve().
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/challenge"
	"github.com/kesaralabs/cmdgate/internal/decision"
	"github.com/kesaralabs/cmdgate/internal/filter"
	"github.com/kesaralabs/cmdgate/internal/gatelog"
	"github.com/kesaralabs/cmdgate/internal/matcher"
	"github.com/kesaralabs/cmdgate/internal/splitter"
)

// ErrorKind tags the taxonomy in spec.md §7; callers distinguish kinds by
// this field rather than by type-switching on the error value.
type ErrorKind string

const (
	ErrEmptyCommand       ErrorKind = "empty_command"
	ErrCatalogLoadFailure ErrorKind = "catalog_load_failure"
	ErrChallengeTimeout   ErrorKind = "challenge_timeout"
	ErrChallengeTransport ErrorKind = "challenge_transport_error"
	ErrExecError          ErrorKind = "exec_error"
)

// GateError carries a taxonomy kind alongside the underlying message, per
// spec.md §6: "distinct kinds MUST be distinguishable by the caller."
type GateError struct {
	Kind ErrorKind
	Msg  string
}

func (e *GateError) Error() string {
	return e.Msg
}

// MatchRecord is the §3 projection of a Check returned in a ValidationResult.
type MatchRecord struct {
	ID          string
	Group       string
	Severity    catalog.Severity
	Description string
	// Targets is the set of concrete things the match puts at risk (paths a
	// recursive delete would remove, ...), when the check knows how to name
	// them. Empty for checks with no ExtractTargets.
	Targets []string
}

// Options is the per-call ValidationOptions (§3 / §6).
type Options struct {
	AllowedSeverities map[catalog.Severity]bool
	DenyPatternIDs    map[string]bool
	// FileExists overrides the predicate resolver; nil uses the real
	// filesystem (catalog.StatFileExists).
	FileExists catalog.FileExists
}

// ValidationResult is the §3 ValidationResult.
type ValidationResult struct {
	Matches         []MatchRecord
	ShouldChallenge bool
	ShouldDeny      bool
}

// ApprovalResult is the approve() outcome (§4.7, §6).
type ApprovalResult struct {
	Allowed bool
	Reason  string
}

// Engine holds the process-wide, read-only Check Catalog and runs validate/
// approve calls against it. Safe for concurrent use: each approve() call
// opens its own independent challenge session on its own port.
type Engine struct {
	catalog *catalog.Catalog
	logger  *log.Logger
}

// New constructs an Engine from an already-loaded catalog. Use
// catalog.Load/MustLoad at process start (§4.1) and pass the result here;
// a load failure is fatal at init, not something the engine retries.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat, logger: gatelog.New("engine")}
}

// Validate implements §4.7's validate(): split, match every part, filter,
// decide. Matching is synchronous and ordered by catalog iteration order
// (§5); for identical (command, options, catalog) the returned matches are
// identical (pure function, §8 property 4).
func (e *Engine) Validate(command string, opts Options) (ValidationResult, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return ValidationResult{}, &GateError{Kind: ErrEmptyCommand, Msg: "empty command"}
	}

	parts := splitter.Split(trimmed)

	var raw []matcher.Match
	for _, part := range parts {
		raw = append(raw, matcher.MatchOne(part, e.catalog)...)
	}

	kept := filter.Apply(raw, filter.Options{
		AllowedSeverities: opts.AllowedSeverities,
		FileExists:        opts.FileExists,
	})

	dec := decision.Decide(kept, opts.DenyPatternIDs)

	records := make([]MatchRecord, 0, len(kept))
	for _, m := range kept {
		records = append(records, MatchRecord{
			ID:          m.Check.ID,
			Group:       m.Check.Group,
			Severity:    m.Check.Severity,
			Description: m.Check.Description,
			Targets:     m.Targets,
		})
	}

	e.logger.Debug("validated", "command", trimmed, "matches", len(records),
		"should_challenge", dec.ShouldChallenge, "should_deny", dec.ShouldDeny)

	return ValidationResult{
		Matches:         records,
		ShouldChallenge: dec.ShouldChallenge,
		ShouldDeny:      dec.ShouldDeny,
	}, nil
}

// Approve implements §4.7's approve(): validate, then short-circuit on
// allow/deny, or run a challenge session and gate on its verdict. Any
// uncertainty in this path resolves to deny (§7's governing principle).
func (e *Engine) Approve(command string, opts Options, challengeType string, timeout time.Duration) (ApprovalResult, error) {
	result, err := e.Validate(command, opts)
	if err != nil {
		return ApprovalResult{}, err
	}

	if !result.ShouldChallenge {
		return ApprovalResult{Allowed: true}, nil
	}

	if result.ShouldDeny {
		e.logger.Warn("denied by policy", "command", command, "reasons", descriptions(result.Matches))
		return ApprovalResult{Allowed: false, Reason: "security policy violation"}, nil
	}

	kind, ok := challenge.ParseKind(challengeType)
	if !ok {
		e.logger.Warn("unrecognized challenge type, falling back to confirm", "requested", challengeType)
	}

	if kind == challenge.KindBlock {
		e.logger.Warn("denied: blocked by policy", "command", command)
		return ApprovalResult{Allowed: false, Reason: "blocked by policy"}, nil
	}

	sess, err := challenge.Open(kind, pageData(command, result.Matches), timeout)
	if err != nil {
		e.logger.Warn("challenge transport error", "command", command, "error", err)
		return ApprovalResult{Allowed: false, Reason: "challenge system error"},
			&GateError{Kind: ErrChallengeTransport, Msg: err.Error()}
	}

	res := sess.Await()
	if res.Approved {
		e.logger.Info("approved via challenge", "command", command, "kind", challengeType)
		return ApprovalResult{Allowed: true}, nil
	}

	reason := res.Reason
	if reason == "" {
		reason = "user denial"
	}
	if reason == "timeout" {
		return ApprovalResult{Allowed: false, Reason: "timeout"},
			&GateError{Kind: ErrChallengeTimeout, Msg: "challenge timed out"}
	}
	return ApprovalResult{Allowed: false, Reason: reason}, nil
}

func descriptions(matches []MatchRecord) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Description)
	}
	return out
}

func pageData(command string, matches []MatchRecord) challenge.PageData {
	infos := make([]challenge.MatchInfo, 0, len(matches))
	severities := make([]catalog.Severity, 0, len(matches))
	for _, m := range matches {
		infos = append(infos, challenge.MatchInfo{
			ID:          m.ID,
			Group:       m.Group,
			Severity:    m.Severity.String(),
			Description: m.Description,
			Targets:     m.Targets,
		})
		severities = append(severities, m.Severity)
	}
	return challenge.PageData{
		Command:         command,
		Matches:         infos,
		HighestSeverity: catalog.Highest(severities).String(),
	}
}

// LoadCatalog is a small convenience wrapper around catalog.Load that reports
// a failure as a catalog_load_failure GateError; internal/cli uses it to
// construct an Engine.
func LoadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, &GateError{Kind: ErrCatalogLoadFailure, Msg: err.Error()}
	}
	return cat, nil
}

// Wrap annotates err with a GateError kind when it isn't already one,
// defaulting to kind as the taxonomy catch-all for post-approval failures,
// which never re-gate the command per §7.
func Wrap(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var ge *GateError
	if errors.As(err, &ge) {
		return ge
	}
	return &GateError{Kind: kind, Msg: fmt.Sprintf("%v", err)}
}
