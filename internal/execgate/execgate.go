// Package execgate implements the Execution Façade (C8): the engine's sole
// outward effect. It runs an already-approved command via the host shell,
// applying an explicit environment-propagation policy rather than ever
// forwarding a filtered copy of the process environment.
package execgate

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/kesaralabs/cmdgate/internal/gatelog"
)

// Result is the exec_if_allowed() outcome (§6). Allowed is always true
// here: this package is only ever called after an ALLOW verdict. A
// nonzero exit or spawn failure is surfaced via Error without re-gating
// the command (§7: exec_failure never re-gates).
type Result struct {
	Allowed bool
	Stdout  string
	Stderr  string
	Error   error
}

// Options configures one exec_if_allowed call.
type Options struct {
	// Cwd is the working directory; empty means inherit the caller's.
	Cwd string
	// Environment is the explicit environment to expose to the child.
	// Values here win over same-named process-environment entries pulled
	// in via EnvAllowList.
	Environment map[string]string
	// EnvAllowList names the process-environment variables the child may
	// inherit. An empty allow-list means only Environment is used; nothing
	// from the process environment leaks through (§4.8, §8 property 6).
	EnvAllowList []string
}

// Run shells out to command via the host's shell-exec primitive
// ("/bin/sh -c" on POSIX, "cmd /C" on Windows), with the child's
// environment built explicitly rather than copied from the process
// environment. Run never returns a non-nil error for a nonzero exit; that
// is surfaced via Result.Error per the exec_failure policy in spec.md §7.
func Run(ctx context.Context, command string, opts Options) Result {
	cmd := shellCommand(ctx, command)
	cmd.Dir = opts.Cwd
	cmd.Env = buildEnv(opts.Environment, opts.EnvAllowList)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := gatelog.New("execgate")
	logger.Debug("exec", "command", command, "cwd", opts.Cwd, "env_vars", len(cmd.Env))

	err := cmd.Run()
	if err != nil {
		logger.Warn("exec finished with error", "command", command, "error", err)
	}

	return Result{
		Allowed: true,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Error:   err,
	}
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "/bin/sh", "-c", command)
}

// buildEnv constructs the child environment from scratch: the explicit
// environment map, then the named allow-listed process-environment
// variables filling in anything the map didn't already set. Nothing from
// the process environment outside the allow-list is ever consulted.
func buildEnv(environment map[string]string, allowList []string) []string {
	merged := make(map[string]string, len(environment)+len(allowList))
	for _, name := range allowList {
		if v, ok := os.LookupEnv(name); ok {
			merged[name] = v
		}
	}
	for k, v := range environment {
		merged[k] = v
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	return env
}
