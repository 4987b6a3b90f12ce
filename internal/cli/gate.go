package cli

import (
	"context"
	"strings"
	"time"

	"github.com/kesaralabs/cmdgate/internal/catalog"
	"github.com/kesaralabs/cmdgate/internal/config"
	"github.com/kesaralabs/cmdgate/internal/engine"
	"github.com/kesaralabs/cmdgate/internal/execgate"
	"github.com/kesaralabs/cmdgate/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagChallenge string
	flagTimeoutMS int
	flagPropagate string
	flagCwd       string
)

func init() {
	approveCmd.Flags().StringVar(&flagChallenge, "challenge", "confirm", "challenge type: confirm, math, word, block")
	approveCmd.Flags().IntVar(&flagTimeoutMS, "timeout", 60_000, "challenge timeout in milliseconds")

	execCmd.Flags().StringVar(&flagChallenge, "challenge", "confirm", "challenge type: confirm, math, word, block")
	execCmd.Flags().IntVar(&flagTimeoutMS, "timeout", 60_000, "challenge timeout in milliseconds")
	execCmd.Flags().StringVar(&flagPropagate, "propagate-env", "", "csv of env var names to inherit when executing")
	execCmd.Flags().StringVar(&flagCwd, "cwd", "", "working directory for the executed command")

	rootCmd.AddCommand(validateCmd, approveCmd, execCmd)

	for _, c := range []*cobra.Command{validateCmd, approveCmd, execCmd} {
		c.PreRunE = func(cmd *cobra.Command, args []string) error {
			return loadConfigDefaults(cmd)
		}
	}
}

func newEngine() (*engine.Engine, error) {
	cat, err := engine.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return engine.New(cat), nil
}

func parseSeverities(csv string) map[catalog.Severity]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	out := make(map[catalog.Severity]bool)
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out[catalog.ParseSeverity(s)] = true
	}
	return out
}

func parseIDs(csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, id := range strings.Split(csv, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			out[id] = true
		}
	}
	return out
}

func commandOptions() engine.Options {
	return engine.Options{
		AllowedSeverities: parseSeverities(flagSeverity),
		DenyPatternIDs:    parseIDs(flagDeny),
	}
}

// matchSummaries converts the engine's MatchRecords to output.MatchSummary,
// the projection the text-mode renderer needs. Keeps internal/output free
// of an import on internal/engine.
func matchSummaries(matches []engine.MatchRecord) []output.MatchSummary {
	out := make([]output.MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, output.MatchSummary{
			ID:          m.ID,
			Group:       m.Group,
			Severity:    m.Severity.String(),
			Description: m.Description,
			Targets:     m.Targets,
		})
	}
	return out
}

var validateCmd = &cobra.Command{
	Use:   "validate <command>",
	Short: "Run the pattern engine against a command and report matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		command := strings.Join(args, " ")
		result, err := e.Validate(command, commandOptions())
		if err != nil {
			return err
		}

		out := output.New(output.Format(GetOutput()))
		if GetOutput() == "text" {
			out.WriteValidationSummary(matchSummaries(result.Matches), result.ShouldChallenge, result.ShouldDeny)
			return nil
		}
		return out.Write(result)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <command>",
	Short: "Validate a command and, if needed, run an interactive challenge",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		command := strings.Join(args, " ")
		result, err := e.Approve(command, commandOptions(), flagChallenge, time.Duration(flagTimeoutMS)*time.Millisecond)
		if err != nil && result.Reason == "" {
			return err
		}

		out := output.New(output.Format(GetOutput()))
		if GetOutput() == "text" {
			out.WriteApprovalVerdict(result.Allowed, result.Reason)
			return nil
		}
		return out.Write(result)
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Validate, approve, and execute a command in one call",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		command := strings.Join(args, " ")

		approval, err := e.Approve(command, commandOptions(), flagChallenge, time.Duration(flagTimeoutMS)*time.Millisecond)
		if err != nil && !approval.Allowed {
			if GetOutput() == "text" {
				output.New(output.Format(GetOutput())).WriteApprovalVerdict(false, approval.Reason)
				return nil
			}
			return output.New(output.Format(GetOutput())).Write(map[string]any{
				"allowed": false,
				"reason":  approval.Reason,
				"error":   err.Error(),
			})
		}
		if !approval.Allowed {
			if GetOutput() == "text" {
				output.New(output.Format(GetOutput())).WriteApprovalVerdict(false, approval.Reason)
				return nil
			}
			return output.New(output.Format(GetOutput())).Write(map[string]any{
				"allowed": false,
				"reason":  approval.Reason,
			})
		}

		envAllow := parseCSV(flagPropagate)
		result := execgate.Run(context.Background(), command, execgate.Options{
			Cwd:          flagCwd,
			EnvAllowList: envAllow,
		})

		payload := map[string]any{
			"allowed": result.Allowed,
			"stdout":  result.Stdout,
			"stderr":  result.Stderr,
		}
		if result.Error != nil {
			payload["error"] = result.Error.Error()
		}
		return output.New(output.Format(GetOutput())).Write(payload)
	},
}

func parseCSV(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// loadConfigDefaults applies the layered config's defaults onto the global
// flags that were not explicitly set on the command line, matching the
// precedence from internal/config: defaults < user < project < env < flags.
func loadConfigDefaults(cmd *cobra.Command) error {
	project, err := projectPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(config.LoadOptions{ProjectDir: project, ConfigPath: flagConfig})
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("severity") && len(cfg.Validation.AllowedSeverities) > 0 {
		flagSeverity = strings.Join(cfg.Validation.AllowedSeverities, ",")
	}
	if !cmd.Flags().Changed("deny") && len(cfg.Validation.DenyPatternIDs) > 0 {
		flagDeny = strings.Join(cfg.Validation.DenyPatternIDs, ",")
	}
	if !cmd.Flags().Changed("challenge") && cfg.Challenge.Type != "" {
		flagChallenge = cfg.Challenge.Type
	}
	if !cmd.Flags().Changed("timeout") && cfg.Challenge.TimeoutMS > 0 {
		flagTimeoutMS = cfg.Challenge.TimeoutMS
	}
	if !cmd.Flags().Changed("propagate-env") && len(cfg.Exec.EnvAllowList) > 0 {
		flagPropagate = strings.Join(cfg.Exec.EnvAllowList, ",")
	}
	return nil
}
