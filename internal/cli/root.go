// Package cli implements the Cobra command-line interface for cmdgate.
// This surface is illustrative (§6): the MCP/stdio protocol dispatch layer
// and the shell hook scripts that would actually invoke the gate are out
// of scope, but a CLI lets a human or a script drive the same engine.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/kesaralabs/cmdgate/internal/gatelog"
	"github.com/kesaralabs/cmdgate/internal/output"
	"github.com/spf13/cobra"
)

// Version information set by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flag values.
var (
	flagConfig   string
	flagOutput   string
	flagJSON     bool
	flagTOON     bool
	flagVerbose  bool
	flagSeverity string
	flagDeny     string
	flagProject  string
)

var rootCmd = &cobra.Command{
	Use:   "cmdgate",
	Short: "Shell-command safety gate: validate, challenge, and execute risky commands",
	Long: `cmdgate is a shell-command safety gate sitting between a caller
(IDE plugin, shell pre-exec hook, MCP tool endpoint) and the operating
system's command executor.

Given a candidate command line, cmdgate decides whether it is safe to run,
must be blocked outright, or requires interactive human approval via a
short challenge (math, word, or confirm) served on a local loopback page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			gatelog.SetLevel(log.DebugLevel)
		}
		output.SetOutputMode(GetOutput() == "json")
		if flagProject == "" {
			return nil
		}
		if err := os.Chdir(flagProject); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagProject, err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		goVersion := runtime.Version()
		configPath := flagConfig
		if configPath == "" {
			home, _ := os.UserHomeDir()
			configPath = filepath.Join(home, ".cmdgate", "config.toml")
		}

		payload := map[string]any{
			"version":     version,
			"commit":      commit,
			"build_date":  date,
			"go_version":  goVersion,
			"config_path": configPath,
		}

		switch GetOutput() {
		case "json", "yaml", "toon":
			out := output.New(output.Format(GetOutput()))
			return out.Write(payload)
		case "text":
			fmt.Printf("cmdgate %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s\n", goVersion)
			fmt.Printf("  config:  %s\n", configPath)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s", GetOutput())
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetOutput returns the configured output format.
// Precedence: --json, then --toon, then a non-text --output, then the
// CMDGATE_OUTPUT_FORMAT env var, then --output's value (text by default).
// An explicit --output text does not override CMDGATE_OUTPUT_FORMAT.
func GetOutput() string {
	if flagJSON {
		return "json"
	}
	if flagTOON {
		return "toon"
	}
	if flagOutput != "text" {
		return flagOutput
	}
	if envFormat := os.Getenv("CMDGATE_OUTPUT_FORMAT"); envFormat != "" {
		switch envFormat {
		case "json", "yaml", "toon", "text":
			return envFormat
		}
	}
	return flagOutput
}

// GetSeverity returns the configured severity allow-list CSV (empty means
// "no filter").
func GetSeverity() string {
	return flagSeverity
}

// GetDenyIDs returns the configured deny-list id CSV.
func GetDenyIDs() string {
	return flagDeny
}

func projectPath() (string, error) {
	if flagProject != "" {
		return flagProject, nil
	}
	return os.Getwd()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text, json, yaml, toon (env: CMDGATE_OUTPUT_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "shorthand for --output=json")
	rootCmd.PersistentFlags().BoolVarP(&flagTOON, "toon", "t", false, "shorthand for --output=toon")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&flagSeverity, "severity", "critical,high,medium", "csv of low,medium,high,critical severities to gate on")
	rootCmd.PersistentFlags().StringVar(&flagDeny, "deny", "", "csv of check ids that force a deny verdict")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "C", "", "project directory")

	rootCmd.AddCommand(versionCmd)
}
