// Package config loads the layered cmdgate configuration: compiled-in
// defaults, overridden by the user config (~/.cmdgate/config.toml), then the
// project config (./.cmdgate/config.toml), then CMDGATE_-prefixed
// environment variables, then explicit CLI flag overrides. Config files are
// TOML; BurntSushi/toml drives the write path (WriteValue), viper drives the
// merged read path (Load).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// ValidationConfig carries the default ValidationOptions (§3) applied when a
// caller does not override them per call.
type ValidationConfig struct {
	AllowedSeverities []string `mapstructure:"allowed_severities"`
	DenyPatternIDs    []string `mapstructure:"deny_pattern_ids"`
}

// ChallengeConfig carries the Challenge Controller defaults (§4.6, §6).
type ChallengeConfig struct {
	Type      string `mapstructure:"type"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// ExecConfig carries the Execution Façade's environment-propagation policy
// (§4.8). An empty AllowList means only the explicit per-call environment
// map is used; nothing from the process environment is inherited.
type ExecConfig struct {
	EnvAllowList []string `mapstructure:"env_allow_list"`
}

// LoggingConfig controls internal/gatelog's verbosity.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the fully merged configuration for one process.
type Config struct {
	Validation ValidationConfig `mapstructure:"validation"`
	Challenge  ChallengeConfig  `mapstructure:"challenge"`
	Exec       ExecConfig       `mapstructure:"exec"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DefaultConfig returns the compiled-in defaults, matching the illustrative
// CLI surface in spec.md §6: --challenge confirm, --severity
// critical,high,medium, --propagate-env <empty>.
func DefaultConfig() Config {
	return Config{
		Validation: ValidationConfig{
			AllowedSeverities: []string{"critical", "high", "medium"},
			DenyPatternIDs:    nil,
		},
		Challenge: ChallengeConfig{
			Type:      "confirm",
			TimeoutMS: 60_000,
		},
		Exec: ExecConfig{
			EnvAllowList: nil,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var validSeverities = map[string]bool{"low": true, "medium": true, "high": true, "critical": true}
var validChallengeTypes = map[string]bool{"confirm": true, "math": true, "word": true, "block": true}
var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}

// Validate checks a Config for internally-consistent values. It rejects a
// non-positive timeout, a challenge type other than confirm, math, word or
// block, an unknown severity name, or a log level nothing in gatelog
// understands.
func Validate(cfg Config) error {
	var problems []string

	if cfg.Challenge.TimeoutMS <= 0 {
		problems = append(problems, "challenge.timeout_ms must be positive")
	}
	if cfg.Challenge.Type != "" && !validChallengeTypes[cfg.Challenge.Type] {
		problems = append(problems, fmt.Sprintf("challenge.type %q is not one of confirm, math, word, block", cfg.Challenge.Type))
	}
	for _, s := range cfg.Validation.AllowedSeverities {
		if !validSeverities[s] {
			problems = append(problems, fmt.Sprintf("validation.allowed_severities contains unknown severity %q", s))
		}
	}
	if cfg.Logging.Level != "" && !validLogLevels[cfg.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error, fatal", cfg.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadOptions parameterizes Load.
type LoadOptions struct {
	// ProjectDir is the project root whose ./.cmdgate/config.toml is
	// consulted. Empty means the current working directory.
	ProjectDir string
	// ConfigPath, if set, overrides the project config file path entirely
	// (used by --config).
	ConfigPath string
	// FlagOverrides are dotted-key CLI flag values, applied with highest
	// precedence.
	FlagOverrides map[string]any
}

// ConfigPaths returns the (user, project) config file paths for a given
// project directory and an optional --config override. The override, when
// set, replaces the project path only; the user path is always
// ~/.cmdgate/config.toml.
func ConfigPaths(projectDir, configOverride string) (userPath, projPath string) {
	home, _ := os.UserHomeDir()
	userPath = filepath.Join(home, ".cmdgate", "config.toml")
	projPath = projectConfigPath(projectDir, configOverride)
	return userPath, projPath
}

func projectConfigPath(projectDir, configOverride string) string {
	if configOverride != "" {
		return configOverride
	}
	return filepath.Join(projectDir, ".cmdgate", "config.toml")
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("validation.allowed_severities", defaults.Validation.AllowedSeverities)
	v.SetDefault("validation.deny_pattern_ids", defaults.Validation.DenyPatternIDs)
	v.SetDefault("challenge.type", defaults.Challenge.Type)
	v.SetDefault("challenge.timeout_ms", defaults.Challenge.TimeoutMS)
	v.SetDefault("exec.env_allow_list", defaults.Exec.EnvAllowList)
	v.SetDefault("logging.level", defaults.Logging.Level)
}

// mergeConfigFile merges a single TOML config file into v. An empty or
// missing path is a no-op (config files are optional at every layer); a
// path that exists but is a directory, or whose contents fail to parse as
// TOML, is an error.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}

	f := viper.New()
	f.SetConfigFile(path)
	f.SetConfigType("toml")
	if err := f.ReadInConfig(); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return v.MergeConfigMap(f.AllSettings())
}

// Load merges defaults < user config < project config < CMDGATE_ env vars <
// FlagOverrides, in that order, and decodes the result into a Config.
func Load(opts LoadOptions) (Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)

	projectDir := opts.ProjectDir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("getwd: %w", err)
		}
		projectDir = cwd
	}

	userPath, projPath := ConfigPaths(projectDir, opts.ConfigPath)
	if err := mergeConfigFile(v, userPath); err != nil {
		return cfg, err
	}
	if err := mergeConfigFile(v, projPath); err != nil {
		return cfg, err
	}

	v.SetEnvPrefix("CMDGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"validation.allowed_severities", "validation.deny_pattern_ids",
		"challenge.type", "challenge.timeout_ms",
		"exec.env_allow_list", "logging.level",
	} {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	if raw, ok := os.LookupEnv("CMDGATE_CHALLENGE_TIMEOUT_MS"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("CMDGATE_CHALLENGE_TIMEOUT_MS=%q: %w", raw, err)
		}
		v.Set("challenge.timeout_ms", n)
	}

	for key, val := range opts.FlagOverrides {
		v.Set(key, val)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// valueKind is the reflect-free tag used to decode a --set string value
// according to the shape of the Config field it targets.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindStringSlice
)

var configKeyKinds = map[string]valueKind{
	"validation.allowed_severities": kindStringSlice,
	"validation.deny_pattern_ids":   kindStringSlice,
	"challenge.type":                kindString,
	"challenge.timeout_ms":          kindInt,
	"exec.env_allow_list":           kindStringSlice,
	"logging.level":                 kindString,
}

// ParseValue parses a raw string value for key according to the field it
// targets (`cmdgate config set challenge.timeout_ms 30000`).
func ParseValue(key, raw string) (any, error) {
	kind, ok := configKeyKinds[key]
	if !ok {
		return nil, fmt.Errorf("unsupported config key %q", key)
	}
	return parseValueByKind(raw, kind)
}

func parseValueByKind(raw string, kind valueKind) (any, error) {
	switch kind {
	case kindString:
		return raw, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse int %q: %w", raw, err)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse bool %q: %w", raw, err)
		}
		return b, nil
	case kindStringSlice:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", kind)
	}
}

// GetValue looks up a dotted key against cfg, returning either a leaf field
// value or an entire sub-config (e.g. "challenge" returns the whole
// ChallengeConfig). Returns ok=false for an unknown key.
func GetValue(cfg Config, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "validation":
		return getFromValidation(cfg.Validation, parts[1:])
	case "challenge":
		return getFromChallenge(cfg.Challenge, parts[1:])
	case "exec":
		return getFromExec(cfg.Exec, parts[1:])
	case "logging":
		return getFromLogging(cfg.Logging, parts[1:])
	default:
		return nil, false
	}
}

func getFromValidation(c ValidationConfig, rest []string) (any, bool) {
	if len(rest) == 0 {
		return c, true
	}
	switch rest[0] {
	case "allowed_severities":
		return c.AllowedSeverities, true
	case "deny_pattern_ids":
		return c.DenyPatternIDs, true
	default:
		return nil, false
	}
}

func getFromChallenge(c ChallengeConfig, rest []string) (any, bool) {
	if len(rest) == 0 {
		return c, true
	}
	switch rest[0] {
	case "type":
		return c.Type, true
	case "timeout_ms":
		return c.TimeoutMS, true
	default:
		return nil, false
	}
}

func getFromExec(c ExecConfig, rest []string) (any, bool) {
	if len(rest) == 0 {
		return c, true
	}
	switch rest[0] {
	case "env_allow_list":
		return c.EnvAllowList, true
	default:
		return nil, false
	}
}

func getFromLogging(c LoggingConfig, rest []string) (any, bool) {
	if len(rest) == 0 {
		return c, true
	}
	switch rest[0] {
	case "level":
		return c.Level, true
	default:
		return nil, false
	}
}

// WriteValue merges a single dotted-key/value pair into the TOML file at
// path, creating it (and its parent directory) if necessary. Used by
// `cmdgate config set`.
func WriteValue(path, key string, value any) error {
	if path == "" {
		return errors.New("write config: empty path")
	}

	doc := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := setNested(doc, strings.Split(key, "."), value); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(doc)
}

func setNested(doc map[string]any, keys []string, value any) error {
	if len(keys) == 0 {
		return errors.New("write config: empty key")
	}
	if len(keys) == 1 {
		doc[keys[0]] = value
		return nil
	}

	head, rest := keys[0], keys[1:]
	existing, present := doc[head]
	if !present {
		sub := make(map[string]any)
		doc[head] = sub
		return setNested(sub, rest, value)
	}

	sub, ok := existing.(map[string]any)
	if !ok {
		return fmt.Errorf("write config: %q is not a table", head)
	}
	return setNested(sub, rest, value)
}
