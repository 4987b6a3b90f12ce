package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(DefaultConfig) unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Challenge.TimeoutMS = 0
	cfg.Challenge.Type = "carrier-pigeon"
	cfg.Validation.AllowedSeverities = []string{"urgent"}
	cfg.Logging.Level = "shout"

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"timeout_ms", "carrier-pigeon", "urgent", "shout"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got %v", want, err)
		}
	}
}

func TestLoad_Precedence_DefaultsUserProjectEnvFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()

	userPath := filepath.Join(home, ".cmdgate", "config.toml")
	if err := WriteValue(userPath, "challenge.timeout_ms", 10_000); err != nil {
		t.Fatalf("WriteValue user: %v", err)
	}

	projectPath := filepath.Join(project, ".cmdgate", "config.toml")
	if err := WriteValue(projectPath, "challenge.timeout_ms", 20_000); err != nil {
		t.Fatalf("WriteValue project: %v", err)
	}

	t.Setenv("CMDGATE_CHALLENGE_TIMEOUT_MS", "30000")

	cfg, err := Load(LoadOptions{
		ProjectDir: project,
		FlagOverrides: map[string]any{
			"challenge.timeout_ms": 40_000,
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Challenge.TimeoutMS != 40_000 {
		t.Fatalf("timeout_ms=%d want 40000 (flag wins)", cfg.Challenge.TimeoutMS)
	}
}

func TestLoad_EnvOverridesFileButNotFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	project := t.TempDir()

	projectPath := filepath.Join(project, ".cmdgate", "config.toml")
	if err := WriteValue(projectPath, "challenge.timeout_ms", 20_000); err != nil {
		t.Fatalf("WriteValue project: %v", err)
	}
	t.Setenv("CMDGATE_CHALLENGE_TIMEOUT_MS", "30000")

	cfg, err := Load(LoadOptions{ProjectDir: project})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Challenge.TimeoutMS != 30_000 {
		t.Fatalf("timeout_ms=%d want 30000 (env wins over file)", cfg.Challenge.TimeoutMS)
	}

	cfg, err = Load(LoadOptions{
		ProjectDir:    project,
		FlagOverrides: map[string]any{"challenge.timeout_ms": 40_000},
	})
	if err != nil {
		t.Fatalf("Load with flag override: %v", err)
	}
	if cfg.Challenge.TimeoutMS != 40_000 {
		t.Fatalf("timeout_ms=%d want 40000 (flag wins over env)", cfg.Challenge.TimeoutMS)
	}
}

func TestLoad_InvalidEnvValueErrors(t *testing.T) {
	t.Setenv("CMDGATE_CHALLENGE_TIMEOUT_MS", "not-an-int")
	if _, err := Load(LoadOptions{ProjectDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_ProjectDirEmptyUsesCWD(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
	if err := os.Chdir(project); err != nil {
		t.Fatalf("Chdir: %v", err)
	}

	projectPath := filepath.Join(project, ".cmdgate", "config.toml")
	if err := WriteValue(projectPath, "challenge.timeout_ms", 9_000); err != nil {
		t.Fatalf("WriteValue project: %v", err)
	}

	cfg, err := Load(LoadOptions{ProjectDir: ""})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Challenge.TimeoutMS != 9_000 {
		t.Fatalf("timeout_ms=%d want 9000", cfg.Challenge.TimeoutMS)
	}
}

func TestLoad_DefaultsWhenNoFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(LoadOptions{ProjectDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("Load with no files = %#v, want defaults %#v", cfg, DefaultConfig())
	}
}

func TestMergeConfigFile(t *testing.T) {
	v := newTestViper()

	if err := mergeConfigFile(v, ""); err != nil {
		t.Fatalf("mergeConfigFile(empty): %v", err)
	}

	if err := mergeConfigFile(v, filepath.Join(t.TempDir(), "missing.toml")); err != nil {
		t.Fatalf("mergeConfigFile(missing): %v", err)
	}

	if err := mergeConfigFile(v, t.TempDir()); err == nil {
		t.Fatalf("expected error for directory path")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("challenge = [\n"), 0644); err != nil {
		t.Fatalf("write invalid toml: %v", err)
	}
	if err := mergeConfigFile(v, path); err == nil {
		t.Fatalf("expected error for invalid toml")
	}
}

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestConfigPathsAndProjectConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	u, p := ConfigPaths("/proj", "")
	if u != filepath.Join(home, ".cmdgate", "config.toml") {
		t.Fatalf("unexpected user path: %q", u)
	}
	if p != filepath.Join("/proj", ".cmdgate", "config.toml") {
		t.Fatalf("unexpected project path: %q", p)
	}

	if got := projectConfigPath("", ""); got != ".cmdgate/config.toml" {
		t.Fatalf("projectConfigPath(empty)=%q", got)
	}
	if got := projectConfigPath("/proj", "/override.toml"); got != "/override.toml" {
		t.Fatalf("projectConfigPath(override)=%q", got)
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("challenge.timeout_ms", "30000")
	if err != nil {
		t.Fatalf("ParseValue int: %v", err)
	}
	if v.(int) != 30000 {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = ParseValue("challenge.type", "math")
	if err != nil {
		t.Fatalf("ParseValue string: %v", err)
	}
	if v.(string) != "math" {
		t.Fatalf("unexpected value: %#v", v)
	}

	v, err = ParseValue("validation.allowed_severities", "critical, , high")
	if err != nil {
		t.Fatalf("ParseValue slice: %v", err)
	}
	if !reflect.DeepEqual(v, []string{"critical", "high"}) {
		t.Fatalf("unexpected slice: %#v", v)
	}

	if _, err := parseValueByKind("x", valueKind(123)); err == nil {
		t.Fatalf("expected error for unsupported value kind")
	}

	if _, err := ParseValue("nope.nope", "x"); err == nil {
		t.Fatalf("expected unsupported key error")
	}
}

func TestGetValue(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		key  string
		want any
	}{
		{"validation.allowed_severities", cfg.Validation.AllowedSeverities},
		{"validation.deny_pattern_ids", cfg.Validation.DenyPatternIDs},
		{"challenge.type", cfg.Challenge.Type},
		{"challenge.timeout_ms", cfg.Challenge.TimeoutMS},
		{"exec.env_allow_list", cfg.Exec.EnvAllowList},
		{"logging.level", cfg.Logging.Level},
		{"validation", cfg.Validation},
		{"challenge", cfg.Challenge},
		{"exec", cfg.Exec},
		{"logging", cfg.Logging},
	}

	for _, tc := range cases {
		got, ok := GetValue(cfg, tc.key)
		if !ok {
			t.Fatalf("GetValue(%q) not found", tc.key)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("GetValue(%q)=%#v want %#v", tc.key, got, tc.want)
		}
	}

	if _, ok := GetValue(cfg, ""); ok {
		t.Fatalf("expected empty key to be not found")
	}

	badKeys := []string{
		"nope",
		"validation.nope",
		"challenge.nope",
		"exec.nope",
		"logging.nope",
	}
	for _, key := range badKeys {
		if _, ok := GetValue(cfg, key); ok {
			t.Fatalf("expected %q to be not found", key)
		}
	}
}

func TestWriteValue(t *testing.T) {
	if err := WriteValue("", "challenge.timeout_ms", 2); err == nil {
		t.Fatalf("expected error for empty path")
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteValue(path, "challenge.timeout_ms", 3); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[challenge]") || !strings.Contains(string(data), "timeout_ms = 3") {
		t.Fatalf("unexpected toml: %q", string(data))
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("challenge = \"oops\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteValue(bad, "challenge.timeout_ms", 2); err == nil {
		t.Fatalf("expected error when challenge is not a table")
	}
}

func TestWriteValue_DecodeExistingInvalidTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("challenge = [\n"), 0644); err != nil {
		t.Fatalf("write invalid toml: %v", err)
	}
	if err := WriteValue(path, "challenge.timeout_ms", 2); err == nil {
		t.Fatalf("expected decode error")
	} else if !strings.Contains(err.Error(), "decode config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteValue_MergesWithExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteValue(path, "challenge.timeout_ms", 5000); err != nil {
		t.Fatalf("WriteValue 1: %v", err)
	}
	if err := WriteValue(path, "challenge.type", "word"); err != nil {
		t.Fatalf("WriteValue 2: %v", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	if v.GetInt("challenge.timeout_ms") != 5000 {
		t.Fatalf("expected timeout_ms to survive the second write, got %d", v.GetInt("challenge.timeout_ms"))
	}
	if v.GetString("challenge.type") != "word" {
		t.Fatalf("expected type=word, got %q", v.GetString("challenge.type"))
	}
}
