package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benhoyt/jawk/internal/config"
	"github.com/benhoyt/jawk/internal/output"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jawk.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvFormat, config.EnvLogLevel, config.EnvHistory} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format() != output.Text {
		t.Errorf("expected text format, got %q", cfg.Format())
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelWarn {
		t.Errorf("expected warn level, got %s", level)
	}
	if cfg.REPL.Prompt != "jawk> " {
		t.Errorf("unexpected prompt %q", cfg.REPL.Prompt)
	}
	if cfg.Watch.Debounce.Duration != 100*time.Millisecond {
		t.Errorf("unexpected debounce %s", cfg.Watch.Debounce)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[output]
format = "yaml"

[log]
level = "debug"

[repl]
prompt = "> "
history_file = ""

[watch]
debounce = "250ms"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format() != output.YAML {
		t.Errorf("expected yaml format, got %q", cfg.Format())
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", level)
	}
	if cfg.REPL.Prompt != "> " {
		t.Errorf("unexpected prompt %q", cfg.REPL.Prompt)
	}
	if cfg.REPL.ContinuationPrompt != "   .. " {
		t.Errorf("expected default continuation prompt, got %q", cfg.REPL.ContinuationPrompt)
	}
	if cfg.REPL.HistoryFile != "" {
		t.Errorf("expected history disabled, got %q", cfg.REPL.HistoryFile)
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("unexpected debounce %s", cfg.Watch.Debounce)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[output]\nformat = \"text\"\n")
	t.Setenv(config.EnvFormat, "yaml")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvHistory, "/tmp/hist")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format() != output.YAML {
		t.Errorf("expected env to override format, got %q", cfg.Format())
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelError {
		t.Errorf("expected error level, got %s", level)
	}
	if cfg.REPL.HistoryFile != "/tmp/hist" {
		t.Errorf("unexpected history file %q", cfg.REPL.HistoryFile)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
		err     string
	}{
		{"bad format", "[output]\nformat = \"json\"\n", "output.format: unknown output format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", `log.level: unknown log level "loud"`},
		{"bad duration", "[watch]\ndebounce = \"soon\"\n", "failed to parse config"},
		{"negative duration", "[watch]\ndebounce = \"-1s\"\n", "watch.debounce: must not be negative"},
		{"unknown key", "[output]\ncolour = true\n", "unknown config keys"},
		{"bad syntax", "[output\n", "failed to parse config"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, test.content))
			if err == nil {
				err = cfg.Validate()
			}
			if err == nil {
				t.Fatalf("expected error containing %q", test.err)
			}
			if !strings.Contains(err.Error(), test.err) {
				t.Errorf("expected error containing %q, got %q", test.err, err.Error())
			}
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestInvalidEnvCanBeOverridden(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvFormat, "xml")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid format from environment")
	}
	cfg.Output.Format = "text"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected override to fix config, got %v", err)
	}
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "info"
	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown key=value") {
		t.Errorf("expected info message:\n%s", out)
	}
}
