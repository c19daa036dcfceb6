// Package config loads jawk's settings from a TOML file, with
// environment variable overrides.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/benhoyt/jawk/internal/output"
)

// Environment variables that override the config file.
const (
	EnvFormat   = "JAWK_FORMAT"
	EnvLogLevel = "JAWK_LOG_LEVEL"
	EnvHistory  = "JAWK_HISTORY"
)

// Config holds the complete jawk configuration.
type Config struct {
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	REPL   REPLConfig   `toml:"repl"`
	Watch  WatchConfig  `toml:"watch"`
}

// OutputConfig controls how parsed programs are printed.
type OutputConfig struct {
	Format string `toml:"format"` // "text" or "yaml"
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// REPLConfig holds interactive session settings.
type REPLConfig struct {
	Prompt             string `toml:"prompt"`
	ContinuationPrompt string `toml:"continuation_prompt"`
	HistoryFile        string `toml:"history_file"` // empty disables history
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string like "250ms" in
// the config file.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".jawk_history")
	}
	return &Config{
		Output: OutputConfig{Format: string(output.Text)},
		Log:    LogConfig{Level: "warn"},
		REPL: REPLConfig{
			Prompt:             "jawk> ",
			ContinuationPrompt: "   .. ",
			HistoryFile:        history,
		},
		Watch: WatchConfig{Debounce: Duration{100 * time.Millisecond}},
	}
}

// Load returns the default configuration overlaid with the TOML file
// at path (if path isn't empty) and then with environment variable
// overrides. The result isn't validated, so callers can apply their
// own overrides (command line flags) before calling Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		path = os.ExpandEnv(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Output.Format = envOrDefault(EnvFormat, c.Output.Format)
	c.Log.Level = envOrDefault(EnvLogLevel, c.Log.Level)
	c.REPL.HistoryFile = envOrDefault(EnvHistory, c.REPL.HistoryFile)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("watch.debounce: must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Format returns the configured output format.
func (c *Config) Format() output.Format {
	format, _ := output.ParseFormat(c.Output.Format)
	return format
}

// LogLevel parses the configured log level name.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
