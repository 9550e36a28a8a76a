// Package logging builds zerolog loggers from an explicit configuration
// object. Nothing in this module keeps a global logger: the CLI loads a
// Config once at start-up and hands the resulting logger to each component.
package logging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is where the logging configuration is looked up.
	DefaultPath = "config/logging.yaml"
	// DefaultEnvKey names the environment variable that overrides DefaultPath.
	DefaultEnvKey = "LOG_CFG"
)

// Format selects the log line encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config is the logging configuration.
type Config struct {
	Level     zerolog.Level
	Format    Format
	NoColor   bool
	Component string
}

// Default returns the configuration used when no file is found: console
// output at the given level.
func Default(level zerolog.Level) Config {
	return Config{
		Level:   level,
		Format:  FormatConsole,
		NoColor: true,
	}
}

// fileConfig is the on-disk shape. The root section mirrors the dictConfig
// layout of the generated config/logging.yaml so that file can be read too.
type fileConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	NoColor *bool  `yaml:"no_color"`
	Root    struct {
		Level string `yaml:"level"`
	} `yaml:"root"`
}

// ResolvePath returns the value of envKey when it is set, path otherwise.
func ResolvePath(path, envKey string) string {
	if envKey != "" {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
	}
	if path == "" {
		return DefaultPath
	}
	return path
}

// Load reads the configuration file named by ResolvePath(path, envKey).
// A missing file yields fallback; an unreadable or malformed file is an
// error.
func Load(path, envKey string, fallback Config) (Config, error) {
	resolved := ResolvePath(path, envKey)
	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read logging config %s: %w", resolved, err)
	}
	return Parse(data, fallback)
}

// Parse decodes a logging configuration document. Fields not present keep
// their fallback values.
func Parse(data []byte, fallback Config) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse logging config: %w", err)
	}

	cfg := fallback
	levelStr := fc.Level
	if levelStr == "" {
		levelStr = fc.Root.Level
	}
	if levelStr != "" {
		level, err := LogLevelFromString(levelStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid log level %q: %w", levelStr, err)
		}
		cfg.Level = level
	}
	switch Format(strings.ToLower(fc.Format)) {
	case "":
	case FormatConsole:
		cfg.Format = FormatConsole
	case FormatJSON:
		cfg.Format = FormatJSON
	default:
		return Config{}, fmt.Errorf("invalid log format %q", fc.Format)
	}
	if fc.NoColor != nil {
		cfg.NoColor = *fc.NoColor
	}
	return cfg, nil
}

// NewLogger creates a logger writing to w according to cfg.
func (cfg Config) NewLogger(w io.Writer) zerolog.Logger {
	if cfg.Format == FormatJSON {
		return cfg.decorate(zerolog.New(w))
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	return cfg.decorate(zerolog.New(output))
}

func (cfg Config) decorate(l zerolog.Logger) zerolog.Logger {
	ctx := l.Level(cfg.Level).With().Timestamp()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	return ctx.Logger()
}

// NewTestLogger creates a logger instance for tests with a specified verbosity.
func NewTestLogger(w io.Writer, verbose int) zerolog.Logger {
	var level zerolog.Level
	switch verbose {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}
	return Default(level).NewLogger(w)
}

// LogLevelFromString parses a level name. Python-style names such as
// WARNING and CRITICAL are accepted.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	switch s := strings.ToLower(strings.TrimSpace(levelStr)); s {
	case "warning":
		return zerolog.WarnLevel, nil
	case "critical":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.ParseLevel(s)
	}
}
