// Package config loads commentlife settings from defaults, a YAML file and
// COMMENTLIFE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Repositories []RepositoryConfig `mapstructure:"repositories"`
	Output       OutputConfig       `mapstructure:"output"`
	Languages    LanguagesConfig    `mapstructure:"languages"`
	History      HistoryConfig      `mapstructure:"history"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// RepositoryConfig names a repository to walk and an optional revision to
// check out first.
type RepositoryConfig struct {
	Path string `mapstructure:"path"`
	Tag  string `mapstructure:"tag"`
}

// OutputConfig names the run artifacts.
type OutputConfig struct {
	Comments string `mapstructure:"comments"`
	Errors   string `mapstructure:"errors"`
	Format   string `mapstructure:"format"`
}

// ExtensionRule maps a file extension to a comment grammar. Extensions are
// matched case-sensitively.
type ExtensionRule struct {
	Extension string `mapstructure:"ext"`
	Language  string `mapstructure:"language"`
}

// LanguagesConfig controls file classification. An empty Extensions list
// selects the built-in table.
type LanguagesConfig struct {
	Extensions []ExtensionRule `mapstructure:"extensions"`
	Detect     bool            `mapstructure:"detect"`
}

// HistoryConfig controls revision enumeration.
type HistoryConfig struct {
	Timestamp   string `mapstructure:"timestamp"`
	Since       string `mapstructure:"since"`
	FirstParent bool   `mapstructure:"first_parent"`
}

// LoggingConfig controls the slog output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	MetricsFile  string `mapstructure:"metrics_file"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// Sentinel errors for configuration validation.
var (
	// ErrNoOutput indicates an empty output path.
	ErrNoOutput = errors.New("output.comments and output.errors must be set")
	// ErrInvalidFormat indicates an unknown output.format.
	ErrInvalidFormat = errors.New("output.format must be csv, json or yaml")
	// ErrInvalidTimestamp indicates an unknown history.timestamp.
	ErrInvalidTimestamp = errors.New("history.timestamp must be author or committer")
	// ErrInvalidSince indicates an unparsable history.since.
	ErrInvalidSince = errors.New("history.since must be a duration, RFC3339 time or date")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrEmptyRepositoryPath indicates a repositories entry without a path.
	ErrEmptyRepositoryPath = errors.New("repositories[].path must be set")
	// ErrInvalidExtension indicates a malformed languages.extensions entry.
	ErrInvalidExtension = errors.New("languages.extensions entries need a dotted ext and a known language")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Output.Comments == "" || c.Output.Errors == "" {
		return ErrNoOutput
	}

	if _, err := lifecycle.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if _, err := lifecycle.ParseTimestampSource(c.History.Timestamp); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, c.History.Timestamp)
	}

	if c.History.Since != "" {
		if _, err := gitlib.ParseTime(c.History.Since); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidSince, c.History.Since)
		}
	}

	if !validLogLevel(c.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	for idx, repo := range c.Repositories {
		if strings.TrimSpace(repo.Path) == "" {
			return fmt.Errorf("%w: entry %d", ErrEmptyRepositoryPath, idx)
		}
	}

	for _, rule := range c.Languages.Extensions {
		_, langErr := comments.ParseLanguage(rule.Language)
		if !strings.HasPrefix(rule.Extension, ".") || langErr != nil {
			return fmt.Errorf("%w: %q -> %q", ErrInvalidExtension, rule.Extension, rule.Language)
		}
	}

	return nil
}

func validLogLevel(level string) bool {
	if level == "" {
		return true
	}

	for _, known := range logLevels {
		if strings.EqualFold(level, known) {
			return true
		}
	}

	return false
}
