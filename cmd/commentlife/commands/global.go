// Package commands implements CLI command handlers for commentlife.
package commands

import (
	"io"
	"log/slog"

	"github.com/Sumatoshi-tech/commentlife/internal/config"
	"github.com/Sumatoshi-tech/commentlife/pkg/classify"
	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
	"github.com/Sumatoshi-tech/commentlife/pkg/version"
)

// GlobalFlags are the persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// logLevel resolves the effective level: --verbose and --quiet win over the
// configured level.
func (g *GlobalFlags) logLevel(configured string) slog.Level {
	switch {
	case g.Verbose:
		return slog.LevelDebug
	case g.Quiet:
		return slog.LevelError
	default:
		return observability.ParseLogLevel(configured)
	}
}

// observabilityConfig maps the loaded configuration onto the observability layer.
func observabilityConfig(
	cfg *config.Config,
	global *GlobalFlags,
	mode observability.AppMode,
	logWriter io.Writer,
) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogLevel = global.logLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = logWriter

	return obsCfg
}

// newClassifier builds the file classifier from the languages section.
// Validate has already rejected unknown languages.
func newClassifier(cfg *config.Config) *classify.Classifier {
	if len(cfg.Languages.Extensions) == 0 {
		return classify.New(nil, cfg.Languages.Detect)
	}

	rules := make([]classify.Rule, 0, len(cfg.Languages.Extensions))

	for _, ext := range cfg.Languages.Extensions {
		lang, err := comments.ParseLanguage(ext.Language)
		if err != nil {
			continue
		}

		rules = append(rules, classify.Rule{Extension: ext.Extension, Language: lang})
	}

	return classify.New(rules, cfg.Languages.Detect)
}
