package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/internal/config"
	"github.com/Sumatoshi-tech/commentlife/pkg/classify"
	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
	"github.com/Sumatoshi-tech/commentlife/pkg/report"
)

const (
	walkCmdUse   = "walk [repository...]"
	walkCmdShort = "Walk repository histories and write the comment and error ledgers"
	plotTitle    = "Comment lifecycle"
)

var (
	// ErrNoRepositories is returned when neither arguments nor config name a repository.
	ErrNoRepositories = errors.New("no repositories given (pass paths or set repositories in the config)")
	// ErrRepositoryFailed is returned when at least one repository could not be walked.
	ErrRepositoryFailed = errors.New("one or more repositories failed")
)

// WalkCommand holds the flags of the walk subcommand.
type WalkCommand struct {
	global *GlobalFlags

	out         string
	errorsOut   string
	format      string
	tag         string
	since       string
	timestamp   string
	plot        string
	metricsFile string
	firstParent bool
	detect      bool
}

// NewWalkCommand creates the walk subcommand.
func NewWalkCommand(global *GlobalFlags) *cobra.Command {
	wc := &WalkCommand{global: global}

	cmd := &cobra.Command{
		Use:   walkCmdUse,
		Short: walkCmdShort,
		Long: `Walk lists the tracked Python (.py), Fortran (.F90) and C-family (.cpp, .h, .hpp)
files of each repository, replays every file's history oldest first and records,
per comment, the last introduction and removal time. Both ledgers are written
once, after every repository has been walked.`,
		RunE: wc.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&wc.out, "out", "o", "", "comment ledger path (default from config: comments.csv)")
	flags.StringVar(&wc.errorsOut, "errors", "", "error ledger path (default from config: errors.csv)")
	flags.StringVarP(&wc.format, "format", "f", "", "ledger format: csv, json or yaml")
	flags.StringVar(&wc.tag, "tag", "", "check out this tag, branch or commit in every repository before walking")
	flags.StringVar(&wc.since, "since", "", "only replay commits after this time (e.g. 720h, 2024-01-01)")
	flags.StringVar(&wc.timestamp, "timestamp", "", "event timestamp source: author or committer")
	flags.StringVar(&wc.plot, "plot", "", "also write a monthly HTML timeline to this path")
	flags.StringVar(&wc.metricsFile, "metrics-file", "", "write walk metrics in Prometheus text format to this path")
	flags.BoolVar(&wc.firstParent, "first-parent", false, "follow only the first parent of merge commits")
	flags.BoolVar(&wc.detect, "detect-languages", false, "classify files the extension table misses with linguist detection")

	return cmd
}

func (wc *WalkCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(wc.global.ConfigPath)
	if err != nil {
		return err
	}

	wc.applyFlags(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return fmt.Errorf("validate config: %w", validateErr)
	}

	repos := repositories(cfg, args, wc.tag)
	if len(repos) == 0 {
		return ErrNoRepositories
	}

	providers, err := observability.Init(observabilityConfig(cfg, wc.global, observability.ModeCLI, cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var stdout io.Writer = cmd.OutOrStdout()

	progress := cmd.ErrOrStderr()

	if wc.global.Quiet {
		stdout = io.Discard
		progress = nil
	}

	return runWalk(ctx, cfg, repos, providers, walkOutput{stdout: stdout, progress: progress}, wc.plot)
}

// applyFlags lets explicitly set flags override the loaded configuration.
func (wc *WalkCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	overrides := []struct {
		name   string
		target *string
		value  string
	}{
		{"out", &cfg.Output.Comments, wc.out},
		{"errors", &cfg.Output.Errors, wc.errorsOut},
		{"format", &cfg.Output.Format, wc.format},
		{"since", &cfg.History.Since, wc.since},
		{"timestamp", &cfg.History.Timestamp, wc.timestamp},
		{"metrics-file", &cfg.Telemetry.MetricsFile, wc.metricsFile},
	}

	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.target = o.value
		}
	}

	if flags.Changed("first-parent") {
		cfg.History.FirstParent = wc.firstParent
	}

	if flags.Changed("detect-languages") {
		cfg.Languages.Detect = wc.detect
	}
}

// repositories returns the positional repositories, or the configured ones
// when none were given. --tag applies to every positional repository.
func repositories(cfg *config.Config, args []string, tag string) []config.RepositoryConfig {
	if len(args) == 0 {
		return cfg.Repositories
	}

	repos := make([]config.RepositoryConfig, 0, len(args))
	for _, path := range args {
		repos = append(repos, config.RepositoryConfig{Path: path, Tag: tag})
	}

	return repos
}

// walkSettings is the per-run state shared by every repository walk.
type walkSettings struct {
	logOpts    gitlib.LogOptions
	timestamp  lifecycle.TimestampSource
	classifier *classify.Classifier
	providers  observability.Providers
	metrics    *observability.WalkMetrics
	progress   io.Writer
}

// walkOutput routes the run's terminal output. A nil progress writer
// silences per-file progress lines.
type walkOutput struct {
	stdout   io.Writer
	progress io.Writer
}

func newWalkSettings(cfg *config.Config, providers observability.Providers, progress io.Writer) (*walkSettings, error) {
	timestamp, err := lifecycle.ParseTimestampSource(cfg.History.Timestamp)
	if err != nil {
		return nil, err
	}

	logOpts := gitlib.LogOptions{FirstParent: cfg.History.FirstParent}

	if cfg.History.Since != "" {
		since, parseErr := gitlib.ParseTime(cfg.History.Since)
		if parseErr != nil {
			return nil, parseErr
		}

		logOpts.Since = &since
	}

	metrics, err := observability.NewWalkMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("walk metrics: %w", err)
	}

	return &walkSettings{
		logOpts:    logOpts,
		timestamp:  timestamp,
		classifier: newClassifier(cfg),
		providers:  providers,
		metrics:    metrics,
		progress:   progress,
	}, nil
}

func runWalk(
	ctx context.Context,
	cfg *config.Config,
	repos []config.RepositoryConfig,
	providers observability.Providers,
	output walkOutput,
	plotPath string,
) error {
	stdout := output.stdout

	settings, err := newWalkSettings(cfg, providers, output.progress)
	if err != nil {
		return err
	}

	format, err := lifecycle.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logger := providers.Logger
	ledger := lifecycle.NewLedger()
	errs := lifecycle.NewErrorLedger()
	summaries := make([]report.RepositorySummary, 0, len(repos))

	var runErr error

	for _, repo := range repos {
		summary := settings.walkRepository(ctx, repo, ledger, errs)
		summaries = append(summaries, summary)

		if summary.Err != nil {
			logger.ErrorContext(ctx, "repository walk failed", "repository", repo.Path, "error", summary.Err)
		} else {
			logger.InfoContext(ctx, "repository walked", "repository", repo.Path,
				"files", summary.Stats.Files, "revisions", summary.Stats.Revisions,
				"events", summary.Stats.Events, "errors", summary.Stats.Errors,
				"duration", summary.Stats.Duration)
		}

		if ctx.Err() != nil {
			runErr = ctx.Err()

			break
		}
	}

	out := lifecycle.Output{CommentsPath: cfg.Output.Comments, ErrorsPath: cfg.Output.Errors, Format: format}

	flushErr := lifecycle.FlushFiles(out, ledger, errs)
	if flushErr != nil {
		return fmt.Errorf("write ledgers: %w", flushErr)
	}

	summaryErr := report.WriteSummary(stdout, summaries)
	if summaryErr != nil {
		return summaryErr
	}

	report.WriteArtifacts(stdout,
		artifact("comments", out.CommentsPath, ledger.Len()),
		artifact("errors", out.ErrorsPath, errs.Len()),
	)

	if plotPath != "" {
		plotErr := writePlot(plotPath, plotTitle, ledger.Rows())
		if plotErr != nil && !errors.Is(plotErr, report.ErrNoTimestamps) {
			return plotErr
		}

		if plotErr != nil {
			logger.WarnContext(ctx, "timeline not written", "path", plotPath, "error", plotErr)
		}
	}

	if runErr != nil {
		return runErr
	}

	for _, summary := range summaries {
		if summary.Err != nil {
			return ErrRepositoryFailed
		}
	}

	return nil
}

// walkRepository walks every classified file of one repository into the
// shared ledgers. Only repository-level failures end up in the summary error.
func (s *walkSettings) walkRepository(
	ctx context.Context,
	cfg config.RepositoryConfig,
	ledger *lifecycle.Ledger,
	errs *lifecycle.ErrorLedger,
) report.RepositorySummary {
	summary := report.RepositorySummary{Repository: cfg.Path}

	repo, err := gitlib.LoadRepository(cfg.Path)
	if err != nil {
		summary.Err = fmt.Errorf("open %s: %w", cfg.Path, err)

		return summary
	}
	defer repo.Free()

	if cfg.Tag != "" {
		head, checkoutErr := repo.CheckoutRevision(ctx, cfg.Tag)
		if checkoutErr != nil {
			summary.Err = fmt.Errorf("checkout %s: %w", cfg.Tag, checkoutErr)

			return summary
		}

		s.providers.Logger.DebugContext(ctx, "checked out revision", "repository", cfg.Path, "rev", cfg.Tag, "commit", head.String())
	}

	files, err := repo.TrackedFiles()
	if err != nil {
		summary.Err = fmt.Errorf("list files: %w", err)

		return summary
	}

	targets := s.classifier.Targets(files)

	s.providers.Logger.DebugContext(ctx, "classified files", "repository", cfg.Path,
		"tracked", len(files), "targets", len(targets))

	walker := &lifecycle.Walker{
		History: &lifecycle.GitHistory{Repo: repo, Log: s.logOpts, Timestamp: s.timestamp},
		Logger:  s.providers.Logger.With(slog.String("repository", cfg.Path)),
		Metrics: s.metrics,
		Tracer:  s.providers.Tracer,
		Root:    repo.Workdir(),
	}

	if s.progress != nil {
		walker.Progress = func(done, total int, res lifecycle.Result) {
			progressf(s.progress, "%s [%d/%d] %s %s revisions=%d events=%d errors=%d",
				cfg.Path, done, total, res.Language, res.Path, res.Revisions, len(res.Events), len(res.Errors))
		}
	}

	stats, err := walker.Run(ctx, targets, ledger, errs)
	summary.Stats = stats

	if err != nil {
		summary.Err = err
	}

	return summary
}

func artifact(label, path string, rows int) report.Artifact {
	a := report.Artifact{Label: label, Path: path, Rows: rows}

	info, err := os.Stat(path)
	if err == nil {
		a.Size = info.Size()
	}

	return a
}

func progressf(writer io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}
