package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/commentlife/pkg/classify"
	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

// LifecycleResult is the payload of a comments_lifecycle call.
type LifecycleResult struct {
	FilePath  string                  `json:"file_path"`
	Language  string                  `json:"language"`
	Comments  []lifecycle.Row         `json:"comments"`
	Errors    []lifecycle.ErrorRecord `json:"errors"`
	Revisions int                     `json:"revisions"`
}

// handleLifecycle processes comments_lifecycle tool calls.
func (s *Server) handleLifecycle(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input LifecycleInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateLifecycleInput(input)
	if err != nil {
		return errorResult(err)
	}

	lang, err := resolveLanguage(input)
	if err != nil {
		return errorResult(err)
	}

	logOpts := gitlib.LogOptions{FirstParent: input.FirstParent}

	if input.Since != "" {
		since, parseErr := gitlib.ParseTime(input.Since)
		if parseErr != nil {
			return errorResult(parseErr)
		}

		logOpts.Since = &since
	}

	timestamp := lifecycle.AuthorTime
	if input.Committer {
		timestamp = lifecycle.CommitterTime
	}

	repo, err := gitlib.LoadRepository(input.RepoPath)
	if err != nil {
		return errorResult(fmt.Errorf("load repository: %w", err))
	}
	defer repo.Free()

	s.walkMu.Lock()
	defer s.walkMu.Unlock()

	walker := &lifecycle.Walker{
		History: &lifecycle.GitHistory{Repo: repo, Log: logOpts, Timestamp: timestamp},
		Logger:  s.logger(),
		Metrics: s.deps.WalkMetrics,
		Tracer:  s.deps.Tracer,
	}

	ledger := lifecycle.NewLedger()
	errs := lifecycle.NewErrorLedger()

	stats, runErr := walker.Run(ctx, []lifecycle.Target{{Path: input.FilePath, Language: lang}}, ledger, errs)

	restoreErr := restoreHead(ctx, repo, input.FilePath)
	if restoreErr != nil {
		s.logger().WarnContext(ctx, "restore working tree file", "path", input.FilePath, "error", restoreErr)
	}

	if runErr != nil {
		return errorResult(runErr)
	}

	return jsonResult(LifecycleResult{
		FilePath:  input.FilePath,
		Language:  lang.String(),
		Comments:  ledger.Rows(),
		Errors:    errs.Records(),
		Revisions: stats.Revisions,
	})
}

func resolveLanguage(input LifecycleInput) (comments.Language, error) {
	if input.Language != "" {
		return comments.ParseLanguage(input.Language)
	}

	lang := classify.New(nil, true).Classify(input.FilePath)
	if lang == comments.Unknown {
		return lang, fmt.Errorf("%w: %s", ErrUnclassifiedFile, input.FilePath)
	}

	return lang, nil
}

// restoreHead puts HEAD's version of path back into the working tree.
func restoreHead(ctx context.Context, repo *gitlib.Repository, path string) error {
	head, err := repo.Head()
	if err != nil {
		return err
	}

	err = repo.CheckoutPath(ctx, head, path)
	if errors.Is(err, gitlib.ErrPathNotInCommit) {
		return nil
	}

	return err
}
