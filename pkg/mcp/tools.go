package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameExtract   = "comments_extract"
	ToolNameLifecycle = "comments_lifecycle"
)

// MaxCodeInputBytes caps inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrEmptyLanguage indicates the language parameter is empty.
	ErrEmptyLanguage = errors.New("language parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
	// ErrRepoNotFound indicates the repository path does not exist.
	ErrRepoNotFound = errors.New("repository path does not exist")
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("path is not a git repository")
	// ErrEmptyFilePath indicates the file_path parameter is empty.
	ErrEmptyFilePath = errors.New("file_path parameter is required and must not be empty")
	// ErrUnclassifiedFile indicates no grammar applies to the file.
	ErrUnclassifiedFile = errors.New("cannot determine comment language for file; pass language")
)

// ExtractInput is the input schema for the comments_extract tool.
type ExtractInput struct {
	Code     string `json:"code"     jsonschema:"source code to extract comments from"`
	Language string `json:"language" jsonschema:"comment grammar: python, cpp or fortran"`
}

// LifecycleInput is the input schema for the comments_lifecycle tool.
type LifecycleInput struct {
	RepoPath    string `json:"repo_path"              jsonschema:"absolute path to a git working tree"`
	FilePath    string `json:"file_path"              jsonschema:"repository-relative path of the file to replay"`
	Language    string `json:"language,omitempty"     jsonschema:"comment grammar; inferred from the extension when omitted"`
	Since       string `json:"since,omitempty"        jsonschema:"only replay commits after this time (e.g. 720h or 2024-01-01)"`
	FirstParent bool   `json:"first_parent,omitempty" jsonschema:"follow only the first parent of merge commits"`
	Committer   bool   `json:"committer,omitempty"    jsonschema:"timestamp events with committer time instead of author time"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateExtractInput(input ExtractInput) error {
	if input.Code == "" {
		return ErrEmptyCode
	}

	if input.Language == "" {
		return ErrEmptyLanguage
	}

	if len(input.Code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes)
	}

	return nil
}

func validateLifecycleInput(input LifecycleInput) error {
	if input.RepoPath == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(input.RepoPath) {
		return ErrRepoPathNotAbsolute
	}

	info, err := os.Stat(input.RepoPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, input.RepoPath)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRepoNotFound, input.RepoPath)
	}

	_, err = os.Stat(filepath.Join(input.RepoPath, ".git"))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, input.RepoPath)
	}

	if input.FilePath == "" {
		return ErrEmptyFilePath
	}

	return nil
}
