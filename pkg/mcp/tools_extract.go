package mcp

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
)

// ExtractResult is the payload of a comments_extract call.
type ExtractResult struct {
	Language string   `json:"language"`
	Comments []string `json:"comments"`
}

// handleExtract processes comments_extract tool calls.
func handleExtract(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input ExtractInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateExtractInput(input)
	if err != nil {
		return errorResult(err)
	}

	lang, err := comments.ParseLanguage(input.Language)
	if err != nil {
		return errorResult(err)
	}

	set, err := comments.Extract(lang, []byte(input.Code))
	if err != nil && !errors.Is(err, comments.ErrDecode) {
		return errorResult(err)
	}

	return jsonResult(ExtractResult{Language: lang.String(), Comments: set.Sorted()})
}
