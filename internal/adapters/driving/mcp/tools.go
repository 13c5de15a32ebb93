package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"terms to match against the indexed PR emails"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 10)"`
	Semantic bool   `json:"semantic,omitempty" jsonschema:"rank by embedding similarity only"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []RecordResult `json:"results"`
	Count   int            `json:"count"`
}

// RecordResult is one matched record as returned by the tools.
type RecordResult struct {
	RecordID  string   `json:"record_id"`
	Subject   string   `json:"subject"`
	PRTitle   string   `json:"pr_title,omitempty"`
	PRNumbers []int    `json:"pr_numbers,omitempty"`
	Repos     []string `json:"repos,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Score     float64  `json:"score"`
	Origin    string   `json:"origin"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the archived emails"`
	Limit    int    `json:"limit,omitempty" jsonschema:"records retrieved as context (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []RecordResult `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_pr_mail",
		Description: "Search the indexed pull request emails",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_pr_mail",
		Description: "Answer a question from the indexed pull request emails",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{Limit: limit, SemanticOnly: input.Semantic}
	results, err := s.ports.Query.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]RecordResult, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = toRecordResult(&results[i])
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	answer, err := s.ports.Query.Ask(ctx, input.Question, limit)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]RecordResult, len(answer.Sources)),
	}
	for i := range answer.Sources {
		output.Sources[i] = toRecordResult(&answer.Sources[i])
	}

	return nil, output, nil
}

func toRecordResult(res *domain.SearchResult) RecordResult {
	return RecordResult{
		RecordID:  res.Record.ID,
		Subject:   res.Record.Subject,
		PRTitle:   res.Record.PRTitle,
		PRNumbers: res.Record.PRNumbers,
		Repos:     res.Record.Repos,
		Tags:      res.Record.Tags,
		Score:     res.Score,
		Origin:    string(res.Origin),
	}
}
