package mcp

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results []domain.SearchResult
	answer  domain.Answer
	err     error

	gotQuery    string
	gotOpts     domain.SearchOptions
	gotQuestion string
	gotLimit    int
}

func (m *mockQueryService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.gotQuery, m.gotOpts = query, opts
	return m.results, m.err
}

func (m *mockQueryService) Ask(_ context.Context, question string, k int) (domain.Answer, error) {
	m.gotQuestion, m.gotLimit = question, k
	return m.answer, m.err
}

func (m *mockQueryService) Chat(_ context.Context, _, _ string) (domain.Answer, error) {
	return m.answer, m.err
}

// mockRecordReader is a mock implementation of RecordReader.
type mockRecordReader struct {
	records []domain.Record
	record  *domain.Record
	err     error
}

func (m *mockRecordReader) All(_ context.Context) ([]domain.Record, error) {
	return m.records, m.err
}

func (m *mockRecordReader) Get(_ context.Context, _ string) (*domain.Record, error) {
	return m.record, m.err
}

// mockConversationReader is a mock implementation of ConversationReader.
type mockConversationReader struct {
	turns []domain.ChatTurn
	err   error
}

func (m *mockConversationReader) Turns(_ context.Context, _ string) ([]domain.ChatTurn, error) {
	return m.turns, m.err
}
