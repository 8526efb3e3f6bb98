package handler

import (
	"context"
	"sync"

	"dojangkok-ai/internal/domain"
)

type mockChecklistGenerator struct {
	items        []string
	err          error
	lastKeywords []string
}

func (m *mockChecklistGenerator) Generate(ctx context.Context, caseID string, keywords []string) ([]string, error) {
	m.lastKeywords = keywords
	return m.items, m.err
}

type mockContractGenerator struct {
	md       string
	err      error
	lastDocs []domain.Document
}

func (m *mockContractGenerator) Generate(ctx context.Context, caseID int64, docs []domain.Document) (string, error) {
	m.lastDocs = docs
	return m.md, m.err
}

type mockDispatcher struct {
	mu           sync.Mutex
	checklistIDs []string
	keywords     [][]string
	contractIDs  []int64
	contractDocs [][]domain.Document
}

func (m *mockDispatcher) RunChecklist(ctx context.Context, caseID string, keywords []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checklistIDs = append(m.checklistIDs, caseID)
	m.keywords = append(m.keywords, keywords)
}

func (m *mockDispatcher) RunEasyContract(ctx context.Context, caseID int64, docs []domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contractIDs = append(m.contractIDs, caseID)
	m.contractDocs = append(m.contractDocs, docs)
}

// inlineRunner runs jobs before returning so tests can assert on their effects.
type inlineRunner struct {
	names []string
}

func (r *inlineRunner) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	r.names = append(r.names, name)
	fn(context.WithoutCancel(ctx))
}

type mockFetcher struct {
	docs []domain.Document
	err  error
	refs []domain.FileRef
}

func (m *mockFetcher) Fetch(ctx context.Context, refs []domain.FileRef) ([]domain.Document, error) {
	m.refs = refs
	return m.docs, m.err
}

// MockHandlerLogger keeps warning and error messages.
type MockHandlerLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})  {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{}) {}

func (l *MockHandlerLogger) Warn(msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}
