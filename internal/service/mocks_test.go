package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"dojangkok-ai/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.record("ERROR: " + msg)
		return
	}
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

func (m *MockLogger) contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.messages {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// mockChatClient replays replies in order and records every request.
type mockChatClient struct {
	mu       sync.Mutex
	replies  []string
	err      error
	failOn   int // 1-based call index that fails with err; 0 fails every call when err is set
	requests []domain.ChatRequest
}

func (m *mockChatClient) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	n := len(m.requests)
	if m.err != nil && (m.failOn == 0 || m.failOn == n) {
		return "", m.err
	}
	if n-1 < len(m.replies) {
		return m.replies[n-1], nil
	}
	return "", nil
}

func (m *mockChatClient) calls() []domain.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// mockOCRClient answers each filename from a fixed table.
type mockOCRClient struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	filenames []string
}

func (m *mockOCRClient) ParseImage(ctx context.Context, image []byte, filename string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filenames = append(m.filenames, filename)
	if m.err != nil {
		return nil, m.err
	}
	resp, ok := m.responses[filename]
	if !ok {
		return nil, errors.New("unexpected file " + filename)
	}
	return []byte(resp), nil
}

// mockRenderer returns a fixed number of fake pages per input.
type mockRenderer struct {
	pages map[string]int
	err   error
}

func (m *mockRenderer) RenderPages(pdf []byte) ([][]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	n := m.pages[string(pdf)]
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte("png")
	}
	return out, nil
}

type checklistCall struct {
	caseID  string
	payload domain.ChecklistCallback
}

type contractCall struct {
	caseID   int64
	markdown string
	code     string
	message  string
}

// mockCallbacks records deliveries; the errors fail the matching call.
type mockCallbacks struct {
	mu             sync.Mutex
	checklists     []checklistCall
	contracts      []contractCall
	checklistErr   error
	markdownErr    error
	contractErrErr error
}

func (m *mockCallbacks) PostChecklistComplete(ctx context.Context, caseID string, payload domain.ChecklistCallback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checklists = append(m.checklists, checklistCall{caseID: caseID, payload: payload})
	return m.checklistErr
}

func (m *mockCallbacks) PostEasyContractMarkdown(ctx context.Context, caseID int64, markdown string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts = append(m.contracts, contractCall{caseID: caseID, markdown: markdown})
	return m.markdownErr
}

func (m *mockCallbacks) PostEasyContractError(ctx context.Context, caseID int64, code, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts = append(m.contracts, contractCall{caseID: caseID, code: code, message: message})
	return m.contractErrErr
}
