package service

import (
	"context"
	"errors"
	"testing"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"

	"github.com/google/go-cmp/cmp"
)

type stubChecklist struct {
	items []string
	err   error
	panic bool
}

func (s *stubChecklist) Generate(ctx context.Context, caseID string, keywords []string) ([]string, error) {
	if s.panic {
		panic("boom")
	}
	return s.items, s.err
}

type stubContract struct {
	md  string
	err error
}

func (s *stubContract) Generate(ctx context.Context, caseID int64, docs []domain.Document) (string, error) {
	return s.md, s.err
}

func TestDispatchService_RunChecklist(t *testing.T) {
	tests := []struct {
		name      string
		gen       *stubChecklist
		cbErr     error
		want      []checklistCall
		wantError bool
	}{
		{
			name: "success",
			gen:  &stubChecklist{items: []string{"a 확인하세요."}},
			want: []checklistCall{{caseID: "c1", payload: domain.ChecklistSucceeded([]string{"a 확인하세요."})}},
		},
		{
			name: "generation error",
			gen:  &stubChecklist{err: errors.New("llm down")},
			want: []checklistCall{{caseID: "c1", payload: domain.ChecklistFailed("failed", domain.MsgChecklistFailed)}},
		},
		{
			name: "panic",
			gen:  &stubChecklist{panic: true},
			want: []checklistCall{{caseID: "c1", payload: domain.ChecklistFailed("failed", domain.MsgChecklistFailed)}},
		},
		{
			name:  "callbacks keep failing",
			gen:   &stubChecklist{items: []string{"a 확인하세요."}},
			cbErr: errors.New("backend down"),
			want: []checklistCall{
				{caseID: "c1", payload: domain.ChecklistSucceeded([]string{"a 확인하세요."})},
				{caseID: "c1", payload: domain.ChecklistFailed("failed", domain.MsgChecklistFailed)},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &mockCallbacks{checklistErr: tt.cbErr}
			logger := NewMockLogger()
			svc := NewDispatchService(tt.gen, &stubContract{}, cb, logger)

			svc.RunChecklist(context.Background(), "c1", []string{"주차"})

			if diff := cmp.Diff(tt.want, cb.checklists, cmp.AllowUnexported(checklistCall{})); diff != "" {
				t.Fatalf("unexpected callbacks (-want +got):\n%s", diff)
			}
			if tt.wantError && !logger.contains("Checklist error callback failed") {
				t.Fatalf("expected the error callback failure to be logged")
			}
		})
	}
}

func TestDispatchService_RunEasyContract(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubContract
		want contractCall
	}{
		{
			name: "success",
			gen:  &stubContract{md: "# 결과"},
			want: contractCall{caseID: 9, markdown: "# 결과"},
		},
		{
			name: "unprocessable document",
			gen:  &stubContract{err: apperrors.NewUnprocessableDocument(domain.MsgUnprocessableDocument, errors.New("encrypted"))},
			want: contractCall{caseID: 9, code: "UNPROCESSABLE_DOCUMENT", message: domain.MsgUnprocessableDocument},
		},
		{
			name: "empty markdown",
			gen:  &stubContract{err: apperrors.NewGenericFailure(domain.MsgEasyContractFailed, domain.ErrEmptyMarkdown)},
			want: contractCall{caseID: 9, code: "failed", message: domain.MsgEasyContractFailed},
		},
		{
			name: "plain error",
			gen:  &stubContract{err: errors.New("UNPROCESSABLE_DOCUMENT")},
			want: contractCall{caseID: 9, code: "failed", message: domain.MsgEasyContractFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &mockCallbacks{}
			svc := NewDispatchService(&stubChecklist{}, tt.gen, cb, NewMockLogger())

			svc.RunEasyContract(context.Background(), 9, []domain.Document{{Filename: "a.png"}})

			if diff := cmp.Diff([]contractCall{tt.want}, cb.contracts, cmp.AllowUnexported(contractCall{})); diff != "" {
				t.Fatalf("unexpected callbacks (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchService_MarkdownDeliveryFailureSendsOneErrorCallback(t *testing.T) {
	cb := &mockCallbacks{markdownErr: errors.New("502"), contractErrErr: errors.New("still down")}
	logger := NewMockLogger()
	svc := NewDispatchService(&stubChecklist{}, &stubContract{md: "# 결과"}, cb, logger)

	svc.RunEasyContract(context.Background(), 3, nil)

	want := []contractCall{
		{caseID: 3, markdown: "# 결과"},
		{caseID: 3, code: "failed", message: domain.MsgEasyContractFailed},
	}
	if diff := cmp.Diff(want, cb.contracts, cmp.AllowUnexported(contractCall{})); diff != "" {
		t.Fatalf("unexpected callbacks (-want +got):\n%s", diff)
	}
	if !logger.contains("Easy contract error callback failed") {
		t.Fatalf("expected the error callback failure to be logged")
	}
}
