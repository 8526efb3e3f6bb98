package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{"  ", "a", "a", " b "})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("unexpected keywords (-want +got):\n%s", diff)
	}

	if got := NormalizeKeywords(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestChecklistService_NoKeywordsReturnsBaseline(t *testing.T) {
	llm := &mockChatClient{}
	svc := NewChecklistService(llm, DefaultBaselineChecklist(), NewMockLogger())

	for _, kws := range [][]string{nil, {}, {" ", "\t"}} {
		got, err := svc.Generate(context.Background(), "case-1", kws)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff(DefaultBaselineChecklist(), got); diff != "" {
			t.Fatalf("expected baseline (-want +got):\n%s", diff)
		}
	}
	if n := len(llm.calls()); n != 0 {
		t.Fatalf("expected no model calls, got %d", n)
	}
}

func TestChecklistService_ReturnedBaselineIsACopy(t *testing.T) {
	svc := NewChecklistService(&mockChatClient{}, DefaultBaselineChecklist(), NewMockLogger())

	got, _ := svc.Generate(context.Background(), "case-1", nil)
	got[0] = "changed"

	again, _ := svc.Generate(context.Background(), "case-1", nil)
	if again[0] == "changed" {
		t.Fatalf("baseline was mutated through a returned slice")
	}
	if DefaultBaselineChecklist()[0] == "changed" {
		t.Fatalf("package baseline was mutated")
	}
}

func TestChecklistService_PetAndParkingKeywords(t *testing.T) {
	baseline := DefaultBaselineChecklist()
	reply := "```json\n[\n" +
		"  \"" + baseline[0] + "\",\n" +
		"  \"반려동물 동반 입주가 가능한지 특약에 명시됐는지 확인하세요.\",\n" +
		"  \"반려동물로 인한 원상복구 범위를 검토하세요.\",\n" +
		"  \"주차 공간 배정 여부와 주차비를 확인하세요\",\n" +
		"  \"2. 주차 공간 배정 여부와 주차비를 확인하세요.\"\n" +
		"]\n```"
	llm := &mockChatClient{replies: []string{reply}}
	svc := NewChecklistService(llm, baseline, NewMockLogger())

	got, err := svc.Generate(context.Background(), "case-7", []string{"반려동물", " 주차 ", "반려동물"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(got) > maxChecklistItems {
		t.Fatalf("expected at most %d items, got %d", maxChecklistItems, len(got))
	}
	if diff := cmp.Diff(baseline, got[:len(baseline)]); diff != "" {
		t.Fatalf("baseline must come first (-want +got):\n%s", diff)
	}

	extra := got[len(baseline):]
	want := []string{
		"반려동물 동반 입주가 가능한지 특약에 명시됐는지 확인하세요.",
		"반려동물로 인한 원상복구 범위를 검토하세요 확인하세요.",
		"주차 공간 배정 여부와 주차비를 확인하세요.",
	}
	if diff := cmp.Diff(want, extra); diff != "" {
		t.Fatalf("unexpected model items (-want +got):\n%s", diff)
	}

	seen := map[string]bool{}
	for _, item := range got {
		if seen[item] {
			t.Fatalf("duplicate item %q", item)
		}
		seen[item] = true
	}

	calls := llm.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if calls[0].Temperature != checklistTemperature || calls[0].MaxTokens != checklistMaxTokens {
		t.Fatalf("unexpected sampling params %+v", calls[0])
	}
	user := calls[0].Messages[len(calls[0].Messages)-1].Content
	if !strings.Contains(user, "- 반려동물\n- 주차") {
		t.Fatalf("keywords missing from prompt: %q", user)
	}
}

func TestChecklistService_TruncatesToLimit(t *testing.T) {
	var items []string
	for i := 0; i < 40; i++ {
		items = append(items, `"추가 항목 `+string(rune('가'+i))+` 확인하세요."`)
	}
	llm := &mockChatClient{replies: []string{"[" + strings.Join(items, ",") + "]"}}
	svc := NewChecklistService(llm, DefaultBaselineChecklist(), NewMockLogger())

	got, err := svc.Generate(context.Background(), "case-1", []string{"보증금"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != maxChecklistItems {
		t.Fatalf("expected %d items, got %d", maxChecklistItems, len(got))
	}
	if got[20] != "추가 항목 가 확인하세요." {
		t.Fatalf("unexpected first model item %q", got[20])
	}
}

func TestChecklistService_UnusableOutputFallsBackToBaseline(t *testing.T) {
	for _, reply := range []string{"", "[]", "[ , ]"} {
		llm := &mockChatClient{replies: []string{reply}}
		logger := NewMockLogger()
		svc := NewChecklistService(llm, DefaultBaselineChecklist(), logger)

		got, err := svc.Generate(context.Background(), "case-1", []string{"주차"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if diff := cmp.Diff(DefaultBaselineChecklist(), got); diff != "" {
			t.Fatalf("expected baseline for %q (-want +got):\n%s", reply, diff)
		}
		if !logger.contains("using baseline") {
			t.Fatalf("expected fallback to be logged")
		}
	}
}

func TestChecklistService_ModelErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewChecklistService(&mockChatClient{err: boom}, DefaultBaselineChecklist(), NewMockLogger())

	_, err := svc.Generate(context.Background(), "case-1", []string{"주차"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}
