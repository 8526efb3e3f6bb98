package service

import (
	"context"
	"fmt"
	"strings"

	"dojangkok-ai/internal/domain"
)

const (
	maxChecklistItems    = 30
	checklistTemperature = 0.2
	checklistMaxTokens   = 800
)

var baselineChecklist = [...]string{
	"보증금이 주변 시세 대비 과도하지 않은지 확인하세요.",
	"등기부등본 소유자와 계약서 임대인이 동일한지 확인하세요.",
	"등기부등본에 압류·가압류·강제경매 등 권리침해가 없는지 확인하세요.",
	"근저당권 설정 금액이 과도하지 않은지 확인하세요.",
	"계약 직전 최신 등기부등본으로 변동사항이 없는지 다시 확인하세요.",
	"건축물대장에 위반건축물 표시가 없는지 확인하세요.",
	"건축물대장상 용도가 주택인지 확인하세요.",
	"주소/동·호수가 등기부등본·건축물대장·계약서와 모두 일치하는지 확인하세요.",
	"임대인의 신분을 확인하고 계약서 정보와 일치하는지 확인하세요.",
	"공동 소유 주택이면 소유자 전원과 계약하는지 확인하세요.",
	"대리인 계약이면 위임장 원본과 신분증을 확인하세요.",
	"위임장에 주택 주소·계약 조건·보증금 수령자가 명시됐는지 확인하세요.",
	"공인중개사 거래 시 개업 공인중개사 등록 여부를 확인하세요.",
	"중개대상물 확인·설명서를 교부받았는지 확인하세요.",
	"계약 기간(시작일/종료일)이 정확히 적혀있는지 확인하세요.",
	"보증금·월세 금액과 납부일이 계약서에 명시됐는지 확인하세요.",
	"보증금/월세 입금 계좌 예금주가 임대인(또는 적법 수령자)인지 확인하세요.",
	"관리비 포함 항목과 부담 주체가 계약서에 적혀있는지 확인하세요.",
	"구두로 약속한 내용이 있다면 특약에 반영됐는지 확인하세요.",
	"입주 전 집 상태가 계약 조건과 동일한지 확인하세요.",
}

// DefaultBaselineChecklist returns a fresh copy of the common lease checklist.
func DefaultBaselineChecklist() []string {
	out := make([]string, len(baselineChecklist))
	copy(out, baselineChecklist[:])
	return out
}

type checklistStage func(ctx context.Context, st domain.ChecklistState) (domain.ChecklistState, error)

// ChecklistService builds lease checklists from free-text keywords.
type ChecklistService struct {
	llm      domain.ChatClient
	baseline []string
	logger   domain.Logger
}

// NewChecklistService creates a checklist service. The baseline is copied and
// never modified afterwards.
func NewChecklistService(llm domain.ChatClient, baseline []string, logger domain.Logger) *ChecklistService {
	b := make([]string, len(baseline))
	copy(b, baseline)
	return &ChecklistService{llm: llm, baseline: b, logger: logger}
}

// Generate runs start, route and the selected branch. Model transport errors
// are returned as is; unusable model output falls back to the baseline.
func (s *ChecklistService) Generate(ctx context.Context, caseID string, keywords []string) ([]string, error) {
	st := s.start(domain.ChecklistState{CaseID: caseID, Keywords: keywords})

	next := s.route(st)
	st, err := next(ctx, st)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checklist generated", "case_id", caseID, "keywords", len(st.Keywords), "items", len(st.Items))
	return st.Items, nil
}

func (s *ChecklistService) start(st domain.ChecklistState) domain.ChecklistState {
	st.Keywords = NormalizeKeywords(st.Keywords)
	return st
}

func (s *ChecklistService) route(st domain.ChecklistState) checklistStage {
	if len(st.Keywords) == 0 {
		return s.noKeywords
	}
	return s.withKeywords
}

func (s *ChecklistService) noKeywords(_ context.Context, st domain.ChecklistState) (domain.ChecklistState, error) {
	st.Items = s.baselineCopy()
	return st, nil
}

func (s *ChecklistService) withKeywords(ctx context.Context, st domain.ChecklistState) (domain.ChecklistState, error) {
	s.logger.Debug("Requesting checklist from model", "case_id", st.CaseID, "keywords", st.Keywords)
	content, err := s.llm.Chat(ctx, domain.ChatRequest{
		Messages:    checklistMessages(st.Keywords, s.baseline),
		Temperature: checklistTemperature,
		MaxTokens:   checklistMaxTokens,
	})
	if err != nil {
		return st, fmt.Errorf("checklist model call failed: %w", err)
	}

	parsed := ParseChecklistOutput(content)
	if len(parsed) == 0 {
		s.logger.Warn("Checklist model output unusable; using baseline", "case_id", st.CaseID)
		st.Items = s.baselineCopy()
		return st, nil
	}

	st.Items = mergeChecklist(s.baseline, parsed, maxChecklistItems)
	return st, nil
}

func (s *ChecklistService) baselineCopy() []string {
	out := make([]string, len(s.baseline))
	copy(out, s.baseline)
	return out
}

// NormalizeKeywords trims keywords and drops empties and duplicates while
// keeping the first occurrence order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// mergeChecklist keeps the baseline first, in order, then appends parsed items
// whose cleaned form is not already present, up to limit items in total.
func mergeChecklist(baseline, parsed []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(baseline)+len(parsed))
	add := func(item string) {
		if len(out) >= limit {
			return
		}
		key := CleanItem(item)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	for _, b := range baseline {
		add(b)
	}
	for _, p := range parsed {
		add(CleanItem(p))
	}
	return out
}
