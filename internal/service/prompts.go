package service

import (
	"fmt"
	"strings"

	"dojangkok-ai/internal/domain"
)

const checklistSystemPrompt = `너는 주택 임대차 계약 체크리스트를 생성하는 도우미다.
반드시 아래 규칙을 지켜라.

출력 규칙:
1) 출력은 JSON 배열(list) 1개만. 다른 설명/문장/코드블록 금지
2) 예시: ["...확인하세요.", "...검토하세요."]
3) 전체 항목 수는 20~30개 이하
4) 공통 체크리스트는 유지하되, 키워드에 맞는 항목을 추가/보강
5) 중복 항목 제거
6) 각 항목은 완전한 한 문장이고 확인, 검토하라는 말투로 끝나야 하며 단정지어서 말하면 안됨
7) 항목 내부에 대괄호([ ])/따옴표(" ')/물결(~) 같은 깨진 기호를 포함하지 마라
`

const pageSummarySystemPrompt = `너는 주택 임대차 문서를 페이지 단위로 읽고 핵심 정보를 추출하는 도우미다.
규칙:
1) 출력은 간결한 불릿 목록으로만 작성
2) 아래 항목을 우선 추출: 계약일/임대차기간/보증금/월세/관리비/특약/위약금/해지조건/수리·하자/원상복구/당사자 정보
3) 페이지에 없으면 '없음'으로 쓰지 말고 해당 항목은 생략
4) 숫자/날짜는 원문 표현을 최대한 유지
`

const finalMarkdownSystemPrompt = `너는 주택 임대차 계약서를 쉽게 풀어서 설명하고 분석해서 마크다운으로 출력하는 도우미다.
규칙:
1) 출력은 마크다운만 (설명문/코드블록 금지)
2) 사실에 근거해 작성. 추측 금지
3) 섹션 예시(필요한 것만 포함):
   - 요약(한 문단)
   - 핵심 조건(표)
   - 중요 조항(불릿)
   - 위험/주의 포인트(불릿)
4) 금액/날짜/기간/당사자/주소 등은 가능한 한 원문 기반으로 명확히
`

func checklistMessages(keywords, baseline []string) []domain.ChatMessage {
	user := "[공통 체크리스트]\n- " + strings.Join(baseline, "\n- ") + "\n\n" +
		"[사용자 키워드]\n- " + strings.Join(keywords, "\n- ") + "\n\n" +
		"위 정보를 바탕으로 최종 체크리스트를 만들어줘."
	return []domain.ChatMessage{
		domain.SystemMessage(checklistSystemPrompt),
		domain.UserMessage(user),
	}
}

func pageSummaryMessages(docType string, page int, text string) []domain.ChatMessage {
	user := fmt.Sprintf("[문서타입] %s\n[페이지] %d\n[OCR 텍스트]\n%s\n\n"+
		"이 페이지에서 중요한 조항과 날짜/금액만 불릿으로 정리해줘.", docType, page, text)
	return []domain.ChatMessage{
		domain.SystemMessage(pageSummarySystemPrompt),
		domain.UserMessage(user),
	}
}

func finalMarkdownMessages(summaries []domain.PageSummary) []domain.ChatMessage {
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		line := fmt.Sprintf("- (%s/%s p.%d) %s", s.DocType, s.File, s.PageNumber, s.Summary)
		lines = append(lines, strings.TrimSpace(line))
	}
	user := "[페이지별 핵심 요약]\n" + strings.Join(lines, "\n") + "\n\n" +
		"위 주택 임대차 계약서 요약들을 종합하여 계약서를 설명하고 분석한 결과를 마크다운으로 작성해줘."
	return []domain.ChatMessage{
		domain.SystemMessage(finalMarkdownSystemPrompt),
		domain.UserMessage(user),
	}
}
