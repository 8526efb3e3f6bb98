package service

import (
	"context"
	"fmt"
	"strings"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"
)

const (
	maxPageTextRunes     = 20000
	contractTemperature  = 0.2
	pageSummaryMaxTokens = 500
	finalMaxTokens       = 1200
)

type contractStage struct {
	name string
	run  func(ctx context.Context, st domain.ContractState) (domain.ContractState, error)
}

// ContractService turns lease documents into an easy-to-read markdown contract.
type ContractService struct {
	llm      domain.ChatClient
	ocr      domain.OCRClient
	renderer domain.PageRenderer
	model    string
	logger   domain.Logger
	stages   []contractStage
}

// NewContractService creates the easy-contract pipeline. model is passed as
// the per-request model override for both LLM stages; empty uses the
// client's default.
func NewContractService(
	llm domain.ChatClient,
	ocr domain.OCRClient,
	renderer domain.PageRenderer,
	model string,
	logger domain.Logger,
) *ContractService {
	s := &ContractService{
		llm:      llm,
		ocr:      ocr,
		renderer: renderer,
		model:    model,
		logger:   logger,
	}
	s.stages = []contractStage{
		{name: "ocr", run: s.ocrStage},
		{name: "page_summarize", run: s.pageSummarizeStage},
		{name: "final", run: s.finalStage},
	}
	return s
}

// Generate runs every stage in order. Failures are *apperrors.AppError:
// UnprocessableDocument when a PDF cannot be rendered, GenericFailure otherwise.
func (s *ContractService) Generate(ctx context.Context, caseID int64, docs []domain.Document) (string, error) {
	st, err := s.run(ctx, caseID, docs)
	if err != nil {
		return "", err
	}
	return st.Markdown, nil
}

func (s *ContractService) run(ctx context.Context, caseID int64, docs []domain.Document) (domain.ContractState, error) {
	if len(docs) == 0 {
		return domain.ContractState{}, apperrors.NewGenericFailure(domain.MsgEasyContractFailed, domain.ErrNoDocuments)
	}

	st := domain.ContractState{
		CaseID:    caseID,
		Documents: append([]domain.Document(nil), docs...),
	}
	for _, stage := range s.stages {
		s.logger.Debug("Easy contract stage started", "case_id", caseID, "stage", stage.name)
		next, err := stage.run(ctx, st)
		if err != nil {
			s.logger.Error("Easy contract stage failed", err, "case_id", caseID, "stage", stage.name)
			if _, ok := apperrors.As(err); ok {
				return st, err
			}
			return st, apperrors.NewGenericFailure(domain.MsgEasyContractFailed, err)
		}
		st = next
	}

	s.logger.Info("Easy contract generated",
		"case_id", caseID,
		"documents", len(st.Documents),
		"pages", len(st.PageTexts),
		"summaries", len(st.PageSummaries),
	)
	return st, nil
}

func (s *ContractService) ocrStage(ctx context.Context, st domain.ContractState) (domain.ContractState, error) {
	var pages []domain.PageText

	for _, doc := range st.Documents {
		if !domain.IsPDF(doc.Filename) {
			text, err := s.recognize(ctx, doc.Content, doc.Filename)
			if err != nil {
				return st, err
			}
			pages = append(pages, domain.PageText{DocType: doc.DocType, File: doc.Filename, PageNumber: 1, Text: text})
			continue
		}

		images, err := s.renderer.RenderPages(doc.Content)
		if err != nil {
			return st, apperrors.NewUnprocessableDocument(domain.MsgUnprocessableDocument,
				fmt.Errorf("render %s: %w", doc.Filename, err))
		}
		s.logger.Debug("PDF rendered", "case_id", st.CaseID, "file", doc.Filename, "pages", len(images))

		for i, img := range images {
			page := i + 1
			text, err := s.recognize(ctx, img, fmt.Sprintf("%s.p%d.png", doc.Filename, page))
			if err != nil {
				return st, err
			}
			pages = append(pages, domain.PageText{DocType: doc.DocType, File: doc.Filename, PageNumber: page, Text: text})
		}
	}

	st.PageTexts = pages
	return st, nil
}

func (s *ContractService) recognize(ctx context.Context, image []byte, filename string) (string, error) {
	raw, err := s.ocr.ParseImage(ctx, image, filename)
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", filename, err)
	}
	return ExtractOCRText(raw), nil
}

func (s *ContractService) pageSummarizeStage(ctx context.Context, st domain.ContractState) (domain.ContractState, error) {
	summaries := make([]domain.PageSummary, 0, len(st.PageTexts))

	for _, p := range st.PageTexts {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			s.logger.Debug("Skipping blank page", "case_id", st.CaseID, "file", p.File, "page", p.PageNumber)
			continue
		}

		summary, err := s.llm.Chat(ctx, domain.ChatRequest{
			Messages:    pageSummaryMessages(p.DocType, p.PageNumber, truncateRunes(text, maxPageTextRunes)),
			Temperature: contractTemperature,
			MaxTokens:   pageSummaryMaxTokens,
			Model:       s.model,
		})
		if err != nil {
			return st, fmt.Errorf("summarize %s p.%d: %w", p.File, p.PageNumber, err)
		}

		summaries = append(summaries, domain.PageSummary{
			DocType:    p.DocType,
			File:       p.File,
			PageNumber: p.PageNumber,
			Summary:    strings.TrimSpace(summary),
		})
	}

	st.PageSummaries = summaries
	return st, nil
}

func (s *ContractService) finalStage(ctx context.Context, st domain.ContractState) (domain.ContractState, error) {
	md, err := s.llm.Chat(ctx, domain.ChatRequest{
		Messages:    finalMarkdownMessages(st.PageSummaries),
		Temperature: contractTemperature,
		MaxTokens:   finalMaxTokens,
		Model:       s.model,
	})
	if err != nil {
		return st, fmt.Errorf("final synthesis: %w", err)
	}

	md = strings.TrimSpace(md)
	if md == "" {
		return st, apperrors.NewGenericFailure(domain.MsgEasyContractFailed, domain.ErrEmptyMarkdown)
	}
	st.Markdown = md
	return st, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
