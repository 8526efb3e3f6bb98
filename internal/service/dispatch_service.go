package service

import (
	"context"
	"fmt"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"
)

// DispatchService runs a pipeline to completion and reports the outcome by
// callback: one success callback, or exactly one error callback.
type DispatchService struct {
	checklists domain.ChecklistGenerator
	contracts  domain.ContractGenerator
	callbacks  domain.CallbackDispatcher
	logger     domain.Logger
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	checklists domain.ChecklistGenerator,
	contracts domain.ContractGenerator,
	callbacks domain.CallbackDispatcher,
	logger domain.Logger,
) *DispatchService {
	return &DispatchService{
		checklists: checklists,
		contracts:  contracts,
		callbacks:  callbacks,
		logger:     logger,
	}
}

// RunChecklist generates a checklist and delivers it. Any failure, including
// a failed success callback, ends in a single "failed" error callback.
func (s *DispatchService) RunChecklist(ctx context.Context, caseID string, keywords []string) {
	err := safely(func() error {
		items, err := s.checklists.Generate(ctx, caseID, keywords)
		if err != nil {
			return err
		}
		if err := s.callbacks.PostChecklistComplete(ctx, caseID, domain.ChecklistSucceeded(items)); err != nil {
			return fmt.Errorf("deliver checklist: %w", err)
		}
		return nil
	})
	if err == nil {
		s.logger.Info("Checklist delivered", "case_id", caseID)
		return
	}

	s.logger.Error("Checklist job failed", err, "case_id", caseID)
	payload := domain.ChecklistFailed(apperrors.KindGenericFailure.Code(), domain.MsgChecklistFailed)
	if cbErr := s.callbacks.PostChecklistComplete(ctx, caseID, payload); cbErr != nil {
		s.logger.Error("Checklist error callback failed", cbErr, "case_id", caseID)
	}
}

// RunEasyContract generates the easy contract and delivers the markdown. On
// failure the error callback carries UNPROCESSABLE_DOCUMENT or "failed".
func (s *DispatchService) RunEasyContract(ctx context.Context, caseID int64, docs []domain.Document) {
	err := safely(func() error {
		md, err := s.contracts.Generate(ctx, caseID, docs)
		if err != nil {
			return err
		}
		if err := s.callbacks.PostEasyContractMarkdown(ctx, caseID, md); err != nil {
			return fmt.Errorf("deliver easy contract: %w", err)
		}
		return nil
	})
	if err == nil {
		s.logger.Info("Easy contract delivered", "case_id", caseID)
		return
	}

	s.logger.Error("Easy contract job failed", err, "case_id", caseID)
	code, message := contractFailure(err)
	if cbErr := s.callbacks.PostEasyContractError(ctx, caseID, code, message); cbErr != nil {
		s.logger.Error("Easy contract error callback failed", cbErr, "case_id", caseID)
	}
}

func contractFailure(err error) (string, string) {
	if apperrors.IsKind(err, apperrors.KindUnprocessableDocument) {
		return apperrors.KindUnprocessableDocument.Code(), domain.MsgUnprocessableDocument
	}
	return apperrors.KindGenericFailure.Code(), domain.MsgEasyContractFailed
}

func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
