package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dojangkok-ai/internal/domain"
	"dojangkok-ai/internal/infra/httpclient"

	"github.com/go-resty/resty/v2"
)

const (
	checklistCallbackPath    = "/internal/callbacks/checklists/{id}/complete"
	easyContractCallbackPath = "/internal/callbacks/easy-contracts/{id}/complete"
	markdownContentType      = "text/markdown; charset=utf-8"
)

// CallbackService posts pipeline outcomes back to the backend. Every call is
// attempted once; delivery failures are returned to the caller.
type CallbackService struct {
	http    *resty.Client
	baseURL string
	logger  domain.Logger
}

// NewCallbackService creates a callback client. An empty token sends no
// Authorization header.
func NewCallbackService(hc *http.Client, baseURL, token string, logger domain.Logger) *CallbackService {
	rc := httpclient.NewResty(hc, baseURL)
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &CallbackService{http: rc, baseURL: baseURL, logger: logger}
}

// PostChecklistComplete sends {"checklists":[...]} or {"error":{...}}.
func (s *CallbackService) PostChecklistComplete(ctx context.Context, caseID string, payload domain.ChecklistCallback) error {
	req := s.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	return s.post(ctx, req, checklistCallbackPath, caseID)
}

// PostEasyContractMarkdown sends the generated markdown as the raw body.
func (s *CallbackService) PostEasyContractMarkdown(ctx context.Context, caseID int64, markdown string) error {
	req := s.http.R().
		SetHeader("Content-Type", markdownContentType).
		SetBody([]byte(markdown))
	return s.post(ctx, req, easyContractCallbackPath, strconv.FormatInt(caseID, 10))
}

// PostEasyContractError sends {"error":{"code":...,"message":...}}.
func (s *CallbackService) PostEasyContractError(ctx context.Context, caseID int64, code, message string) error {
	req := s.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(domain.ErrorResponse{Error: domain.ErrorBody{Code: code, Message: message}})
	return s.post(ctx, req, easyContractCallbackPath, strconv.FormatInt(caseID, 10))
}

func (s *CallbackService) post(ctx context.Context, req *resty.Request, path, id string) error {
	if s.baseURL == "" {
		return domain.ErrCallbackNotConfigured
	}

	start := time.Now()
	resp, err := req.
		SetContext(ctx).
		SetPathParam("id", id).
		Post(path)
	if err != nil {
		return fmt.Errorf("callback %s: %w", id, err)
	}

	s.logger.Info("callback.response",
		"id", id,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if !resp.IsSuccess() {
		return fmt.Errorf("callback %s: non-2xx status: %d", id, resp.StatusCode())
	}
	return nil
}
