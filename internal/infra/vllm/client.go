// Package vllm talks to an OpenAI-compatible vLLM server.
package vllm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dojangkok-ai/internal/domain"
	"dojangkok-ai/internal/infra/httpclient"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type chatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

// Client implements domain.ChatClient against /chat/completions.
type Client struct {
	http   *resty.Client
	model  string
	logger domain.Logger
}

// NewClient creates a vLLM chat client on the shared transport.
func NewClient(hc *http.Client, baseURL, apiKey, model string, logger domain.Logger) *Client {
	rc := httpclient.NewResty(hc, baseURL).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		rc.SetAuthToken(apiKey)
	}
	return &Client{http: rc, model: model, logger: logger}
}

// Chat sends one completion request. A request-level Model replaces the
// default model name, which is how vLLM selects a served LoRA adapter.
func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	payload := chatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Debug("llm.chat.request", "req_id", reqID, "model", model, "messages", len(req.Messages), "max_tokens", req.MaxTokens)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		c.logger.Error("llm.chat.send_error", err, "req_id", reqID, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("vllm chat: %w", err)
	}

	c.logger.Info("llm.chat.response",
		"req_id", reqID,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if !resp.IsSuccess() {
		return "", fmt.Errorf("vllm chat: non-2xx status: %d", resp.StatusCode())
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("vllm chat: response has no choices")
	}
	return content.String(), nil
}
