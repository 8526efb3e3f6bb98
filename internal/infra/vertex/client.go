// Package vertex implements domain.ChatClient with Gemini on Vertex AI.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"dojangkok-ai/internal/domain"
)

// Client is an alternate LLM backend selected with LLM_PROVIDER=vertex.
type Client struct {
	genaiClient *genai.Client
	model       string
	logger      domain.Logger
}

// NewClient creates a Vertex AI client using application default credentials.
func NewClient(ctx context.Context, projectID, location, model string, logger domain.Logger) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("vertex: project id is required")
	}
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &Client{genaiClient: client, model: model, logger: logger}, nil
}

// Chat maps system messages to the system instruction, earlier turns to chat
// history and sends the last turn.
func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	name := c.model
	if req.Model != "" {
		name = req.Model
	}

	system, history, last, err := splitMessages(req.Messages)
	if err != nil {
		return "", err
	}

	model := c.genaiClient.GenerativeModel(name)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if system != nil {
		model.SystemInstruction = system
	}

	chat := model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini call failed: empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if resp.UsageMetadata != nil {
		c.logger.Info("llm.vertex.response",
			"model", name,
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"candidate_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return sb.String(), nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.genaiClient.Close()
}

func splitMessages(msgs []domain.ChatMessage) (*genai.Content, []*genai.Content, *genai.Content, error) {
	var systemParts []genai.Part
	var turns []*genai.Content

	for _, m := range msgs {
		if m.Role == domain.RoleSystem {
			systemParts = append(systemParts, genai.Text(m.Content))
			continue
		}
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		turns = append(turns, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	if len(turns) == 0 {
		return nil, nil, nil, errors.New("vertex: request has no user message")
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return system, turns[:len(turns)-1], turns[len(turns)-1], nil
}
