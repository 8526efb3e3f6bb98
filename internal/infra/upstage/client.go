// Package upstage calls the Upstage document-parse API.
package upstage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"dojangkok-ai/internal/domain"
	"dojangkok-ai/internal/infra/httpclient"
	"dojangkok-ai/internal/infra/ratelimit"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var parseForm = map[string]string{
	"ocr":             "force",
	"base64_encoding": "['table']",
	"model":           "document-parse",
}

// Client implements domain.OCRClient. All calls pass through the shared gate.
type Client struct {
	http   *resty.Client
	url    string
	apiKey string
	gate   *ratelimit.Gate
	logger domain.Logger
}

// NewClient creates a document-parse client on the shared transport.
func NewClient(hc *http.Client, url, apiKey string, gate *ratelimit.Gate, logger domain.Logger) *Client {
	return &Client{
		http:   httpclient.NewResty(hc, ""),
		url:    url,
		apiKey: apiKey,
		gate:   gate,
		logger: logger,
	}
}

// ParseImage uploads one page image and returns the raw JSON response.
func (c *Client) ParseImage(ctx context.Context, image []byte, filename string) ([]byte, error) {
	if c.gate == nil {
		return c.parse(ctx, image, filename)
	}
	var body []byte
	err := c.gate.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.parse(ctx, image, filename)
		return err
	})
	return body, err
}

func (c *Client) parse(ctx context.Context, image []byte, filename string) ([]byte, error) {
	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Debug("ocr.parse.request", "req_id", reqID, "file", filename, "bytes", len(image))

	req := c.http.R().
		SetContext(ctx).
		SetMultipartField("document", filename, domain.ImageContentType(filename), bytes.NewReader(image)).
		SetMultipartFormData(parseForm)
	if c.apiKey != "" {
		req.SetAuthToken(c.apiKey)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		c.logger.Error("ocr.parse.send_error", err, "req_id", reqID, "file", filename)
		return nil, fmt.Errorf("upstage parse %s: %w", filename, err)
	}

	c.logger.Info("ocr.parse.response",
		"req_id", reqID,
		"file", filename,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("upstage parse %s: non-2xx status: %d", filename, resp.StatusCode())
	}
	return resp.Body(), nil
}
