// Package httpclient builds the single outbound transport shared by the LLM,
// OCR, callback and download clients.
package httpclient

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures the shared transport.
type Options struct {
	Timeout            time.Duration
	MaxConnections     int
	MaxIdleConnections int
}

// New creates the process-wide HTTP client. Every request made through it
// carries the same timeout.
func New(opts Options) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opts.MaxConnections > 0 {
		tr.MaxConnsPerHost = opts.MaxConnections
	}
	if opts.MaxIdleConnections > 0 {
		tr.MaxIdleConns = opts.MaxIdleConnections
		tr.MaxIdleConnsPerHost = opts.MaxIdleConnections
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: tr,
	}
}

// NewResty wraps the shared client. Retries stay disabled: every outbound call
// in this service is attempted exactly once.
func NewResty(hc *http.Client, baseURL string) *resty.Client {
	client := resty.NewWithClient(hc).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if baseURL != "" {
		client.SetBaseURL(baseURL)
	}
	return client
}
