package domain

import (
	"context"
	"time"
)

// ChatClient sends one chat completion request and returns the raw reply text.
// Any non-success status or transport error is returned as an error.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// OCRClient parses a single page image and returns the provider JSON response.
type OCRClient interface {
	ParseImage(ctx context.Context, image []byte, filename string) ([]byte, error)
}

// PageRenderer rasterizes every page of a PDF to PNG bytes, in page order.
type PageRenderer interface {
	RenderPages(pdf []byte) ([][]byte, error)
}

// CallbackDispatcher delivers pipeline outcomes to the backend.
type CallbackDispatcher interface {
	PostChecklistComplete(ctx context.Context, caseID string, payload ChecklistCallback) error
	PostEasyContractMarkdown(ctx context.Context, caseID int64, markdown string) error
	PostEasyContractError(ctx context.Context, caseID int64, code, message string) error
}

// ChecklistGenerator runs the checklist pipeline.
type ChecklistGenerator interface {
	Generate(ctx context.Context, caseID string, keywords []string) ([]string, error)
}

// ContractGenerator runs the easy-contract pipeline.
type ContractGenerator interface {
	Generate(ctx context.Context, caseID int64, docs []Document) (string, error)
}

// FileFetcher downloads remote source files.
type FileFetcher interface {
	Fetch(ctx context.Context, refs []FileRef) ([]Document, error)
}

// JobDispatcher runs a pipeline to completion and reports the outcome by callback.
type JobDispatcher interface {
	RunChecklist(ctx context.Context, caseID string, keywords []string)
	RunEasyContract(ctx context.Context, caseID int64, docs []Document)
}

// TaskRunner executes work after the originating request has returned.
type TaskRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context))
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetAppEnv() string
	GetLogLevel() string
	GetShutdownTimeout() time.Duration

	GetMaxFileSize() int64
	GetMaxFiles() int
	GetAPIToken() string
	GetCORSAllowedOrigins() []string

	GetLLMProvider() string
	GetVLLMBaseURL() string
	GetVLLMAPIKey() string
	GetVLLMModel() string
	GetEasyContractAdapter() string
	GetVertexProjectID() string
	GetVertexLocation() string
	GetVertexModel() string
	GetVertexEasyContractModel() string

	GetUpstageAPIKey() string
	GetUpstageURL() string
	GetOCRRateInterval() time.Duration
	GetOCRBurst() int
	GetOCRMaxConcurrency() int64

	GetCallbackBaseURL() string
	GetCallbackToken() string

	GetHTTPTimeout() time.Duration
	GetHTTPMaxConnections() int
	GetHTTPMaxIdleConnections() int
	GetDownloadConcurrency() int
}
