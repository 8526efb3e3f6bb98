package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dojangkok-ai/internal/domain"
	"dojangkok-ai/internal/infra/httpclient"
	"dojangkok-ai/internal/infra/ratelimit"
	"dojangkok-ai/internal/infra/upstage"
	"dojangkok-ai/internal/infra/vertex"
	"dojangkok-ai/internal/infra/vllm"
	"dojangkok-ai/internal/service"
	"dojangkok-ai/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config     domain.Config
	Logger     domain.Logger
	HTTPClient *http.Client

	ChatClient   domain.ChatClient
	OCRClient    domain.OCRClient
	PageRenderer domain.PageRenderer

	ChecklistService *service.ChecklistService
	ContractService  *service.ContractService
	CallbackService  *service.CallbackService
	FileFetcher      *service.HTTPFileFetcher
	Dispatcher       *service.DispatchService
	Background       *service.BackgroundRunner

	closers []func() error
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetAppEnv())

	c := &Container{
		Config: cfg,
		Logger: appLogger,
	}

	c.HTTPClient = httpclient.New(httpclient.Options{
		Timeout:            cfg.GetHTTPTimeout(),
		MaxConnections:     cfg.GetHTTPMaxConnections(),
		MaxIdleConnections: cfg.GetHTTPMaxIdleConnections(),
	})
	c.closers = append(c.closers, func() error {
		c.HTTPClient.CloseIdleConnections()
		return nil
	})

	contractModel, err := c.initChatClient(ctx)
	if err != nil {
		return nil, err
	}

	gate := ratelimit.NewGate(cfg.GetOCRRateInterval(), cfg.GetOCRBurst(), cfg.GetOCRMaxConcurrency())
	c.OCRClient = upstage.NewClient(c.HTTPClient, cfg.GetUpstageURL(), cfg.GetUpstageAPIKey(), gate, appLogger)
	c.PageRenderer = service.NewPDFProcessor(appLogger)

	c.ChecklistService = service.NewChecklistService(c.ChatClient, service.DefaultBaselineChecklist(), appLogger)
	c.ContractService = service.NewContractService(c.ChatClient, c.OCRClient, c.PageRenderer, contractModel, appLogger)
	c.CallbackService = service.NewCallbackService(c.HTTPClient, cfg.GetCallbackBaseURL(), cfg.GetCallbackToken(), appLogger)
	c.FileFetcher = service.NewHTTPFileFetcher(c.HTTPClient, cfg.GetMaxFileSize(), cfg.GetDownloadConcurrency(), appLogger)
	c.Dispatcher = service.NewDispatchService(c.ChecklistService, c.ContractService, c.CallbackService, appLogger)
	c.Background = service.NewBackgroundRunner(appLogger)

	if cfg.GetCallbackBaseURL() == "" {
		appLogger.Warn("BACKEND_CALLBACK_BASE_URL is not set; async results cannot be delivered")
	}
	appLogger.Info("Container initialized",
		"llm_provider", cfg.GetLLMProvider(),
		"contract_model", contractModel,
		"max_files", cfg.GetMaxFiles(),
	)
	return c, nil
}

// initChatClient selects the LLM backend and returns the model override used
// by the easy-contract stages.
func (c *Container) initChatClient(ctx context.Context) (string, error) {
	cfg := c.Config
	switch cfg.GetLLMProvider() {
	case ProviderVertex:
		client, err := vertex.NewClient(ctx, cfg.GetVertexProjectID(), cfg.GetVertexLocation(), cfg.GetVertexModel(), c.Logger)
		if err != nil {
			return "", fmt.Errorf("failed to initialize vertex client: %w", err)
		}
		c.ChatClient = client
		c.closers = append(c.closers, client.Close)
		return cfg.GetVertexEasyContractModel(), nil
	case ProviderVLLM:
		c.ChatClient = vllm.NewClient(c.HTTPClient, cfg.GetVLLMBaseURL(), cfg.GetVLLMAPIKey(), cfg.GetVLLMModel(), c.Logger)
		return cfg.GetEasyContractAdapter(), nil
	default:
		return "", fmt.Errorf("unknown LLM_PROVIDER %q", cfg.GetLLMProvider())
	}
}

// Close releases every client that holds connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
