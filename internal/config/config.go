package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"dojangkok-ai/internal/domain"
)

const (
	ProviderVLLM   = "vllm"
	ProviderVertex = "vertex"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	AppEnv          string
	LogLevel        string
	ShutdownTimeout time.Duration

	MaxFileSize        int64
	MaxFiles           int
	APIToken           string
	CORSAllowedOrigins []string

	LLMProvider             string
	VLLMBaseURL             string
	VLLMAPIKey              string
	VLLMModel               string
	EasyContractAdapter     string
	VertexProjectID         string
	VertexLocation          string
	VertexModel             string
	VertexEasyContractModel string

	UpstageAPIKey     string
	UpstageURL        string
	OCRRateInterval   time.Duration
	OCRBurst          int
	OCRMaxConcurrency int64

	CallbackBaseURL string
	CallbackToken   string

	HTTPTimeout            time.Duration
	HTTPMaxConnections     int
	HTTPMaxIdleConnections int
	DownloadConcurrency    int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		AppEnv:          getEnvOrDefault("APP_ENV", "dev"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),

		MaxFileSize:        getEnvInt64OrDefault("MAX_FILE_SIZE", 20*1024*1024), // 20MB per file
		MaxFiles:           getEnvIntOrDefault("MAX_FILES", 5),
		APIToken:           getEnvOrDefault("API_TOKEN", ""),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),

		LLMProvider:             strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderVLLM)),
		VLLMBaseURL:             getEnvOrDefault("VLLM_BASE_URL", ""),
		VLLMAPIKey:              getEnvOrDefault("VLLM_API_KEY", ""),
		VLLMModel:               getEnvOrDefault("VLLM_MODEL", "LGAI-EXAONE/EXAONE-3.5-2.4B-Instruct"),
		EasyContractAdapter:     getEnvOrDefault("VLLM_LORA_ADAPTER_EASYCONTRACT", getEnvOrDefault("VLLM_LORA_ADAPTER", "")),
		VertexProjectID:         getEnvOrDefault("VERTEX_PROJECT_ID", ""),
		VertexLocation:          getEnvOrDefault("VERTEX_LOCATION", "us-central1"),
		VertexModel:             getEnvOrDefault("VERTEX_MODEL", "gemini-2.0-flash-001"),
		VertexEasyContractModel: getEnvOrDefault("VERTEX_MODEL_EASYCONTRACT", ""),

		UpstageAPIKey:     getEnvOrDefault("UPSTAGE_API_KEY", ""),
		UpstageURL:        getEnvOrDefault("UPSTAGE_DOCUMENT_PARSE_URL", "https://api.upstage.ai/v1/document-digitization"),
		OCRRateInterval:   getEnvDurationOrDefault("OCR_RATE_INTERVAL", 2*time.Second),
		OCRBurst:          getEnvIntOrDefault("OCR_RATE_BURST", 1),
		OCRMaxConcurrency: getEnvInt64OrDefault("OCR_MAX_CONCURRENCY", 1),

		CallbackBaseURL: getEnvOrDefault("BACKEND_CALLBACK_BASE_URL", ""),
		CallbackToken:   getEnvOrDefault("BACKEND_INTERNAL_TOKEN", ""),

		HTTPTimeout:            getEnvSecondsOrDefault("HTTP_TIMEOUT_SEC", 300*time.Second),
		HTTPMaxConnections:     getEnvIntOrDefault("HTTP_MAX_CONNECTIONS", 200),
		HTTPMaxIdleConnections: getEnvIntOrDefault("HTTP_MAX_KEEPALIVE_CONNECTIONS", 50),
		DownloadConcurrency:    getEnvIntOrDefault("DOWNLOAD_CONCURRENCY", 5),
	}
}

func (c *AppConfig) GetServerPort() string             { return c.ServerPort }
func (c *AppConfig) GetAppEnv() string                 { return c.AppEnv }
func (c *AppConfig) GetLogLevel() string               { return c.LogLevel }
func (c *AppConfig) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// GetMaxFileSize returns the maximum allowed size of a single source file
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetMaxFiles returns the maximum number of files per easy-contract request
func (c *AppConfig) GetMaxFiles() int {
	return c.MaxFiles
}

// GetAPIToken returns the bearer token required on /api routes; empty disables auth.
func (c *AppConfig) GetAPIToken() string {
	return c.APIToken
}

func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// GetLLMProvider returns "vllm" or "vertex"
func (c *AppConfig) GetLLMProvider() string {
	return c.LLMProvider
}

func (c *AppConfig) GetVLLMBaseURL() string { return c.VLLMBaseURL }
func (c *AppConfig) GetVLLMAPIKey() string  { return c.VLLMAPIKey }
func (c *AppConfig) GetVLLMModel() string   { return c.VLLMModel }

// GetEasyContractAdapter returns the LoRA adapter served for easy-contract calls
func (c *AppConfig) GetEasyContractAdapter() string {
	return c.EasyContractAdapter
}

func (c *AppConfig) GetVertexProjectID() string         { return c.VertexProjectID }
func (c *AppConfig) GetVertexLocation() string          { return c.VertexLocation }
func (c *AppConfig) GetVertexModel() string             { return c.VertexModel }
func (c *AppConfig) GetVertexEasyContractModel() string { return c.VertexEasyContractModel }

func (c *AppConfig) GetUpstageAPIKey() string { return c.UpstageAPIKey }
func (c *AppConfig) GetUpstageURL() string    { return c.UpstageURL }

// GetOCRRateInterval returns the minimum spacing between OCR calls
func (c *AppConfig) GetOCRRateInterval() time.Duration {
	return c.OCRRateInterval
}

func (c *AppConfig) GetOCRBurst() int { return c.OCRBurst }

// GetOCRMaxConcurrency returns how many OCR calls may be in flight process-wide
func (c *AppConfig) GetOCRMaxConcurrency() int64 {
	return c.OCRMaxConcurrency
}

func (c *AppConfig) GetCallbackBaseURL() string { return c.CallbackBaseURL }
func (c *AppConfig) GetCallbackToken() string   { return c.CallbackToken }

// GetHTTPTimeout returns the single timeout applied to every outbound call
func (c *AppConfig) GetHTTPTimeout() time.Duration {
	return c.HTTPTimeout
}

func (c *AppConfig) GetHTTPMaxConnections() int     { return c.HTTPMaxConnections }
func (c *AppConfig) GetHTTPMaxIdleConnections() int { return c.HTTPMaxIdleConnections }
func (c *AppConfig) GetDownloadConcurrency() int    { return c.DownloadConcurrency }

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// HTTP_TIMEOUT_SEC accepts fractional seconds ("300", "12.5").
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
