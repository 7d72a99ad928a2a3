package server

import (
	"context"
	"time"

	"github.com/AaronJay30/next-hire/internal/ai"
	"github.com/AaronJay30/next-hire/internal/config"
	apperrors "github.com/AaronJay30/next-hire/internal/errors"
	"github.com/AaronJay30/next-hire/internal/extract"
	"github.com/AaronJay30/next-hire/internal/types"
)

// AnalyzeResponse represents a successful analysis response
type AnalyzeResponse struct {
	Success  bool                 `json:"success"`
	Analysis types.AnalysisResult `json:"analysis"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResumeAnalyzer runs the analysis pipeline for extracted resume text
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *ai.TokenUsage, error)
}

// TextExtractor pulls plain text out of an uploaded resume document
type TextExtractor func(data []byte) (string, error)

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Analysis pipeline, replaceable in tests
	Analyzer  ResumeAnalyzer
	Extractor TextExtractor

	// Prompt hot reload
	PromptWatcher *config.PromptWatcher

	// Logger
	Logger *apperrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *apperrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Extractor:      extract.ExtractText,
		Logger:         logger,
	}
}

// getAnalyzer returns the configured analyzer, building the default AI
// service on first use.
func (s *Server) getAnalyzer() (ResumeAnalyzer, error) {
	if s.Analyzer != nil {
		return s.Analyzer, nil
	}

	service, err := ai.NewService(s.AppConfig, s.Logger)
	if err != nil {
		return nil, err
	}
	s.Analyzer = service
	return s.Analyzer, nil
}
