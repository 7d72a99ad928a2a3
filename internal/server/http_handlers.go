package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/AaronJay30/next-hire/internal/ai"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return 10 * time.Second
}

// healthHandler provides a health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "nexthire",
		"version": s.Version,
	}

	// Check AI model availability
	aiStatus := s.checkAIModelHealth()
	response["ai_model"] = aiStatus

	// Report prompt reload status when a prompt file is configured
	if promptStatus := s.checkPromptWatcherHealth(); promptStatus != nil {
		response["prompt_reload"] = promptStatus
	}

	// Determine overall health status
	overallHealthy := true
	if available, ok := aiStatus["available"].(bool); ok && !available {
		overallHealthy = false
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelHealth checks the availability of the configured AI model
func (s *Server) checkAIModelHealth() map[string]any {
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	service, err := ai.NewService(s.AppConfig, s.Logger)
	if err != nil {
		return map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create AI service: %v", err),
		}
	}

	info := service.Provider.GetModelInfo(ctx)
	return map[string]any{
		"name":         info.Name,
		"display_name": info.DisplayName,
		"version":      info.Version,
		"available":    info.Available,
		"error":        info.Error,
		"provider":     s.AppConfig.AI.Provider,
	}
}

// checkPromptWatcherHealth reports the state of the prompt file watcher
func (s *Server) checkPromptWatcherHealth() map[string]any {
	if s.AppConfig.AI.CustomPrompts.AnalyzeFile == "" {
		return nil
	}

	status := map[string]any{
		"prompt_file": s.AppConfig.AI.CustomPrompts.AnalyzeFile,
		"watching":    false,
	}
	if s.PromptWatcher != nil {
		status["watching"] = s.PromptWatcher.IsRunning()
	}
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "nexthire",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
