package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AaronJay30/next-hire/internal/config"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 2, newTestLogger(t))
	defer limiter.Close()

	// Burst capacity of 2 allows two immediate requests per key.
	if !limiter.Allow("ip:10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("ip:10.0.0.1") {
		t.Error("second request within burst should be allowed")
	}
	if limiter.Allow("ip:10.0.0.1") {
		t.Error("third immediate request should be rejected")
	}

	// A different key gets its own bucket.
	if !limiter.Allow("ip:10.0.0.2") {
		t.Error("request from a different key should be allowed")
	}
}

func TestRateLimiterStats(t *testing.T) {
	limiter := NewRateLimiter(120, time.Minute, 5, newTestLogger(t))
	defer limiter.Close()

	limiter.Allow("api:key-one")
	limiter.Allow("api:key-two")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("expected burst capacity 5, got %v", stats["burst_capacity"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("expected 120 requests per minute, got %v", stats["rate_per_minute"])
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := &config.Config{}
	s := NewServer(cfg, ServerConfig{
		RateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			BurstCapacity:  1,
			ByIP:           true,
		},
	}, newTestLogger(t))
	defer s.RateLimiter.Close()

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.RemoteAddr = "192.168.1.10:54321"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be rate limited, got %d", rec.Code)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	cfg := &config.Config{}
	s := NewServer(cfg, ServerConfig{}, newTestLogger(t))

	handler := s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	for range 5 {
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request should pass with rate limiting disabled, got %d", rec.Code)
		}
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		headers  map[string]string
		remote   string
		want     string
	}{
		{
			name:     "API key from X-API-Key",
			byAPIKey: true,
			headers:  map[string]string{"X-API-Key": "abc123"},
			want:     "api:abc123",
		},
		{
			name:     "API key from Bearer token",
			byAPIKey: true,
			headers:  map[string]string{"Authorization": "Bearer xyz789"},
			want:     "api:xyz789",
		},
		{
			name:     "fall back to IP when no key present",
			byAPIKey: true,
			byIP:     true,
			remote:   "10.1.2.3:9999",
			want:     "ip:10.1.2.3",
		},
		{
			name:   "IP only",
			byIP:   true,
			remote: "10.1.2.3:9999",
			want:   "ip:10.1.2.3",
		},
		{
			name: "neither dimension enabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getRateLimitKey(req, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "X-Forwarded-For first valid IP",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			remote:  "10.0.0.2:1234",
			want:    "203.0.113.5",
		},
		{
			name:    "X-Real-IP",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:  "10.0.0.2:1234",
			want:    "198.51.100.7",
		},
		{
			name:   "RemoteAddr fallback",
			remote: "192.0.2.9:443",
			want:   "192.0.2.9",
		},
		{
			name:    "invalid forwarded header ignored",
			headers: map[string]string{"X-Forwarded-For": "not-an-ip"},
			remote:  "192.0.2.9:443",
			want:    "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
