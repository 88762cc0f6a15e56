package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitMiddleware provides basic per-IP rate limiting.
type RateLimitMiddleware struct {
	requests map[string][]int64 // IP -> request timestamps
	mu       sync.Mutex
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
func NewRateLimitMiddleware() *RateLimitMiddleware {
	return &RateLimitMiddleware{
		requests: make(map[string][]int64),
	}
}

// RateLimit rejects clients exceeding maxRequests within the window.
func (m *RateLimitMiddleware) RateLimit(maxRequests int, windowSeconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			now := time.Now().Unix()
			windowStart := now - int64(windowSeconds)

			m.mu.Lock()
			if timestamps, exists := m.requests[clientIP]; exists {
				var valid []int64
				for _, ts := range timestamps {
					if ts >= windowStart {
						valid = append(valid, ts)
					}
				}
				m.requests[clientIP] = valid
			}

			if len(m.requests[clientIP]) >= maxRequests {
				m.mu.Unlock()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			m.requests[clientIP] = append(m.requests[clientIP], now)
			m.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if colonIndex := strings.LastIndex(ip, ":"); colonIndex != -1 {
		ip = ip[:colonIndex]
	}
	return ip
}
