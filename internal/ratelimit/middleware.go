package ratelimit

import (
	"net"
	"net/http"
	"strconv"
)

// DefaultRetryAfterSeconds is the default value for the Retry-After header
// when a rate limit is exceeded.
const DefaultRetryAfterSeconds = 1

// Middleware creates HTTP middleware that enforces rate limits.
//
// Parameters:
//   - limiter: The rate limiter instance to use
//   - getPrincipal: Function to extract the principal from the request
//
// Anonymous requests are bucketed by client address so public endpoints
// stay throttled too.
//
// The middleware returns 429 Too Many Requests when the rate limit is
// exceeded, including:
//   - Retry-After header with the recommended wait time in seconds
//   - X-RateLimit-Remaining header with the approximate remaining requests
func Middleware(limiter *RateLimiter, getPrincipal func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getPrincipal(r)
			if key == "" {
				key = "addr:" + clientHost(r)
			}

			// Get the limiter for this key to check tokens before allowing
			rateLimiter := limiter.GetLimiter(key)

			// Check if request is allowed
			if !rateLimiter.Allow() {
				// Rate limit exceeded
				w.Header().Set("Retry-After", strconv.Itoa(DefaultRetryAfterSeconds))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte("Too Many Requests"))
				return
			}

			// Request allowed - add remaining tokens header
			// Tokens() returns the current number of available tokens
			remaining := int(rateLimiter.Tokens())
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// clientHost extracts the host portion of the client address.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
