package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter token bucket shared by every caller of the wrapped handler.
// rps <= 0 disables limiting.
func RateLimiter(rps int, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = rps
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, Fail("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
