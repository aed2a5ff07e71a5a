package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/response"
)

// NewRateLimit returns a middleware that admits perMinute requests per minute
// with bursts of up to burst requests, shared by all clients. Rejected requests
// get 429 Too Many Requests. A non-positive perMinute disables the limit.
func NewRateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.WarnContext(r.Context(), "rate limit exceeded", "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				response.RespondError(w, http.StatusTooManyRequests, "too many requests", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
