package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/statusgate/statusgate/internal/api/models"
)

// RateLimit limits requests per client IP within the given window.
func RateLimit(requestLimit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			problem := models.NewTooManyRequests(GetRequestID(r.Context()), "rate limit exceeded, slow down")
			problem.Instance = r.URL.Path
			problem.Write(w)
		}),
	)
}
