package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/statusgate/statusgate/internal/api/models"
	"github.com/statusgate/statusgate/internal/auth"
)

type subjectKey struct{}

// RequireToken rejects requests without a valid Bearer token.
func RequireToken(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				problem := models.NewUnauthorized(requestID, "missing bearer token")
				problem.Instance = r.URL.Path
				problem.Write(w)
				return
			}

			subject, err := tokens.Validate(token)
			if err != nil {
				problem := models.NewUnauthorized(requestID, "invalid or expired token")
				problem.Instance = r.URL.Path
				problem.Write(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject returns the authenticated subject, or "" when unauthenticated.
func GetSubject(ctx context.Context) string {
	if subject, ok := ctx.Value(subjectKey{}).(string); ok {
		return subject
	}
	return ""
}
