// Package response writes JSON API responses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/statusgate/statusgate/internal/api/middleware"
	"github.com/statusgate/statusgate/internal/api/models"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Problem writes an RFC7807 problem, filling in the request ID and path
// when the caller left them empty.
func Problem(w http.ResponseWriter, r *http.Request, p *models.Problem) {
	if p.TraceID == "" {
		p.TraceID = middleware.GetRequestID(r.Context())
	}
	if p.Instance == "" {
		p.Instance = r.URL.Path
	}
	p.Write(w)
}
