package models

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC7807 error response, written with
// Content-Type: application/problem+json.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId"`
}

// Problem type URIs.
const (
	ProblemTypeBadRequest      = "https://statusgate.dev/problems/bad-request"
	ProblemTypeUnauthorized    = "https://statusgate.dev/problems/unauthorized"
	ProblemTypeNotFound        = "https://statusgate.dev/problems/not-found"
	ProblemTypeTooManyRequests = "https://statusgate.dev/problems/too-many-requests"
	ProblemTypeInternal        = "https://statusgate.dev/problems/internal-error"
	ProblemTypeUnavailable     = "https://statusgate.dev/problems/service-unavailable"
)

// Write writes the problem as JSON to the response.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	if p.TraceID != "" {
		w.Header().Set("X-Request-Id", p.TraceID)
	}
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest creates a 400 Bad Request problem.
func NewBadRequest(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeBadRequest,
		Title:   "Bad request",
		Status:  http.StatusBadRequest,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewUnauthorized creates a 401 Unauthorized problem.
func NewUnauthorized(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeUnauthorized,
		Title:   "Unauthorized",
		Status:  http.StatusUnauthorized,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewNotFound creates a 404 Not Found problem.
func NewNotFound(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeNotFound,
		Title:   "Not found",
		Status:  http.StatusNotFound,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewTooManyRequests creates a 429 Too Many Requests problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeTooManyRequests,
		Title:   "Too many requests",
		Status:  http.StatusTooManyRequests,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewInternalError creates a 500 Internal Server Error problem.
func NewInternalError(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeInternal,
		Title:   "Internal server error",
		Status:  http.StatusInternalServerError,
		Detail:  detail,
		TraceID: traceID,
	}
}

// NewServiceUnavailable creates a 503 Service Unavailable problem.
func NewServiceUnavailable(traceID, detail string) *Problem {
	return &Problem{
		Type:    ProblemTypeUnavailable,
		Title:   "Service unavailable",
		Status:  http.StatusServiceUnavailable,
		Detail:  detail,
		TraceID: traceID,
	}
}
