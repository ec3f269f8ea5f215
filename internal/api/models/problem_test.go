package models_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/api/models"
)

func TestProblem_Write(t *testing.T) {
	problem := models.NewUnauthorized("req_abc", "missing bearer token")
	problem.Instance = "/v1/admin/cache/invalidate"

	rec := httptest.NewRecorder()
	problem.Write(rec)

	assert.Equal(t, 401, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req_abc", rec.Header().Get("X-Request-Id"))

	var decoded models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, models.ProblemTypeUnauthorized, decoded.Type)
	assert.Equal(t, "missing bearer token", decoded.Detail)
	assert.Equal(t, "/v1/admin/cache/invalidate", decoded.Instance)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		status  int
	}{
		{"not found", models.NewNotFound("t", "d"), 404},
		{"too many requests", models.NewTooManyRequests("t", "d"), 429},
		{"internal", models.NewInternalError("t", "d"), 500},
		{"unavailable", models.NewServiceUnavailable("t", "d"), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.NotEmpty(t, tt.problem.Type)
			assert.NotEmpty(t, tt.problem.Title)
		})
	}
}
