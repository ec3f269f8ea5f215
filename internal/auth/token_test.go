package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/auth"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-signing-key-0123456789")

	token, expiresAt, err := svc.Generate("ops@example.test")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.test", subject)
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := auth.NewTokenService("test-signing-key-0123456789")
	verifier := auth.NewTokenService("another-signing-key-9876543210")

	token, _, err := issuer.Generate("ops@example.test")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := auth.NewTokenService("test-signing-key-0123456789")

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
