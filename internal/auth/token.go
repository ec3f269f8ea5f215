// Package auth issues and validates admin bearer tokens. There is no user
// store: a single HS256 signing key guards the admin endpoints (cache
// invalidation, forced refresh).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// tokenIssuer is the issuer claim on admin tokens.
	tokenIssuer = "statusgate"

	// tokenAudience is the audience claim on admin tokens.
	tokenAudience = "statusgate-admin"

	// DefaultTokenExpiry is how long issued admin tokens stay valid.
	DefaultTokenExpiry = 12 * time.Hour
)

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid admin token")
	ErrTokenExpired = errors.New("admin token has expired")
)

// TokenService signs and validates admin tokens.
type TokenService struct {
	signingKey []byte
}

// NewTokenService creates a token service using the given signing key.
func NewTokenService(signingKey string) *TokenService {
	return &TokenService{signingKey: []byte(signingKey)}
}

// Claims are the claims carried by admin tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// Generate issues a token for the named operator, valid for
// DefaultTokenExpiry.
func (s *TokenService) Generate(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(DefaultTokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing admin token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks the token signature and claims, returning the subject.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
