// Package jwt issues and verifies HS256 access tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/rantaucash/rantaucash-api/internal/domain"
)

// DefaultTokenDuration is the access token lifetime.
const DefaultTokenDuration = time.Hour

// Config holds token signing configuration.
type Config struct {
	SecretKey           string
	AccessTokenDuration time.Duration
}

// Claims is the signed payload: {id, role, iat, exp}.
type Claims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	gojwt.RegisteredClaims
}

// Authenticator signs and verifies tokens with a single shared secret.
// It performs no store lookups; a token is trusted on its signature alone.
type Authenticator struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// Option customizes an Authenticator.
type Option func(*Authenticator)

// WithClock replaces time.Now. Used by tests to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(cfg Config, opts ...Option) *Authenticator {
	duration := cfg.AccessTokenDuration
	if duration <= 0 {
		duration = DefaultTokenDuration
	}

	a := &Authenticator{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue signs a token for claims that expires one token lifetime from now.
func (a *Authenticator) Issue(claims domain.Claims) (string, error) {
	now := a.now()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: claims.UserID,
		Role:   claims.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(a.duration)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Errors wrap domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid or
// domain.ErrTokenExpired.
func (a *Authenticator) Verify(tokenString string) (*domain.Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims,
		func(*gojwt.Token) (interface{}, error) { return a.secret, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Claims{UserID: claims.UserID, Role: claims.Role}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", domain.ErrTokenSignatureInvalid, err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
}
