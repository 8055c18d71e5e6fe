// Package jwt issues and verifies the service's HS512 access tokens and
// carries authenticated claims through request contexts.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned for tokens signed with anything
	// other than HS512.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the key is under 64 bytes;
	// HS512 wants a key at least as long as its output.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned for structurally valid but expired tokens.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when parsing succeeds but validation fails.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT is what the middleware and identity usecases need from a token scheme.
type JWT interface {
	Generate(uid int64, email string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config collects the inputs for building a token issuer. Clock and UUID are
// injected so tests can fix issuance time and token IDs.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims is the token payload: registered claims plus the authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
}

type authContextKey struct{}

// GetAuth returns the claims stored in ctx, or nil outside an authenticated
// request.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores verified claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authContextKey{}, clm)
}
