package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/pkg/jwt"
)

// TokenValidator validates bearer access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

const (
	// ClaimsKey is the context key for the validated access token claims
	ClaimsKey contextKey = "claims"
	// UserEmailKey is the context key for the caller's email
	UserEmailKey contextKey = "userEmail"
)

var errMissingBearer = errors.New("missing bearer token")

// OptionalAuth resolves the caller when a valid bearer token is present.
// Requests without one, or with a bad one, continue anonymously and
// GetUserID returns "".
func OptionalAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, validator)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// Auth rejects requests without a valid bearer token with 401.
// A caller already resolved by OptionalAuth is accepted without
// validating the token again.
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetClaims(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authenticate(r, validator)
			if err != nil {
				model.NewUnauthorizedError(unauthorizedDetail(err)).WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func authenticate(r *http.Request, validator TokenValidator) (*jwt.Claims, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, errMissingBearer
	}
	claims, err := validator.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID() == "" {
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorizedDetail(err error) string {
	switch {
	case errors.Is(err, errMissingBearer):
		return "authentication required"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "invalid token signature"
	default:
		return "invalid token"
	}
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID())
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// WithUserID returns a context carrying userID as the resolved caller
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID returns the caller's user id, or "" for anonymous requests
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserEmail returns the caller's email
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims returns the validated claims, or nil
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
