package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/pkg/jwt"
)

const defaultRefreshDuration = 30 * 24 * time.Hour

// TokenStore persists refresh tokens. Implemented by
// repository.TokenRepository and session.RedisStore.
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*model.RefreshToken, error)
	// RevokeRefreshToken flips the revoked flag and reports whether this
	// call did so. A token that was already revoked or is gone reports false.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)
	RevokeAllUserTokens(ctx context.Context, userID string) error
	DeleteExpiredTokens(ctx context.Context) error
}

// TokenService handles JWT and refresh token operations
type TokenService struct {
	jwtService      *jwt.Service
	store           TokenStore
	refreshDuration time.Duration
	now             func() time.Time
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	JWTService      *jwt.Service
	Store           TokenStore
	RefreshDuration time.Duration // Default: 30 days
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	if cfg.RefreshDuration <= 0 {
		cfg.RefreshDuration = defaultRefreshDuration
	}

	return &TokenService{
		jwtService:      cfg.JWTService,
		store:           cfg.Store,
		refreshDuration: cfg.RefreshDuration,
		now:             time.Now,
	}
}

// GenerateTokenPair signs an access token for user and stores a fresh
// opaque refresh token.
func (s *TokenService) GenerateTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	claims := jwt.Claims{
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	}
	claims.Subject = user.ID

	accessToken, err := s.jwtService.Sign(claims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	stored := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: now.Add(s.refreshDuration),
		CreatedAt: now,
	}
	if err := s.store.CreateRefreshToken(ctx, stored); err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtService.GetExpiration().Seconds()),
	}, nil
}

// Lookup returns the stored, unrevoked and unexpired token for refreshToken.
// Presenting a revoked token is treated as reuse: every token of its owner
// is revoked.
func (s *TokenService) Lookup(ctx context.Context, refreshToken string) (*model.RefreshToken, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.store.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrInvalidRefreshToken
	}

	if stored.Revoked {
		slog.Warn("refresh token reuse detected", "user_id", stored.UserID)
		if err := s.store.RevokeAllUserTokens(ctx, stored.UserID); err != nil {
			slog.Error("revoke tokens after reuse", "user_id", stored.UserID, "error", err)
		}
		return nil, ErrRefreshTokenRevoked
	}

	if stored.IsExpired(s.now()) {
		return nil, ErrRefreshTokenExpired
	}

	return stored, nil
}

// Rotate revokes refreshToken and issues a new pair for user.
// Each refresh token is single-use: when a concurrent rotation revoked it
// first, the call is treated as reuse.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string, user *model.User) (*model.TokenPair, error) {
	revoked, err := s.store.RevokeRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if !revoked {
		slog.Warn("refresh token reuse detected", "user_id", user.ID)
		if err := s.store.RevokeAllUserTokens(ctx, user.ID); err != nil {
			slog.Error("revoke tokens after reuse", "user_id", user.ID, "error", err)
		}
		return nil, ErrRefreshTokenRevoked
	}
	return s.GenerateTokenPair(ctx, user)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}

// RevokeAllUserTokens revokes all refresh tokens for a user
func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID string) error {
	return s.store.RevokeAllUserTokens(ctx, userID)
}

// DeleteExpired drops expired refresh tokens from the store
func (s *TokenService) DeleteExpired(ctx context.Context) error {
	return s.store.DeleteExpiredTokens(ctx)
}

// generateRefreshToken creates a cryptographically secure random token
func generateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
