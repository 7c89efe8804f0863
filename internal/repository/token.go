package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/model"
)

// TokenRepository stores refresh tokens in SurrealDB. It is used when no
// Redis session store is configured.
type TokenRepository struct {
	db database.Database
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db database.Database) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateRefreshToken stores a new refresh token
func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	query := `
		CREATE refresh_token CONTENT {
			user: type::record($user),
			token_hash: $token_hash,
			expires_at: <datetime>$expires_at,
			created_at: time::now(),
			revoked: false
		}
	`

	vars := map[string]interface{}{
		"user":       recordID("user", token.UserID),
		"token_hash": token.TokenHash,
		"expires_at": token.ExpiresAt.UTC().Format(time.RFC3339),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row := firstRow(result)
	if row == nil {
		return errors.New("create refresh token: no record returned")
	}

	token.ID = extractRecordID(row["id"])
	token.CreatedAt = parseTime(row["created_at"])
	return nil
}

// GetRefreshTokenByHash retrieves a refresh token by its hash
func (r *TokenRepository) GetRefreshTokenByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	query := `SELECT * FROM refresh_token WHERE token_hash = $hash LIMIT 1`
	vars := map[string]interface{}{"hash": hash}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	return &model.RefreshToken{
		ID:        extractRecordID(data["id"]),
		UserID:    extractRecordID(data["user"]),
		TokenHash: getString(data, "token_hash"),
		ExpiresAt: parseTime(data["expires_at"]),
		CreatedAt: parseTime(data["created_at"]),
		Revoked:   getBool(data, "revoked"),
	}, nil
}

// RevokeRefreshToken marks a live refresh token as revoked. It reports
// false when the token was already revoked or does not exist.
func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, hash string) (bool, error) {
	query := `UPDATE refresh_token SET revoked = true WHERE token_hash = $hash AND revoked = false RETURN AFTER`
	vars := map[string]interface{}{"hash": hash}

	_, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RevokeAllUserTokens revokes all refresh tokens for a user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID string) error {
	query := `UPDATE refresh_token SET revoked = true WHERE user = type::record($user)`
	vars := map[string]interface{}{"user": recordID("user", userID)}

	return r.db.Execute(ctx, query, vars)
}

// DeleteExpiredTokens removes expired tokens and tokens revoked more than a week ago
func (r *TokenRepository) DeleteExpiredTokens(ctx context.Context) error {
	cutoff := time.Now().Add(-7 * 24 * time.Hour).UTC().Format(time.RFC3339)
	query := `
		DELETE refresh_token WHERE expires_at < time::now();
		DELETE refresh_token WHERE revoked = true AND created_at < <datetime>$cutoff;
	`
	vars := map[string]interface{}{"cutoff": cutoff}

	return r.db.Execute(ctx, query, vars)
}
