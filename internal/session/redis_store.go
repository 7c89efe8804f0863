// Package session stores refresh tokens in Redis.
//
// RedisStore satisfies the same token store contract as
// repository.TokenRepository, so the token service can use either.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ideahub/api/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	tokenPrefix     = "refresh:"
	userTokenPrefix = "user_tokens:"
)

// tokenData is the JSON value stored under refresh:<hash>
type tokenData struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

// RedisStore implements refresh token storage using Redis. Each token lives
// under refresh:<hash> until it expires; user_tokens:<userID> indexes the
// hashes issued to a user.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL and verifies the connection
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func tokenKey(hash string) string {
	return tokenPrefix + hash
}

func userKey(userID string) string {
	return userTokenPrefix + userID
}

// CreateRefreshToken stores token until its expiry
func (s *RedisStore) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save refresh token: already expired")
	}

	now := time.Now().UTC()
	data := tokenData{
		ID:        uuid.NewString(),
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt.UTC(),
		CreatedAt: now,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(token.TokenHash), payload, ttl)
		pipe.SAdd(ctx, userKey(token.UserID), token.TokenHash)
		pipe.Expire(ctx, userKey(token.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}

	token.ID = data.ID
	token.CreatedAt = now
	return nil
}

// GetRefreshTokenByHash returns the token stored under hash, or nil once it
// has expired or was never issued.
func (s *RedisStore) GetRefreshTokenByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	data, err := s.load(ctx, hash)
	if err != nil || data == nil {
		return nil, err
	}

	return &model.RefreshToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: hash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
		Revoked:   data.Revoked,
	}, nil
}

// RevokeRefreshToken marks a live token revoked and reports whether this
// call did so. The entry is kept until it expires so that a replayed token
// can be recognised. Concurrent callers race on a WATCH of the key: exactly
// one of them sees true.
func (s *RedisStore) RevokeRefreshToken(ctx context.Context, hash string) (bool, error) {
	key := tokenKey(hash)
	flipped := false

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}

		var data tokenData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("unmarshal token data: %w", err)
		}
		if data.Revoked {
			return nil
		}

		data.Revoked = true
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal token data: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, payload, redis.SetArgs{Mode: "XX", KeepTTL: true})
			return nil
		})
		if errors.Is(err, redis.Nil) {
			// expired between GET and EXEC
			return nil
		}
		if err != nil {
			return err
		}
		flipped = true
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return flipped, nil
}

// RevokeAllUserTokens revokes every live token issued to userID
func (s *RedisStore) RevokeAllUserTokens(ctx context.Context, userID string) error {
	hashes, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}

	for _, hash := range hashes {
		data, err := s.load(ctx, hash)
		if err != nil {
			return err
		}
		if data == nil || data.Revoked {
			continue
		}
		if err := s.markRevoked(ctx, hash, data); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpiredTokens drops index entries whose token has expired.
// The tokens themselves are removed by Redis TTLs.
func (s *RedisStore) DeleteExpiredTokens(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, userTokenPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		hashes, err := s.client.SMembers(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("list user tokens: %w", err)
		}

		var stale []interface{}
		for _, hash := range hashes {
			n, err := s.client.Exists(ctx, tokenKey(hash)).Result()
			if err != nil {
				return fmt.Errorf("check token: %w", err)
			}
			if n == 0 {
				stale = append(stale, hash)
			}
		}
		if len(stale) > 0 {
			if err := s.client.SRem(ctx, key, stale...).Err(); err != nil {
				return fmt.Errorf("prune user tokens: %w", err)
			}
		}
	}
	return iter.Err()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client exposes the underlying client so other Redis users can share it
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, hash string) (*tokenData, error) {
	raw, err := s.client.Get(ctx, tokenKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	var data tokenData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal token data: %w", err)
	}
	return &data, nil
}

func (s *RedisStore) markRevoked(ctx context.Context, hash string, data *tokenData) error {
	data.Revoked = true
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}

	// XX: a token that expired meanwhile must not come back without a TTL.
	err = s.client.SetArgs(ctx, tokenKey(hash), payload, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
