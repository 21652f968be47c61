// Package session provides the expiring token store backing authentication.
// Tokens are kept in Redis under the "auth_" prefix with a TTL; a token that
// is missing or expired never resolves to a user.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces session tokens in Redis.
const keyPrefix = "auth_"

// Store maps session tokens to user identifiers with a TTL.
//
// All operations are fail-soft: a Redis outage surfaces to callers as
// "absent" or a no-op rather than an error, so authentication degrades to
// unauthorized instead of crashing the request.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewStore creates a session store backed by the given Redis client.
func NewStore(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Put stores a token→userID mapping and resets its expiry clock.
func (s *Store) Put(ctx context.Context, token, userID string, ttl time.Duration) {
	if err := s.client.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to store session token")
	}
}

// Get returns the user ID bound to a token, or ok=false if the token is
// missing, expired, or the backing store is unreachable.
func (s *Store) Get(ctx context.Context, token string) (string, bool) {
	value, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Error().Err(err).Msg("failed to read session token")
		}
		return "", false
	}
	return value, true
}

// Delete removes a token mapping. Deleting an absent token is a no-op.
func (s *Store) Delete(ctx context.Context, token string) {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete session token")
	}
}

// Alive reports whether the backing Redis connection is currently usable.
func (s *Store) Alive(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}
