package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store resolves browser sessions from an opaque cookie credential.
//
// Session association is best-effort: callers that get an error treat the
// request as sessionless instead of failing it. Creating a session is the
// only side effect; recording its user-agent belongs to the caller.
type Store interface {
	// ResolveOrCreate returns the live session for credential, creating a
	// new one (isNew = true) when the credential is empty, unknown or
	// expired. Resolution refreshes the session's expiry.
	ResolveOrCreate(ctx context.Context, credential string) (sessionID string, isNew bool, err error)
}

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a sliding TTL. Sessions must live
// outside the process because requests land on independent workers.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) ResolveOrCreate(ctx context.Context, credential string) (string, bool, error) {
	if s.rdb == nil {
		return "", false, fmt.Errorf("redis client is nil")
	}

	if credential != "" {
		// EXPIRE doubles as the liveness check: it returns false when the
		// key is gone, and refreshes the sliding window when it is not.
		alive, err := s.rdb.Expire(ctx, keyPrefix+credential, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("session lookup failed: %w", err)
		}
		if alive {
			return credential, false, nil
		}
	}

	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, time.Now().UTC().Unix(), s.ttl).Err(); err != nil {
		return "", false, fmt.Errorf("session create failed: %w", err)
	}
	return id, true, nil
}
