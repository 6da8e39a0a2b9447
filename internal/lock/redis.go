// Package lock provides a Redis-backed candidate registry so that the
// one-open-session-per-candidate rule holds across processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/logger"
)

// DefaultKeyPrefix namespaces candidate claims.
const DefaultKeyPrefix = "skillprobe:candidate:"

// releaseScript deletes the claim only if it still belongs to the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRegistry stores candidate → session claims in Redis.
type RedisRegistry struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

var _ interview.CandidateRegistry = (*RedisRegistry)(nil)

// Option configures a RedisRegistry.
type Option func(*RedisRegistry)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(r *RedisRegistry) { r.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *RedisRegistry) { r.logger = logger.OrNop(l) }
}

// NewRedisRegistry creates a registry. A ttl of zero keeps claims until
// released.
func NewRedisRegistry(client redis.UniversalClient, ttl time.Duration, opts ...Option) *RedisRegistry {
	r := &RedisRegistry{
		client: client,
		ttl:    ttl,
		prefix: DefaultKeyPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRegistry) key(candidateID string) string {
	return r.prefix + candidateID
}

// Acquire claims the candidate. Re-acquiring with the holder's own session
// ID refreshes the TTL.
func (r *RedisRegistry) Acquire(ctx context.Context, candidateID, sessionID string) (string, bool, error) {
	key := r.key(candidateID)

	// Two attempts cover a claim that expires between SETNX and GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := r.client.SetNX(ctx, key, sessionID, r.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("claim candidate %s: %w", candidateID, err)
		}
		if ok {
			r.logger.Debug("candidate claimed",
				zap.String(logger.FieldCandidate, candidateID),
				zap.String(logger.FieldSession, sessionID))
			return sessionID, true, nil
		}

		holder, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("read candidate claim %s: %w", candidateID, err)
		}
		if holder != sessionID {
			return holder, false, nil
		}
		if r.ttl > 0 {
			if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
				return "", false, fmt.Errorf("refresh candidate claim %s: %w", candidateID, err)
			}
		}
		return sessionID, true, nil
	}
	return "", false, fmt.Errorf("claim candidate %s: claim changed concurrently", candidateID)
}

// Release drops the claim if sessionID still holds it.
func (r *RedisRegistry) Release(ctx context.Context, candidateID, sessionID string) error {
	n, err := releaseScript.Run(ctx, r.client, []string{r.key(candidateID)}, sessionID).Int()
	if err != nil {
		return fmt.Errorf("release candidate %s: %w", candidateID, err)
	}
	if n == 0 {
		r.logger.Debug("candidate claim not held",
			zap.String(logger.FieldCandidate, candidateID),
			zap.String(logger.FieldSession, sessionID))
	}
	return nil
}
