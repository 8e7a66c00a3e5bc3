// Package runlock provides a Redis-backed lease so two ingestion runs can
// never write the catalog at the same time.
//
// The lock is advisory and optional: when REDIS_ADDR is not configured the
// lock degrades to a no-op, matching the single-operator workflow the
// pipeline was built for. When Redis is available, a second `decora ingest`
// started while one is running fails fast instead of interleaving
// lookup-then-insert sequences with the first.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/decora/config"
)

// ErrHeld is returned by Acquire when another run holds the lease.
var ErrHeld = errors.New("runlock: another ingestion run is in progress")

// Lock is a held lease. Release it when the run finishes.
type Lock struct {
	client *redis.Client
	key    string
	token  string
}

// Acquire takes the named lease for ttl. Returns a no-op Lock when Redis is
// not configured, ErrHeld when the lease is taken, or a transport error.
func Acquire(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return &Lock{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("runlock: redis ping: %w", err)
	}

	key := "decora:runlock:" + name
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("runlock: setnx %s: %w", key, err)
	}
	if !ok {
		_ = client.Close()
		return nil, ErrHeld
	}

	return &Lock{client: client, key: key, token: token}, nil
}

// releaseScript deletes the key only if we still own it, so an expired lease
// taken over by a newer run is never deleted from under it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release gives the lease back. Safe to call on a no-op Lock.
func (l *Lock) Release(ctx context.Context) error {
	if l == nil || l.client == nil {
		return nil
	}
	defer l.client.Close()

	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("runlock: release %s: %w", l.key, err)
	}
	return nil
}
