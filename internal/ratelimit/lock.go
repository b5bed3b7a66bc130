package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Release must only delete a lock the caller still owns. Comparing the owner
// token before DEL keeps a slow holder from dropping its successor's lock
// after the TTL already expired it.
const releaseOwnedScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker is a best-effort redis mutex. The redeem path holds it across the
// balance check and claim insert so two requests from the same user cannot
// spend the same credit twice.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(releaseOwnedScript),
	}
}

// Acquire takes the lock without blocking. The returned owner token is
// required to release; ok reports whether the lock was free.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (owner string, ok bool, err error) {
	switch {
	case l == nil || l.client == nil:
		return "", false, errors.New("locker requires a redis client")
	case key == "":
		return "", false, errors.New("locker requires a key")
	case ttl <= 0:
		return "", false, errors.New("locker requires a positive ttl")
	}

	owner = uuid.NewString()
	ok, err = l.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return owner, ok, nil
}

// Release drops the lock if the owner token still matches.
func (l *Locker) Release(ctx context.Context, key, owner string) error {
	if l == nil || l.client == nil || key == "" || owner == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{key}, owner).Err()
}
