package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/daurulang/daurulang/internal/config"
)

const (
	keyRedeemUser = "reward:redeem:user:%s"
	keyRedeemLock = "reward:redeem:lock:%s"
)

// RedeemLimiter throttles redemption attempts per user and serializes
// concurrent claims for the same user. A nil limiter disables both, so the
// service degrades to a single-node deployment without redis.
type RedeemLimiter struct {
	bucket *TokenBucket
	locker *Locker

	rate    float64
	burst   int
	lockTTL time.Duration
}

// NewRedeemLimiter returns nil when no redis address is configured.
func NewRedeemLimiter(cfg config.Config) *RedeemLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	rate := cfg.RedeemRatePerSecond
	if rate <= 0 {
		rate = 1
	}
	burst := cfg.RedeemBurst
	if burst <= 0 {
		burst = 3
	}
	ttl := time.Duration(cfg.RedeemLockTTL) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}

	return &RedeemLimiter{
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    rate,
		burst:   burst,
		lockTTL: ttl,
	}
}

func (l *RedeemLimiter) Enabled() bool {
	return l != nil
}

func (l *RedeemLimiter) AllowUser(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyRedeemUser, strings.TrimSpace(userID)), l.rate, l.burst)
}

func (l *RedeemLimiter) TryLockUser(ctx context.Context, userID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.Acquire(ctx, fmt.Sprintf(keyRedeemLock, strings.TrimSpace(userID)), l.lockTTL)
}

func (l *RedeemLimiter) ReleaseUser(ctx context.Context, userID, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyRedeemLock, strings.TrimSpace(userID)), token)
}
