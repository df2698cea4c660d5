package limits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Policy is a sliding-window admission rule: at most MaxRequests events
// within the trailing Window.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

func (p Policy) String() string {
	return fmt.Sprintf("%d requests per %s", p.MaxRequests, p.Window)
}

// RateLimiter admits or denies requests per subject using Redis sorted sets.
// The add-then-count sequence runs in a single pipeline, so two concurrent
// requests from the same subject cannot both slip under the limit.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow records one event for the subject and checks it against the policy.
// When the window is already full the event is rolled back and
// ErrLimitExceeded is returned. A nil limiter or policy with no cap admits
// everything.
func (l *RateLimiter) Allow(ctx context.Context, subject string, policy Policy) error {
	if l == nil || l.client == nil {
		return nil
	}
	if policy.MaxRequests <= 0 || policy.Window <= 0 {
		return nil
	}

	key := fmt.Sprintf("rl:%s", subject)
	now := time.Now().UTC()
	cutoff := now.Add(-policy.Window)
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff.UnixNano()))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, policy.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}

	if count.Val() > int64(policy.MaxRequests) {
		l.client.ZRem(ctx, key, member)
		return ErrLimitExceeded
	}
	return nil
}

// Remaining reports how many requests the subject has left in the window.
func (l *RateLimiter) Remaining(ctx context.Context, subject string, policy Policy) (int, error) {
	if l == nil || l.client == nil || policy.MaxRequests <= 0 {
		return policy.MaxRequests, nil
	}
	key := fmt.Sprintf("rl:%s", subject)
	cutoff := time.Now().UTC().Add(-policy.Window)
	if err := l.client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return 0, err
	}
	used, err := l.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	remaining := policy.MaxRequests - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
