package limits

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis, func()) {
	t.Helper()
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	limiter := NewRateLimiter(client)
	cleanup := func() {
		client.Close()
		server.Close()
	}
	return limiter, server, cleanup
}

func TestAllowDeniesEleventhRequestInWindow(t *testing.T) {
	limiter, _, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	policy := Policy{MaxRequests: 10, Window: time.Hour}
	subject := "user:5f1c"

	for i := 0; i < 10; i++ {
		if err := limiter.Allow(ctx, subject, policy); err != nil {
			t.Fatalf("request %d should pass: %v", i+1, err)
		}
	}
	if err := limiter.Allow(ctx, subject, policy); err != ErrLimitExceeded {
		t.Fatalf("11th request: want ErrLimitExceeded, got %v", err)
	}
}

func TestAllowRollsBackDeniedEvent(t *testing.T) {
	limiter, _, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	policy := Policy{MaxRequests: 1, Window: time.Hour}
	subject := "ip:203.0.113.9"

	if err := limiter.Allow(ctx, subject, policy); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	if err := limiter.Allow(ctx, subject, policy); err != ErrLimitExceeded {
		t.Fatalf("second request: want ErrLimitExceeded, got %v", err)
	}

	// The rejected event must not count against the subject.
	remaining, err := limiter.Remaining(ctx, subject, policy)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("want 0 remaining after one accepted request, got %d", remaining)
	}
	used, err := limiter.client.ZCard(ctx, "rl:"+subject).Result()
	if err != nil {
		t.Fatalf("zcard: %v", err)
	}
	if used != 1 {
		t.Fatalf("want 1 recorded event after rollback, got %d", used)
	}
}

func TestAllowAdmitsAfterWindowSlides(t *testing.T) {
	limiter, server, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	policy := Policy{MaxRequests: 2, Window: time.Minute}
	subject := "user:d2ab"

	if err := limiter.Allow(ctx, subject, policy); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	if err := limiter.Allow(ctx, subject, policy); err != nil {
		t.Fatalf("second request should pass: %v", err)
	}
	if err := limiter.Allow(ctx, subject, policy); err != ErrLimitExceeded {
		t.Fatalf("third request: want ErrLimitExceeded, got %v", err)
	}

	// Old events fall out of the trailing window rather than a calendar bucket.
	rewriteScores(t, server, "rl:"+subject, -2*time.Minute)
	if err := limiter.Allow(ctx, subject, policy); err != nil {
		t.Fatalf("request after window slid should pass: %v", err)
	}
}

func TestNilLimiterAdmitsEverything(t *testing.T) {
	var limiter *RateLimiter
	if err := limiter.Allow(context.Background(), "any", Policy{MaxRequests: 1, Window: time.Second}); err != nil {
		t.Fatalf("nil limiter should admit: %v", err)
	}
}

// rewriteScores shifts every member's score by delta so tests can age events
// without sleeping.
func rewriteScores(t *testing.T, server *miniredis.Miniredis, key string, delta time.Duration) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()
	ctx := context.Background()
	members, err := client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		t.Fatalf("zrange: %v", err)
	}
	for _, m := range members {
		client.ZAdd(ctx, key, redis.Z{Score: m.Score + float64(delta.Nanoseconds()), Member: m.Member})
	}
}
