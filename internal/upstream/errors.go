package upstream

import "errors"

var (
	// ErrRateLimited maps an upstream 429. The caller-facing message is
	// actionable, so handlers pass a specific error through.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrQuotaExhausted maps an upstream 402. Billing detail stays
	// server-side; handlers translate this to a generic unavailable message.
	ErrQuotaExhausted = errors.New("upstream quota exhausted")

	// ErrUnavailable covers every other upstream failure.
	ErrUnavailable = errors.New("upstream unavailable")
)
