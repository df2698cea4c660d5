package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/asktrevor/trevor-backend/internal/auth"
	"github.com/asktrevor/trevor-backend/internal/config"
	"github.com/asktrevor/trevor-backend/internal/limits"
	"github.com/asktrevor/trevor-backend/internal/observability"
	"github.com/asktrevor/trevor-backend/internal/services/crm"
	"github.com/asktrevor/trevor-backend/internal/services/documents"
	"github.com/asktrevor/trevor-backend/internal/services/email"
	"github.com/asktrevor/trevor-backend/internal/services/ratelog"
	"github.com/asktrevor/trevor-backend/internal/upstream"
)

// Container aggregates runtime dependencies for handlers and services.
type Container struct {
	Config        *config.Config
	DBPool        *pgxpool.Pool
	Redis         *redis.Client
	RateLimiter   *limits.RateLimiter
	Verifier      *auth.Verifier
	Upstream      *upstream.Client
	Observability *observability.Provider
	RateLog       *ratelog.Service
	Documents     *documents.Service
	CRM           *crm.Service
	Email         *email.Service
}

// NewContainer builds a dependency container from the provided primitives.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("db pool is required")
	}
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	upstreamClient, err := upstream.New(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("init upstream client: %w", err)
	}

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}

	obsProvider, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("setup observability: %w", err)
	}

	return &Container{
		Config:        cfg,
		DBPool:        pool,
		Redis:         redisClient,
		RateLimiter:   limits.NewRateLimiter(redisClient),
		Verifier:      verifier,
		Upstream:      upstreamClient,
		Observability: obsProvider,
		RateLog:       ratelog.NewService(pool),
		Documents:     documents.NewService(pool),
		CRM:           crm.NewService(pool),
		Email:         email.NewService(upstreamClient, cfg.Email.FromName, cfg.Email.FromAddress),
	}, nil
}

// TranscriptionPolicy returns the configured per-user transcription limit.
func (c *Container) TranscriptionPolicy() limits.Policy {
	return limits.Policy{
		MaxRequests: c.Config.RateLimits.Transcription.MaxRequests,
		Window:      c.Config.RateLimits.Transcription.Window,
	}
}

// DemoPolicy returns the configured per-IP demo chat limit.
func (c *Container) DemoPolicy() limits.Policy {
	return limits.Policy{
		MaxRequests: c.Config.RateLimits.Demo.MaxRequests,
		Window:      c.Config.RateLimits.Demo.Window,
	}
}
