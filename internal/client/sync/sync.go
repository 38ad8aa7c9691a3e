// Package sync replays profile records that were created while the API was
// unreachable. Each queued record is resubmitted as a plain create-or-update
// with its placeholder identifier stripped, then the cache is refreshed
// wholesale from the API.
package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/cache"
)

// DefaultInterval is how often Run probes for connectivity.
const DefaultInterval = 30 * time.Second

// Result summarizes one sync pass.
type Result struct {
	Synced int
	Failed int
}

// Coordinator drains the cache's queue of locally created records.
type Coordinator struct {
	api      *api.Client
	cache    *cache.Cache
	log      *zap.Logger
	interval time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for per-record failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithInterval overrides the connectivity probe interval used by Run.
func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.interval = d }
}

// New builds a Coordinator over the given API client and cache.
func New(apiClient *api.Client, profileCache *cache.Cache, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:      apiClient,
		cache:    profileCache,
		log:      zap.NewNop(),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SyncLocalChanges replays every queued record against the API. Records
// whose replay fails are logged, skipped, and kept in the queue for the
// next pass; successful replays are reflected by a wholesale cache refresh.
// Re-running after a partial failure is safe because create-or-update is
// idempotent on email.
func (c *Coordinator) SyncLocalChanges(ctx context.Context) (Result, error) {
	pending := c.cache.Pending(ctx)
	if len(pending) == 0 {
		return Result{}, nil
	}
	c.log.Info("syncing local changes", zap.Int("pending", len(pending)))

	var result Result
	var failed []api.Profile
	for _, p := range pending {
		_, err := c.api.SaveProfile(ctx, api.SaveRequest{
			Name:  p.Name,
			Email: p.Email,
			Age:   p.Age,
		})
		if err != nil {
			c.log.Warn("failed to sync profile", zap.String("email", p.Email), zap.Error(err))
			result.Failed++
			failed = append(failed, p)
			continue
		}
		c.log.Info("synced profile", zap.String("email", p.Email))
		result.Synced++
	}

	if err := c.cache.Refresh(ctx); err != nil {
		c.log.Warn("cache refresh after sync failed", zap.Error(err))
		return result, err
	}
	// Records that failed to replay stay queued past the refresh.
	for _, p := range failed {
		if err := c.cache.Upsert(ctx, p); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Run probes the API on a fixed interval and drains the queue whenever the
// API is reachable. It performs one immediate pass and returns when ctx is
// canceled.
func (c *Coordinator) Run(ctx context.Context) {
	c.attempt(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.attempt(ctx)
		}
	}
}

func (c *Coordinator) attempt(ctx context.Context) {
	if err := c.api.Ping(ctx); err != nil {
		c.log.Debug("api not reachable, skipping sync", zap.Error(err))
		return
	}
	if _, err := c.SyncLocalChanges(ctx); err != nil {
		c.log.Warn("sync pass failed", zap.Error(err))
	}
}
