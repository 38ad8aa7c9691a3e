// Package cache is the offline convenience layer between the CLI and the
// Profile API. Reads go through a TTL-bounded local copy of the profile
// list; writes go to the API first and fall back to a locally queued record
// when the API is unreachable.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/kv"
	"github.com/janisto/profilehub/internal/timeutil"
)

const (
	profilesKey  = "profiles_cache"
	timestampKey = "profiles_cache_timestamp"

	// Freshness is how long the cached list is served without contacting
	// the API.
	Freshness = 5 * time.Minute

	// LocalIDPrefix marks records created while the API was unreachable.
	// The sync coordinator replays them once connectivity returns.
	LocalIDPrefix = "local_"
)

// User-facing messages for cache-served and locally queued results.
const (
	MsgLoadedFromCache  = "Profiles loaded from cache"
	MsgLoadedOffline    = "Profiles loaded from cache (offline mode)"
	MsgProfileFromCache = "Profile loaded from cache"
	MsgProfileOffline   = "Profile loaded from cache (offline mode)"
	MsgSavedLocally     = "Profile saved locally (will sync when online)"
	MsgRemovedLocally   = "Profile removed locally (will sync when online)"
)

// IsLocal reports whether a profile was created offline and not yet synced.
func IsLocal(p api.Profile) bool {
	return strings.HasPrefix(p.ID, LocalIDPrefix)
}

// ListResult is the outcome of a list read, with provenance.
type ListResult struct {
	Profiles  []api.Profile
	Message   string
	FromCache bool
}

// GetResult is the outcome of a single-profile read, with provenance.
type GetResult struct {
	Profile   api.Profile
	Message   string
	FromCache bool
}

// SaveResult is the outcome of a create-or-update through the cache.
// Queued means the API was unreachable and the record awaits sync.
type SaveResult struct {
	Profile api.Profile
	Message string
	Created bool
	Queued  bool
}

// Cache is the read-through, write-behind layer over a kv.Store.
type Cache struct {
	api      *api.Client
	profiles kv.JSON[[]api.Profile]
	stamp    kv.JSON[int64]
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the freshness clock. Tests use it to age the cache
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New builds a Cache over the given API client and key-value store.
func New(apiClient *api.Client, store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		api:      apiClient,
		profiles: kv.NewJSON[[]api.Profile](store),
		stamp:    kv.NewJSON[int64](store),
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all profiles. A fresh non-empty cache is served without an
// API call. Otherwise the API is consulted and the cache replaced; if the
// API is unreachable the cached list is served even past its freshness
// window, and the error propagates only when there is nothing cached.
func (c *Cache) List(ctx context.Context) (*ListResult, error) {
	if cached := c.freshProfiles(ctx); len(cached) > 0 {
		return &ListResult{Profiles: cached, Message: MsgLoadedFromCache, FromCache: true}, nil
	}

	profiles, err := c.api.ListProfiles(ctx)
	if err != nil {
		if stale := c.rawProfiles(ctx); len(stale) > 0 {
			c.log.Warn("list failed, serving cached profiles", zap.Error(err))
			return &ListResult{Profiles: stale, Message: MsgLoadedOffline, FromCache: true}, nil
		}
		return nil, err
	}

	if err := c.replace(ctx, profiles); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
	return &ListResult{Profiles: profiles, Message: "Profiles retrieved successfully"}, nil
}

// Get returns one profile by email, scanning the cached list before asking
// the API. A record fetched from the API is upserted into the cache.
func (c *Cache) Get(ctx context.Context, email string) (*GetResult, error) {
	email = normalizeEmail(email)
	if p, ok := findByEmail(c.freshProfiles(ctx), email); ok {
		return &GetResult{Profile: p, Message: MsgProfileFromCache, FromCache: true}, nil
	}

	profile, err := c.api.GetProfile(ctx, email)
	if err != nil {
		if p, ok := findByEmail(c.rawProfiles(ctx), email); ok && !api.IsNotFound(err) {
			c.log.Warn("get failed, serving cached profile", zap.String("email", email), zap.Error(err))
			return &GetResult{Profile: p, Message: MsgProfileOffline, FromCache: true}, nil
		}
		return nil, err
	}

	if err := c.upsert(ctx, *profile); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
	return &GetResult{Profile: *profile, Message: "Profile retrieved successfully"}, nil
}

// Save attempts the API create-or-update first. When the API is unreachable
// a placeholder record is written to the cache instead and the change is
// reported as queued for sync.
func (c *Cache) Save(ctx context.Context, req api.SaveRequest) (*SaveResult, error) {
	req.Email = normalizeEmail(req.Email)
	result, err := c.api.SaveProfile(ctx, req)
	if err == nil {
		if cacheErr := c.upsert(ctx, result.Profile); cacheErr != nil {
			c.log.Warn("cache write failed", zap.Error(cacheErr))
		}
		return &SaveResult{Profile: result.Profile, Message: result.Message, Created: result.Created}, nil
	}
	if !api.IsUnreachable(err) {
		return nil, err
	}

	c.log.Warn("save failed, queueing profile locally", zap.String("email", req.Email), zap.Error(err))
	now := timeutil.New(c.now().UTC())
	local := api.Profile{
		ID:        LocalIDPrefix + uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.upsert(ctx, local); err != nil {
		return nil, fmt.Errorf("queue local profile: %w", err)
	}
	return &SaveResult{Profile: local, Message: MsgSavedLocally, Created: true, Queued: true}, nil
}

// Delete removes a profile. The cached copy is removed regardless of
// whether the API call succeeded; an API failure is logged and reported as
// a local removal rather than an error.
func (c *Cache) Delete(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	apiErr := c.api.DeleteProfile(ctx, email)
	if err := c.remove(ctx, email); err != nil {
		return "", err
	}
	if apiErr != nil {
		c.log.Warn("delete failed, removed from cache only", zap.String("email", email), zap.Error(apiErr))
		return MsgRemovedLocally, nil
	}
	return "Profile deleted successfully", nil
}

// Pending returns cached records created offline, oldest first in cache
// order. It ignores the freshness window so queued writes never expire.
func (c *Cache) Pending(ctx context.Context) []api.Profile {
	var pending []api.Profile
	for _, p := range c.rawProfiles(ctx) {
		if IsLocal(p) {
			pending = append(pending, p)
		}
	}
	return pending
}

// Upsert writes one record into the cached list, matched by email. The sync
// coordinator uses it to requeue records whose replay failed.
func (c *Cache) Upsert(ctx context.Context, profile api.Profile) error {
	return c.upsert(ctx, profile)
}

// Clear drops the cached list and its timestamp.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.profiles.Delete(ctx, profilesKey); err != nil {
		return err
	}
	return c.stamp.Delete(ctx, timestampKey)
}

// Refresh replaces the cache wholesale from the API.
func (c *Cache) Refresh(ctx context.Context) error {
	profiles, err := c.api.ListProfiles(ctx)
	if err != nil {
		return err
	}
	return c.replace(ctx, profiles)
}

// freshProfiles returns the cached list only while the freshness window
// holds, nil otherwise.
func (c *Cache) freshProfiles(ctx context.Context) []api.Profile {
	stamp, err := c.stamp.Get(ctx, timestampKey)
	if err != nil || stamp == nil {
		return nil
	}
	age := c.now().UnixMilli() - *stamp
	if age > Freshness.Milliseconds() {
		return nil
	}
	return c.rawProfiles(ctx)
}

// rawProfiles returns the cached list regardless of age.
func (c *Cache) rawProfiles(ctx context.Context) []api.Profile {
	profiles, err := c.profiles.Get(ctx, profilesKey)
	if err != nil {
		c.log.Warn("cache read failed", zap.Error(err))
		return nil
	}
	if profiles == nil {
		return nil
	}
	return *profiles
}

func (c *Cache) replace(ctx context.Context, profiles []api.Profile) error {
	if err := c.profiles.Set(ctx, profilesKey, profiles); err != nil {
		return err
	}
	return c.stamp.Set(ctx, timestampKey, c.now().UnixMilli())
}

func (c *Cache) upsert(ctx context.Context, profile api.Profile) error {
	profiles := c.rawProfiles(ctx)
	replaced := false
	for i, p := range profiles {
		if p.Email == profile.Email {
			profiles[i] = profile
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, profile)
	}
	return c.replace(ctx, profiles)
}

func (c *Cache) remove(ctx context.Context, email string) error {
	profiles := c.rawProfiles(ctx)
	kept := profiles[:0]
	for _, p := range profiles {
		if p.Email != email {
			kept = append(kept, p)
		}
	}
	return c.replace(ctx, kept)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findByEmail(profiles []api.Profile, email string) (api.Profile, bool) {
	for _, p := range profiles {
		if p.Email == email {
			return p, true
		}
	}
	return api.Profile{}, false
}
