package state

import (
	"context"
	"errors"
	"sync"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/cache"
)

// Store couples the reducer with the cache layer. Its methods are the
// thunks: dispatch a pending action, perform the I/O through the cache,
// then dispatch the outcome. The returned error mirrors what was recorded
// in State.Error so callers can exit non-zero.
type Store struct {
	mu    sync.RWMutex
	state State
	cache *cache.Cache
}

// NewStore builds a Store over the given cache layer.
func NewStore(c *cache.Cache) *Store {
	return &Store{cache: c}
}

// State returns a snapshot of the current state. The profile list is cloned
// so callers cannot alias internal storage.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.state
	snapshot.Profiles = append([]api.Profile(nil), s.state.Profiles...)
	if s.state.Profile != nil {
		p := *s.state.Profile
		snapshot.Profile = &p
	}
	return snapshot
}

// Dispatch applies one action through the reducer.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
}

// FetchAllProfiles loads the profile list through the cache.
func (s *Store) FetchAllProfiles(ctx context.Context) error {
	s.Dispatch(Pending{})
	result, err := s.cache.List(ctx)
	if err != nil {
		s.Dispatch(FetchAllFailed{Err: errMessage(err, "Failed to fetch profiles")})
		return err
	}
	s.Dispatch(FetchAllDone{Profiles: result.Profiles})
	if result.FromCache {
		s.Dispatch(SetMessage{Message: result.Message})
	}
	return nil
}

// FetchProfile loads one profile by email through the cache.
func (s *Store) FetchProfile(ctx context.Context, email string) error {
	s.Dispatch(Pending{})
	result, err := s.cache.Get(ctx, email)
	if err != nil {
		s.Dispatch(FetchOneFailed{Err: errMessage(err, "Failed to fetch profile")})
		return err
	}
	s.Dispatch(FetchOneDone{Profile: result.Profile})
	return nil
}

// SaveProfile creates or updates a profile through the cache. An offline
// save still succeeds, with the queued-for-sync message in State.Success.
func (s *Store) SaveProfile(ctx context.Context, req api.SaveRequest) error {
	s.Dispatch(Pending{ResetSuccess: true})
	result, err := s.cache.Save(ctx, req)
	if err != nil {
		s.Dispatch(SaveFailed{Err: errMessage(err, "Failed to save profile")})
		return err
	}
	s.Dispatch(SaveDone{Profile: result.Profile, Message: result.Message})
	return nil
}

// DeleteProfile removes a profile through the cache. Cache removal is
// unconditional, so this never fails on an unreachable API.
func (s *Store) DeleteProfile(ctx context.Context, email string) error {
	s.Dispatch(Pending{ResetSuccess: true})
	msg, err := s.cache.Delete(ctx, email)
	if err != nil {
		s.Dispatch(DeleteFailed{Err: errMessage(err, "Failed to delete profile")})
		return err
	}
	s.Dispatch(DeleteDone{Email: email, Message: msg})
	return nil
}

// errMessage prefers the API's own message over the raw error string.
func errMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if api.IsUnreachable(err) {
		return "Unable to reach the server"
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}
