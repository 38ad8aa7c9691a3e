package profile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Semantics match FirestoreStore: email-keyed upserts, newest-first listing.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string // emails in insertion order, for stable tie-breaking
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*Profile),
		now:      time.Now,
	}
}

// SetNow overrides the clock, for tests that need deterministic timestamps.
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func clone(p *Profile) *Profile {
	cp := *p
	return &cp
}

// CreateOrUpdate inserts or overwrites the record for the normalized email.
func (s *MemoryStore) CreateOrUpdate(_ context.Context, params SaveParams) (*Profile, bool, error) {
	email := normalizeEmail(params.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if existing, ok := s.profiles[email]; ok {
		existing.Name = params.Name
		existing.Age = params.Age
		existing.UpdatedAt = now
		return clone(existing), false, nil
	}

	p := &Profile{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Email:     email,
		Age:       params.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.profiles[email] = p
	s.order = append(s.order, email)
	return clone(p), true, nil
}

// GetByEmail retrieves a profile by normalized email.
func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

// ListAll returns every profile, newest-created first. Records with equal
// creation times list the most recently inserted one first, so the ordering
// stays strictly newest-first even at timestamp resolution limits.
func (s *MemoryStore) ListAll(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.profiles))
	for i := len(s.order) - 1; i >= 0; i-- {
		if p, ok := s.profiles[s.order[i]]; ok {
			out = append(out, clone(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByEmail removes a profile by normalized email.
func (s *MemoryStore) DeleteByEmail(_ context.Context, email string) error {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[key]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, key)
	for i, e := range s.order {
		if e == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)
