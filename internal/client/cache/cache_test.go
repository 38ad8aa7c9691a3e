package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/janisto/profilehub/internal/client/api"
	"github.com/janisto/profilehub/internal/client/kv"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// countingServer serves a fixed list envelope for GET /api/profiles and
// counts how often the API was actually consulted.
type countingServer struct {
	srv  *httptest.Server
	mu   sync.Mutex
	hits int
}

func newCountingServer(t *testing.T, listBody string) *countingServer {
	t.Helper()
	cs := &countingServer{}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.hits++
		cs.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/profiles":
			_, _ = w.Write([]byte(listBody))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"success":true,"message":"Profile deleted successfully"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Profile not found"}`))
		}
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *countingServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits
}

// offlineClient points at a server that no longer exists, so every call
// fails at the transport level.
func offlineClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	return api.NewClient(nil, api.WithBaseURL(url))
}

const twoProfilesBody = `{"success":true,"message":"Profiles retrieved successfully","count":2,"data":[
	{"id":"b","name":"Second User","email":"b@example.com","age":25,
		"createdAt":"2024-01-14T10:30:00.000Z","updatedAt":"2024-01-14T10:30:00.000Z"},
	{"id":"a","name":"First User","email":"a@example.com","age":30,
		"createdAt":"2024-01-13T10:30:00.000Z","updatedAt":"2024-01-13T10:30:00.000Z"}]}`

func TestListCachesWithinFreshnessWindow(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	server := newCountingServer(t, twoProfilesBody)
	c := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), kv.NewMemory(), WithClock(clk.Now))

	first, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if first.FromCache || len(first.Profiles) != 2 {
		t.Fatalf("first read: %+v", first)
	}

	clk.Advance(Freshness - time.Second)
	second, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !second.FromCache || second.Message != MsgLoadedFromCache {
		t.Fatalf("second read should come from cache: %+v", second)
	}
	if len(second.Profiles) != 2 || second.Profiles[0].Email != "b@example.com" {
		t.Fatalf("cached profiles differ: %+v", second.Profiles)
	}
	if server.count() != 1 {
		t.Fatalf("expected 1 API hit, got %d", server.count())
	}
}

func TestListRefetchesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	server := newCountingServer(t, twoProfilesBody)
	c := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), kv.NewMemory(), WithClock(clk.Now))

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	clk.Advance(Freshness + time.Second)
	result, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.FromCache {
		t.Fatal("expired cache should not be served")
	}
	if server.count() != 2 {
		t.Fatalf("expected 2 API hits, got %d", server.count())
	}
}

func TestListStaleFallbackWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := kv.NewMemory()
	server := newCountingServer(t, twoProfilesBody)

	online := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), store, WithClock(clk.Now))
	if _, err := online.List(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	clk.Advance(Freshness + time.Minute)
	offline := New(offlineClient(t), store, WithClock(clk.Now))
	result, err := offline.List(ctx)
	if err != nil {
		t.Fatalf("List offline: %v", err)
	}
	if !result.FromCache || result.Message != MsgLoadedOffline {
		t.Fatalf("expected offline cache fallback: %+v", result)
	}
	if len(result.Profiles) != 2 {
		t.Fatalf("unexpected profiles: %+v", result.Profiles)
	}
}

func TestListUnreachableWithEmptyCache(t *testing.T) {
	c := New(offlineClient(t), kv.NewMemory(), WithClock(newFakeClock().Now))
	if _, err := c.List(context.Background()); !api.IsUnreachable(err) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestGetServedFromCache(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	server := newCountingServer(t, twoProfilesBody)
	c := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), kv.NewMemory(), WithClock(clk.Now))

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	result, err := c.Get(ctx, "A@Example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !result.FromCache || result.Profile.ID != "a" {
		t.Fatalf("expected cached profile: %+v", result)
	}
	if server.count() != 1 {
		t.Fatalf("Get should not hit the API, got %d hits", server.count())
	}
}

func TestGetNotFoundPassesThrough(t *testing.T) {
	server := newCountingServer(t, twoProfilesBody)
	c := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), kv.NewMemory(), WithClock(newFakeClock().Now))

	_, err := c.Get(context.Background(), "ghost@example.com")
	if !api.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSaveOnlineUpsertsCache(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Profile created successfully",
			"data":{"id":"new","name":"Jane Doe","email":"jane@example.com","age":30,
				"createdAt":"2024-01-15T10:30:00.000Z","updatedAt":"2024-01-15T10:30:00.000Z"}}`))
	}))
	defer srv.Close()
	c := New(api.NewClient(srv.Client(), api.WithBaseURL(srv.URL)), kv.NewMemory(), WithClock(newFakeClock().Now))

	result, err := c.Save(ctx, api.SaveRequest{Name: "Jane Doe", Email: "Jane@Example.com", Age: 30})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !result.Created || result.Queued {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := c.Get(ctx, "jane@example.com")
	if err != nil || !got.FromCache {
		t.Fatalf("saved profile not cached: %+v, %v", got, err)
	}
}

func TestSaveOfflineQueuesLocalRecord(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	c := New(offlineClient(t), kv.NewMemory(), WithClock(clk.Now))

	result, err := c.Save(ctx, api.SaveRequest{Name: "Jane Doe", Email: "jane@example.com", Age: 30})
	if err != nil {
		t.Fatalf("Save offline: %v", err)
	}
	if !result.Queued || result.Message != MsgSavedLocally {
		t.Fatalf("expected queued save: %+v", result)
	}
	if !strings.HasPrefix(result.Profile.ID, LocalIDPrefix) {
		t.Fatalf("expected local placeholder id, got %q", result.Profile.ID)
	}

	pending := c.Pending(ctx)
	if len(pending) != 1 || pending[0].Email != "jane@example.com" {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	// Queued writes must survive cache expiry.
	clk.Advance(Freshness + time.Hour)
	if pending := c.Pending(ctx); len(pending) != 1 {
		t.Fatalf("pending record expired: %+v", pending)
	}
}

func TestSaveOfflineUpsertsByEmail(t *testing.T) {
	ctx := context.Background()
	c := New(offlineClient(t), kv.NewMemory(), WithClock(newFakeClock().Now))

	if _, err := c.Save(ctx, api.SaveRequest{Name: "Jane Doe", Email: "jane@example.com", Age: 30}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := c.Save(ctx, api.SaveRequest{Name: "Jane Q Doe", Email: "jane@example.com", Age: 31}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	pending := c.Pending(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected one record per email, got %+v", pending)
	}
	if pending[0].Name != "Jane Q Doe" || pending[0].Age != 31 {
		t.Fatalf("second save did not replace first: %+v", pending[0])
	}
}

func TestDeleteRemovesFromCacheUnconditionally(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := kv.NewMemory()
	server := newCountingServer(t, twoProfilesBody)

	online := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), store, WithClock(clk.Now))
	if _, err := online.List(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	msg, err := online.Delete(ctx, "a@example.com")
	if err != nil || msg != "Profile deleted successfully" {
		t.Fatalf("Delete: %q, %v", msg, err)
	}

	// Offline delete still removes the cached copy and does not error.
	offline := New(offlineClient(t), store, WithClock(clk.Now))
	msg, err = offline.Delete(ctx, "b@example.com")
	if err != nil {
		t.Fatalf("Delete offline: %v", err)
	}
	if msg != MsgRemovedLocally {
		t.Fatalf("unexpected message %q", msg)
	}
	if remaining := offline.rawProfiles(ctx); len(remaining) != 0 {
		t.Fatalf("cache not emptied: %+v", remaining)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	server := newCountingServer(t, twoProfilesBody)
	c := New(api.NewClient(server.srv.Client(), api.WithBaseURL(server.srv.URL)), kv.NewMemory(), WithClock(newFakeClock().Now))

	if _, err := c.List(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := c.rawProfiles(ctx); got != nil {
		t.Fatalf("cache not cleared: %+v", got)
	}
	if _, err := c.List(ctx); err != nil {
		t.Fatalf("List after clear: %v", err)
	}
	if server.count() != 2 {
		t.Fatalf("expected refetch after clear, got %d hits", server.count())
	}
}
