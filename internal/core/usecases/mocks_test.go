package usecases_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/core/usecases"
)

// --- Mock PlacesProvider ---

type mockPlaces struct {
	searchFn       func(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error)
	autocompleteFn func(ctx context.Context, text string, bias *domain.Coordinates) ([]domain.Place, error)
	reverseFn      func(ctx context.Context, c domain.Coordinates) string
	cityFn         func(ctx context.Context, text string) (*domain.CityMatch, error)

	mu       sync.Mutex
	searches []domain.SearchQuery
	typed    []string
}

func (m *mockPlaces) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
	m.mu.Lock()
	m.searches = append(m.searches, q)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockPlaces) Autocomplete(ctx context.Context, text string, bias *domain.Coordinates) ([]domain.Place, error) {
	m.mu.Lock()
	m.typed = append(m.typed, text)
	m.mu.Unlock()
	if m.autocompleteFn != nil {
		return m.autocompleteFn(ctx, text, bias)
	}
	return nil, nil
}

func (m *mockPlaces) ReverseGeocode(ctx context.Context, c domain.Coordinates) string {
	if m.reverseFn != nil {
		return m.reverseFn(ctx, c)
	}
	return c.String()
}

func (m *mockPlaces) GeocodeCity(ctx context.Context, text string) (*domain.CityMatch, error) {
	if m.cityFn != nil {
		return m.cityFn(ctx, text)
	}
	return nil, nil
}

func (m *mockPlaces) searchCalls() []domain.SearchQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SearchQuery(nil), m.searches...)
}

func (m *mockPlaces) autocompleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.typed...)
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu      sync.Mutex
	origins []domain.OriginChanged
	shares  []domain.PlaceShared
}

func (m *mockPublisher) PublishOriginChanged(ctx context.Context, ev *domain.OriginChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.origins = append(m.origins, *ev)
	return nil
}

func (m *mockPublisher) PublishPlaceShared(ctx context.Context, ev *domain.PlaceShared) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares = append(m.shares, *ev)
	return nil
}

// --- Mock DeviceLocator ---

type mockLocator struct {
	status domain.PermissionStatus
	pos    domain.Coordinates
	posErr error
}

func (m *mockLocator) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	return m.status, nil
}

func (m *mockLocator) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	return m.pos, m.posErr
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock HistoryStore ---

type mockHistory struct {
	mu      sync.Mutex
	max     int
	entries map[string][]domain.HistoryEntry
}

func newMockHistory(max int) *mockHistory {
	return &mockHistory{max: max, entries: map[string][]domain.HistoryEntry{}}
}

func (m *mockHistory) Push(ctx context.Context, sessionID string, e domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := append([]domain.HistoryEntry{e}, m.entries[sessionID]...)
	if len(list) > m.max {
		list = list[:m.max]
	}
	m.entries[sessionID] = list
	return nil
}

func (m *mockHistory) List(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry(nil), m.entries[sessionID]...), nil
}

func (m *mockHistory) Remove(ctx context.Context, sessionID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.HistoryEntry
	for _, e := range m.entries[sessionID] {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	m.entries[sessionID] = kept
	return nil
}

func (m *mockHistory) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// --- Fake clock ---

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

var _ usecases.Clock = (*fakeClock)(nil)

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) usecases.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every timer that came due, in due
// order, on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	var pending []*fakeTimer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case !t.at.After(c.now):
			t.fired = true
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

var milan = domain.Coordinates{Lat: 45.4642, Lon: 9.19}
