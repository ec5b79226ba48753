package location

import (
	"context"
	"sync"
	"time"

	"food-ordering-api/models"
)

const subscriberBuffer = 8

// MemoryTracker keeps positions in process. Used when no redis address is configured.
type MemoryTracker struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	latest map[string]models.StaffLocation
	subs   map[string]map[chan models.StaffLocation]struct{}
}

func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	return &MemoryTracker{
		ttl:    ttl,
		now:    time.Now,
		latest: make(map[string]models.StaffLocation),
		subs:   make(map[string]map[chan models.StaffLocation]struct{}),
	}
}

func (t *MemoryTracker) Publish(_ context.Context, loc models.StaffLocation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.latest[loc.StaffID] = loc
	for ch := range t.subs[loc.StaffID] {
		// slow subscribers miss samples rather than block the publisher
		select {
		case ch <- loc:
		default:
		}
	}
	return nil
}

func (t *MemoryTracker) Latest(_ context.Context, staffID string) (*models.StaffLocation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	loc, ok := t.latest[staffID]
	if !ok {
		return nil, ErrNoPosition
	}
	if t.ttl > 0 && t.now().Sub(loc.UpdatedAt) > t.ttl {
		delete(t.latest, staffID)
		return nil, ErrNoPosition
	}
	return &loc, nil
}

func (t *MemoryTracker) Subscribe(ctx context.Context, staffID string) (<-chan models.StaffLocation, func()) {
	ch := make(chan models.StaffLocation, subscriberBuffer)

	t.mu.Lock()
	if t.subs[staffID] == nil {
		t.subs[staffID] = make(map[chan models.StaffLocation]struct{})
	}
	t.subs[staffID][ch] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs[staffID], ch)
			if len(t.subs[staffID]) == 0 {
				delete(t.subs, staffID)
			}
			t.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}
