package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"nearmark/internal/config"
	"nearmark/internal/model"
)

type fakeGraph struct {
	mu  sync.Mutex
	ids []string
}

func (g *fakeGraph) ListCounterparts(ctx context.Context, userID string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ids...), nil
}

func (g *fakeGraph) set(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = ids
}

// fakeBackend satisfies SessionBackend with canned locations and no-op
// session mutations.
type fakeBackend struct {
	mu        sync.Mutex
	locations map[string]*model.UserLocation
}

func (b *fakeBackend) WriteLocation(ctx context.Context, userID string, c model.Coordinate, at time.Time) error {
	return nil
}

func (b *fakeBackend) HasOpenSession(ctx context.Context, ownerID, counterpartID string) (bool, error) {
	return false, nil
}

func (b *fakeBackend) OpenSession(ctx context.Context, ownerID, counterpartID string, c model.Coordinate, at time.Time) (string, error) {
	return "s", nil
}

func (b *fakeBackend) CloseOpenSessions(ctx context.Context, ownerID, counterpartID string, endC model.Coordinate, endT time.Time) (int, error) {
	return 0, nil
}

func (b *fakeBackend) FetchLocations(ctx context.Context, userIDs []string) (map[string]*model.UserLocation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]*model.UserLocation)
	for _, id := range userIDs {
		if loc, ok := b.locations[id]; ok {
			out[id] = loc
		}
	}
	return out, nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyProximity(ctx context.Context, userID, message string) (bool, error) {
	return true, nil
}

func TestRefreshCounterpartsPopulatesAndPrunes(t *testing.T) {
	t.Parallel()

	graph := &fakeGraph{}
	graph.set("bob", "carol")

	backend := &fakeBackend{locations: map[string]*model.UserLocation{
		"bob":   {UserID: "bob", Coordinate: model.Coordinate{Lat: 1, Lng: 1}, LastUpdated: time.Now()},
		"carol": {UserID: "carol", Coordinate: model.Coordinate{Lat: 2, Lng: 2}, LastUpdated: time.Now()},
	}}

	tr := New("alice", backend, noopNotifier{}, graph, config.LocationWriteInterval)

	if err := tr.RefreshCounterparts(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.counterparts.Count() != 2 {
		t.Fatalf("expected 2 cached counterparts, got %d", tr.counterparts.Count())
	}

	// carol drops out of the friend set.
	graph.set("bob")
	if err := tr.RefreshCounterparts(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := tr.counterparts.Get("carol"); ok {
		t.Fatal("removed counterpart must be pruned from the cache")
	}
	if _, ok := tr.counterparts.Get("bob"); !ok {
		t.Fatal("remaining counterpart must stay cached")
	}
}

func TestCounterpartWithoutLocationIsNotCached(t *testing.T) {
	t.Parallel()

	graph := &fakeGraph{}
	graph.set("bob", "dave")

	backend := &fakeBackend{locations: map[string]*model.UserLocation{
		"bob": {UserID: "bob", Coordinate: model.Coordinate{Lat: 1, Lng: 1}, LastUpdated: time.Now()},
	}}

	tr := New("alice", backend, noopNotifier{}, graph, config.LocationWriteInterval)

	if err := tr.RefreshCounterparts(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := tr.counterparts.Get("dave"); ok {
		t.Fatal("a counterpart with no location record must be absent")
	}
}

func TestRegistryTrackIsIdempotent(t *testing.T) {
	t.Parallel()

	graph := &fakeGraph{}
	backend := &fakeBackend{locations: map[string]*model.UserLocation{}}
	reg := NewRegistry(backend, noopNotifier{}, graph, config.LocationWriteInterval)

	first := reg.Track("alice")
	second := reg.Track("alice")
	if first != second {
		t.Fatal("Track must return the same tracker for the same user")
	}

	if _, ok := reg.Get("alice"); !ok {
		t.Fatal("tracked user must be retrievable")
	}
	if _, ok := reg.Get("nobody"); ok {
		t.Fatal("unknown user must not resolve")
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 tracker, got %d", len(reg.All()))
	}
}
