package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"nearmark/internal/model"
	redis_client "nearmark/internal/redis"
	"nearmark/internal/service/identity"
	"nearmark/internal/service/location"
	"nearmark/internal/service/proximity"
	"nearmark/internal/service/storage"
)

// FriendGraph supplies the counterpart set for a user. Polled, not pushed.
type FriendGraph interface {
	ListCounterparts(ctx context.Context, userID string) ([]string, error)
}

// LocationSource reads counterparts' last-known locations.
type LocationSource interface {
	FetchLocations(ctx context.Context, userIDs []string) (map[string]*model.UserLocation, error)
}

// SessionBackend is the full durable-store surface a tracker needs.
type SessionBackend interface {
	location.Persister
	proximity.SessionStore
	LocationSource
}

// Tracker bundles one user's sampler, engine and counterpart location cache.
// The cache is owned here; the engine only reads it. Staleness between polls
// is an accepted trade-off.
type Tracker struct {
	UserID  string
	Sampler *location.Sampler
	Engine  *proximity.Engine

	graph        FriendGraph
	locations    LocationSource
	counterparts storage.Storage[string, *model.UserLocation]
}

// New wires a tracker for one user against shared collaborators.
func New(userID string, store SessionBackend, notifier proximity.Notifier, graph FriendGraph, writeInterval time.Duration) *Tracker {
	provider := identity.Static(userID)
	counterparts := storage.NewMemoryStorage[string, *model.UserLocation]()

	sampler := location.NewSampler(provider, store, writeInterval)
	engine := proximity.NewEngine(provider, store, notifier, sampler, counterparts)
	sampler.Subscribe(engine.HandleCoordinate)

	return &Tracker{
		UserID:       userID,
		Sampler:      sampler,
		Engine:       engine,
		graph:        graph,
		locations:    store,
		counterparts: counterparts,
	}
}

// RefreshCounterparts reloads the counterpart set and their last-known
// locations into the cache, dropping users no longer paired.
func (t *Tracker) RefreshCounterparts(ctx context.Context) error {
	ids, err := t.graph.ListCounterparts(ctx, t.UserID)
	if err != nil {
		return fmt.Errorf("list counterparts for %s: %w", t.UserID, err)
	}

	locations, err := t.locations.FetchLocations(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetch counterpart locations for %s: %w", t.UserID, err)
	}

	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	// Drop counterparts that left the friend set.
	t.counterparts.ForEach(func(id string, _ *model.UserLocation) bool {
		if !known[id] {
			t.counterparts.Delete(id)
		}
		return true
	})

	for id, loc := range locations {
		t.counterparts.Set(id, loc)
	}

	return nil
}

func (t *Tracker) snapshotKey() string {
	return "counterpart_locations:" + t.UserID
}

// WarmCache loads the last Redis snapshot of counterpart locations so the
// engine can evaluate before the first poll completes.
func (t *Tracker) WarmCache() error {
	fields, err := redis_client.HashGetAll(t.snapshotKey())
	if err != nil {
		return fmt.Errorf("warm cache for %s: %w", t.UserID, err)
	}

	loaded := 0
	for id, raw := range fields {
		var loc model.UserLocation
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			continue
		}
		t.counterparts.Set(id, &loc)
		loaded++
	}
	// Snapshot entries are not dirty; they came from Redis.
	keys := make([]string, 0, loaded)
	for id := range fields {
		keys = append(keys, id)
	}
	t.counterparts.ClearDirty(keys)

	if loaded > 0 {
		log.Printf("Warmed %d counterpart locations for %s from Redis", loaded, t.UserID)
	}
	return nil
}

// SaveSnapshot writes changed counterpart locations to Redis.
func (t *Tracker) SaveSnapshot() error {
	dirty := t.counterparts.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dirty))
	for id, loc := range dirty {
		b, err := json.Marshal(loc)
		if err != nil {
			return err
		}
		if err := redis_client.HashSet(t.snapshotKey(), id, b); err != nil {
			return err
		}
		keys = append(keys, id)
	}
	t.counterparts.ClearDirty(keys)

	return nil
}
