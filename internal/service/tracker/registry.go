package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"nearmark/internal/service/proximity"
)

// Registry hosts one tracker per tracked user.
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]*Tracker

	store         SessionBackend
	notifier      proximity.Notifier
	graph         FriendGraph
	writeInterval time.Duration
}

func NewRegistry(store SessionBackend, notifier proximity.Notifier, graph FriendGraph, writeInterval time.Duration) *Registry {
	return &Registry{
		trackers:      make(map[string]*Tracker),
		store:         store,
		notifier:      notifier,
		graph:         graph,
		writeInterval: writeInterval,
	}
}

// Track creates (or returns) the tracker for a user.
func (r *Registry) Track(userID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[userID]; ok {
		return t
	}
	t := New(userID, r.store, r.notifier, r.graph, r.writeInterval)
	r.trackers[userID] = t
	log.Printf("Tracking user %s", userID)
	return t
}

// Get returns the tracker for a user, if hosted here.
func (r *Registry) Get(userID string) (*Tracker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.trackers[userID]
	return t, ok
}

// All returns the hosted trackers.
func (r *Registry) All() []*Tracker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		out = append(out, t)
	}
	return out
}

// RefreshAll polls counterpart sets and locations for every tracker.
func (r *Registry) RefreshAll(ctx context.Context) {
	for _, t := range r.All() {
		if err := t.RefreshCounterparts(ctx); err != nil {
			log.Printf("Counterpart refresh for %s failed: %v", t.UserID, err)
		}
	}
}

// SnapshotAll saves changed counterpart caches to Redis.
func (r *Registry) SnapshotAll() {
	for _, t := range r.All() {
		if err := t.SaveSnapshot(); err != nil {
			log.Printf("Snapshot for %s failed: %v", t.UserID, err)
		}
	}
}
