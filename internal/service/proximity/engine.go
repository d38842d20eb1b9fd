package proximity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"nearmark/internal/config"
	"nearmark/internal/model"
	"nearmark/internal/service/identity"
	"nearmark/internal/service/session"
	"nearmark/internal/service/storage"
	"nearmark/internal/util"
)

// SessionStore is the slice of the durable store the engine drives.
type SessionStore interface {
	HasOpenSession(ctx context.Context, ownerID, counterpartID string) (bool, error)
	OpenSession(ctx context.Context, ownerID, counterpartID string, c model.Coordinate, at time.Time) (string, error)
	CloseOpenSessions(ctx context.Context, ownerID, counterpartID string, endC model.Coordinate, endT time.Time) (int, error)
}

// Notifier delivers the proximity alert for a freshly opened session.
type Notifier interface {
	NotifyProximity(ctx context.Context, userID, message string) (bool, error)
}

// AccuracyController is the sampler surface the engine tunes.
type AccuracyController interface {
	RequestAccuracy(level model.AccuracyLevel)
	StopContinuous()
	ResumeContinuous()
}

// EventType distinguishes session lifecycle events.
type EventType int

const (
	EventSessionOpened EventType = iota
	EventSessionClosed
)

// Event describes one session transition, for any interested observer.
type Event struct {
	Type          EventType
	OwnerID       string
	CounterpartID string
	Coordinate    model.Coordinate
	Time          time.Time
	SessionID     string
	Closed        int
}

// pairState is the engine's locally cached view of one pair. It gates
// redundant store traffic; the store check before an open is always fresh.
type pairState int

const (
	pairUnknown pairState = iota
	pairNoSession
	pairOpen
)

// Engine is the per-user zone/session state machine. It consumes
// coordinate-changed signals, classifies the distance to every counterpart
// with a known location, tunes the sampler's accuracy, and opens or closes
// proximity sessions. All store and notification I/O is dispatched
// asynchronously; evaluation never blocks the signal path.
type Engine struct {
	identity     identity.Provider
	store        SessionStore
	notifier     Notifier
	sampler      AccuracyController
	counterparts storage.Storage[string, *model.UserLocation]

	mu        sync.Mutex
	pairs     map[string]pairState
	observers []func(Event)

	now   func() time.Time
	spawn func(func())
}

func NewEngine(
	provider identity.Provider,
	store SessionStore,
	notifier Notifier,
	sampler AccuracyController,
	counterparts storage.Storage[string, *model.UserLocation],
) *Engine {
	return &Engine{
		identity:     provider,
		store:        store,
		notifier:     notifier,
		sampler:      sampler,
		counterparts: counterparts,
		pairs:        make(map[string]pairState),
		now:          time.Now,
		spawn:        func(fn func()) { go fn() },
	}
}

// SubscribeEvents registers an observer for session open/close events.
func (e *Engine) SubscribeEvents(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// HandleCoordinate re-evaluates every known counterpart against the owner's
// new coordinate. Wire it to the sampler's coordinate-changed signal.
func (e *Engine) HandleCoordinate(owner model.Coordinate) {
	// Counterparts outside this box are beyond the coarse cutoff for sure,
	// so their exact distance never matters.
	farBound, haveBound := util.BoundAround(owner, CoarseCutoffMeters)

	e.counterparts.ForEach(func(counterpartID string, loc *model.UserLocation) bool {
		var distance float64
		if haveBound && !util.InBound(farBound, loc.Coordinate) {
			distance = CoarseCutoffMeters + 1
		} else {
			distance = util.Distance(owner, loc.Coordinate)
		}
		e.evaluatePair(counterpartID, owner, distance)
		return true
	})
}

// evaluatePair runs one step of the per-pair state machine.
func (e *Engine) evaluatePair(counterpartID string, owner model.Coordinate, distance float64) {
	level, continuous := AccuracyForDistance(distance)
	e.sampler.RequestAccuracy(level)
	if continuous {
		e.sampler.ResumeContinuous()
	} else {
		e.sampler.StopContinuous()
	}

	switch ClassifyZone(distance) {
	case model.ZonePrecise:
		e.openIfNeeded(counterpartID, owner)
	case model.ZoneModerate:
		// State holds.
	case model.ZoneBroad:
		e.closeIfOpen(counterpartID, owner)
	}
}

func (e *Engine) openIfNeeded(counterpartID string, owner model.Coordinate) {
	ownerID, ok := e.identity.CurrentUserID()
	if !ok {
		log.Println("No signed-in user, skipping session open")
		return
	}

	e.mu.Lock()
	state := e.pairs[counterpartID]
	e.mu.Unlock()
	if state == pairOpen {
		return
	}

	at := e.now()
	e.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
		defer cancel()

		// Fresh existence check: a re-entrant signal may have opened the
		// pair since the cached view was taken.
		open, err := e.store.HasOpenSession(ctx, ownerID, counterpartID)
		if err != nil {
			log.Printf("Open-session check for %s/%s failed: %v", ownerID, counterpartID, err)
			return
		}
		if open {
			e.setPair(counterpartID, pairOpen)
			return
		}

		sessionID, err := e.store.OpenSession(ctx, ownerID, counterpartID, owner, at)
		if errors.Is(err, session.ErrAlreadyOpen) {
			log.Printf("Session for %s/%s opened concurrently", ownerID, counterpartID)
			e.setPair(counterpartID, pairOpen)
			return
		}
		if err != nil {
			log.Printf("Opening session for %s/%s failed: %v", ownerID, counterpartID, err)
			return
		}
		e.setPair(counterpartID, pairOpen)
		log.Printf("Session %s opened for %s/%s", sessionID, ownerID, counterpartID)

		// Creation and notification are independent: a notification failure
		// never rolls back the session.
		sent, err := e.notifier.NotifyProximity(ctx, counterpartID,
			fmt.Sprintf("You are within proximity of %s", ownerID))
		if err != nil || !sent {
			log.Printf("Proximity notification for %s failed: sent=%v err=%v", counterpartID, sent, err)
		}

		e.emit(Event{
			Type:          EventSessionOpened,
			OwnerID:       ownerID,
			CounterpartID: counterpartID,
			Coordinate:    owner,
			Time:          at,
			SessionID:     sessionID,
		})
	})
}

func (e *Engine) closeIfOpen(counterpartID string, owner model.Coordinate) {
	ownerID, ok := e.identity.CurrentUserID()
	if !ok {
		log.Println("No signed-in user, skipping session close")
		return
	}

	e.mu.Lock()
	state := e.pairs[counterpartID]
	e.mu.Unlock()
	// pairUnknown still sweeps: an open record may have survived a restart.
	if state == pairNoSession {
		return
	}

	at := e.now()
	e.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
		defer cancel()

		closed, err := e.store.CloseOpenSessions(ctx, ownerID, counterpartID, owner, at)
		if err != nil {
			// Leave the pair unresolved so the next signal retries the sweep.
			e.setPair(counterpartID, pairUnknown)
			log.Printf("Closing sessions for %s/%s failed: %v", ownerID, counterpartID, err)
			return
		}
		e.setPair(counterpartID, pairNoSession)

		if closed > 0 {
			log.Printf("Closed %d session record(s) for %s/%s", closed, ownerID, counterpartID)
			e.emit(Event{
				Type:          EventSessionClosed,
				OwnerID:       ownerID,
				CounterpartID: counterpartID,
				Coordinate:    owner,
				Time:          at,
				Closed:        closed,
			})
		}
	})
}

func (e *Engine) setPair(counterpartID string, state pairState) {
	e.mu.Lock()
	e.pairs[counterpartID] = state
	e.mu.Unlock()
}

func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	observers := make([]func(Event), len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}
