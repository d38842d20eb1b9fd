package location

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nearmark/internal/config"
	"nearmark/internal/model"
	"nearmark/internal/service/identity"
)

// Persister writes the durable last-known-location record.
type Persister interface {
	WriteLocation(ctx context.Context, userID string, c model.Coordinate, at time.Time) error
}

// Sampler owns the device's current coordinate, the accuracy the device is
// asked to sample at, and the rate-limited durable write of the location
// record. Coordinate-changed signals to in-process subscribers are never
// rate limited; only the durable write is, because local proximity checks
// must react immediately while store writes are bounded by quota.
type Sampler struct {
	identity  identity.Provider
	persister Persister
	limiter   *rate.Limiter

	mu          sync.RWMutex
	coordinate  model.Coordinate
	hasFix      bool
	accuracy    model.AccuracyLevel
	continuous  bool
	subscribers []func(model.Coordinate)

	now   func() time.Time
	spawn func(func())
}

// NewSampler creates a sampler for the given identity. writeInterval is the
// minimum time between durable location writes; config.LocationWriteInterval
// is the production value.
func NewSampler(provider identity.Provider, persister Persister, writeInterval time.Duration) *Sampler {
	limit := rate.Inf
	if writeInterval > 0 {
		limit = rate.Every(writeInterval)
	}
	return &Sampler{
		identity:   provider,
		persister:  persister,
		limiter:    rate.NewLimiter(limit, 1),
		accuracy:   model.AccuracyCoarse,
		continuous: true,
		now:        time.Now,
		spawn:      func(fn func()) { go fn() },
	}
}

// Subscribe registers a callback invoked synchronously on every accepted
// coordinate. Registration order is delivery order.
func (s *Sampler) Subscribe(fn func(model.Coordinate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetCoordinate accepts an externally obtained coordinate. Live sensor
// samples and manual overrides go through the same path.
func (s *Sampler) SetCoordinate(c model.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.coordinate = c
	s.hasFix = true
	subscribers := make([]func(model.Coordinate), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(c)
	}

	s.persist(c)
	return nil
}

// persist attempts the durable write under the rate limit. A failed write is
// logged and not retried; the next permitted sample naturally attempts again.
func (s *Sampler) persist(c model.Coordinate) {
	if !s.limiter.Allow() {
		return
	}

	userID, ok := s.identity.CurrentUserID()
	if !ok {
		log.Println("No signed-in user, skipping location write")
		return
	}

	at := s.now()
	s.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
		defer cancel()

		if err := s.persister.WriteLocation(ctx, userID, c, at); err != nil {
			log.Printf("Location write for %s failed: %v", userID, err)
		}
	})
}

// CurrentCoordinate returns the device's coordinate, if a fix exists.
func (s *Sampler) CurrentCoordinate() (model.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coordinate, s.hasFix
}

// RequestAccuracy reconfigures the device's sampling precision. Idempotent;
// takes effect for subsequent samples only.
func (s *Sampler) RequestAccuracy(level model.AccuracyLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accuracy = level
}

// CurrentAccuracy returns the requested sampling precision.
func (s *Sampler) CurrentAccuracy() model.AccuracyLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accuracy
}

// StopContinuous stops continuous sampling; the device falls back to
// significant-change samples only.
func (s *Sampler) StopContinuous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continuous = false
}

// ResumeContinuous re-enables continuous sampling.
func (s *Sampler) ResumeContinuous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.continuous = true
}

// Continuous reports whether continuous sampling is on.
func (s *Sampler) Continuous() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.continuous
}
