package worker

import (
	"context"
	"log"
	"time"

	"nearmark/internal/config"
	"nearmark/internal/service/tracker"
)

// StartCounterpartWorker starts the worker that polls counterpart sets and
// their last-known locations for every hosted tracker.
func StartCounterpartWorker(ctx context.Context, registry *tracker.Registry) {
	ticker := time.NewTicker(config.CounterpartPollInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				registry.RefreshAll(ctx)
			}
		}
	}()

	log.Println("Counterpart worker started with interval:", config.CounterpartPollInterval)
}
