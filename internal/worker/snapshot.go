package worker

import (
	"context"
	"log"
	"time"

	"nearmark/internal/config"
	"nearmark/internal/service/tracker"
)

// StartSnapshotWorker starts the worker that saves changed counterpart
// location caches to Redis.
func StartSnapshotWorker(ctx context.Context, registry *tracker.Registry) {
	ticker := time.NewTicker(config.SnapshotInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				registry.SnapshotAll()
			}
		}
	}()

	log.Println("Snapshot worker started with interval:", config.SnapshotInterval)
}
