package worker

import (
	"context"
	"log"

	"nearmark/internal/service/tracker"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(ctx context.Context, registry *tracker.Registry) {
	log.Println("Starting all workers...")

	StartCounterpartWorker(ctx, registry)
	StartSnapshotWorker(ctx, registry)

	log.Println("All workers started")
}
