package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"nearmark/internal/api"
	"nearmark/internal/config"
	"nearmark/internal/mongo"
	"nearmark/internal/postgres"
	"nearmark/internal/redis"
	"nearmark/internal/service/proximity"
	"nearmark/internal/service/session"
	"nearmark/internal/service/tracker"
	"nearmark/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize databases and cache
	db := mongo.Init(cfg.MongoUrl, cfg.MongoDB)
	pg := postgres.Init(cfg.DBUrl)
	redisClient := redis.Init(cfg.RedisUrl)
	defer mongo.Close()
	defer redis.Close()

	// Build collaborators and the tracker registry
	store := session.NewStore(db)
	alerts := redis.NewAlertQueue(redisClient, config.AlertQueueKey)
	graph := postgres.NewFriendGraph(pg)
	registry := tracker.NewRegistry(store, alerts, graph, config.LocationWriteInterval)

	ctx := context.Background()
	startTrackers(ctx, cfg, registry)

	// Start background workers
	worker.StartAllWorkers(ctx, registry)

	// Setup and run API server
	runAPIServer(cfg, registry, store)
}

func startTrackers(ctx context.Context, cfg config.Config, registry *tracker.Registry) {
	ids := cfg.TrackedUserIDs()
	if len(ids) == 0 {
		log.Println("USER_IDS is empty, no trackers hosted at startup")
		return
	}

	for _, userID := range ids {
		t := registry.Track(userID)

		if err := t.WarmCache(); err != nil {
			log.Printf("Cache warm-up for %s failed: %v", userID, err)
		}
		if err := t.RefreshCounterparts(ctx); err != nil {
			log.Printf("Initial counterpart refresh for %s failed: %v", userID, err)
		}

		t.Engine.SubscribeEvents(logSessionEvent)
	}

	log.Printf("Hosting %d tracker(s)", len(ids))
}

func logSessionEvent(ev proximity.Event) {
	switch ev.Type {
	case proximity.EventSessionOpened:
		log.Printf("Session opened: %s with %s at (%f, %f)", ev.OwnerID, ev.CounterpartID, ev.Coordinate.Lat, ev.Coordinate.Lng)
	case proximity.EventSessionClosed:
		log.Printf("Session closed: %s with %s (%d record(s))", ev.OwnerID, ev.CounterpartID, ev.Closed)
	}
}

func runAPIServer(cfg config.Config, registry *tracker.Registry, store *session.Store) {
	// Initialize Gin router
	r := gin.Default()

	// Configure API routes
	api.SetupRouter(r, registry, store)

	// Start the server
	r.Run(cfg.Port)
}
