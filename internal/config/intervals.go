package config

import "time"

// Worker intervals and rate limits
const (
	// LocationWriteInterval is the minimum time between durable writes of a
	// user's own location record. In-process signals are not limited.
	LocationWriteInterval = 30 * time.Second

	// CounterpartPollInterval defines how often counterpart sets and their
	// last-known locations are refreshed from the stores.
	CounterpartPollInterval = 60 * time.Second

	// SnapshotInterval defines how often changed counterpart locations are
	// saved to Redis.
	SnapshotInterval = 10 * time.Second

	// StoreTimeout bounds every durable-store round trip.
	StoreTimeout = 5 * time.Second
)

// AlertQueueKey is the Redis list the proximity alert sender drains.
const AlertQueueKey = "proximity_alerts"
