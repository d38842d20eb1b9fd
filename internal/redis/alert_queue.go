package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"nearmark/internal/model"
)

// AlertQueue queues proximity alerts on a Redis list for an out-of-process
// notification sender. The engine only needs the boolean outcome for logging.
type AlertQueue struct {
	client *redis.Client
	key    string
}

func NewAlertQueue(client *redis.Client, key string) *AlertQueue {
	return &AlertQueue{client: client, key: key}
}

// NotifyProximity enqueues an alert for the target user. It reports whether
// the alert was accepted by the queue; callers never branch logic on it.
func (q *AlertQueue) NotifyProximity(ctx context.Context, userID, message string) (bool, error) {
	alert := model.ProximityAlert{
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	b, err := json.Marshal(alert)
	if err != nil {
		return false, err
	}

	if err := q.client.LPush(ctx, q.key, b).Err(); err != nil {
		return false, err
	}
	return true, nil
}
