package model

import "time"

// ProximityAlert is the payload handed to the notification pipeline when a
// session opens. Delivery mechanics live outside this service; the alert is
// queued for a downstream sender.
type ProximityAlert struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
