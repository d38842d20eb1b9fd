package model

import "time"

// UserLocation is the last known coordinate of a user. It is overwritten on
// every rate-permitted sample and keeps no history.
type UserLocation struct {
	UserID      string     `json:"userId" bson:"_id"`
	Coordinate  Coordinate `json:"coordinate" bson:"coordinate"`
	LastUpdated time.Time  `json:"lastUpdated" bson:"last_updated"`
}
