package model

import (
	"time"
)

// OpenSentinel marks a session as still in progress. Open sessions are
// selected by equality against this value, so it must be a fixed far-future
// timestamp no real end time can collide with.
var OpenSentinel = time.Unix(4102444800, 0).UTC()

// ProximitySession is one continuous interval during which two users were
// within the precise zone of each other. Every session is stored twice: once
// under each participant, with owner and counterpart swapped. The two copies
// share the temporal data but are distinct records.
type ProximitySession struct {
	ID              string      `json:"id" bson:"_id"`
	OwnerID         string      `json:"ownerId" bson:"owner_id"`
	CounterpartID   string      `json:"counterpartId" bson:"counterpart_id"`
	StartTime       time.Time   `json:"startTime" bson:"start_time"`
	StartCoordinate Coordinate  `json:"startCoordinate" bson:"start_coordinate"`
	EndTime         time.Time   `json:"endTime" bson:"end_time"`
	EndCoordinate   *Coordinate `json:"endCoordinate,omitempty" bson:"end_coordinate,omitempty"`
}

// NewProximitySession builds the owner-side record for a session starting now.
func NewProximitySession(ownerID, counterpartID string, start Coordinate, startTime time.Time) *ProximitySession {
	return &ProximitySession{
		ID:              ShortUUID(),
		OwnerID:         ownerID,
		CounterpartID:   counterpartID,
		StartTime:       startTime,
		StartCoordinate: start,
		EndTime:         OpenSentinel,
	}
}

// Mirrored returns the counterpart-side copy with the identities swapped and
// its own record id.
func (s *ProximitySession) Mirrored() *ProximitySession {
	return &ProximitySession{
		ID:              ShortUUID(),
		OwnerID:         s.CounterpartID,
		CounterpartID:   s.OwnerID,
		StartTime:       s.StartTime,
		StartCoordinate: s.StartCoordinate,
		EndTime:         s.EndTime,
		EndCoordinate:   s.EndCoordinate,
	}
}

// IsOpen reports whether the session has not yet observed a zone exit.
func (s *ProximitySession) IsOpen() bool {
	return s.EndTime.Equal(OpenSentinel)
}
