package model

import (
	"errors"
	"math"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is an immutable latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude" bson:"lat"`
	Lng float64 `json:"longitude" bson:"lng"`
}

// Validate checks that both components are finite real numbers within range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return ErrInvalidCoordinate
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
