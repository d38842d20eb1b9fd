package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"

	"nearmark/internal/model"
)

const earthRadiusMeters = 6371000.0

// metersPerDegreeLat is the approximate length of one degree of latitude,
// used only for the coarse bounding-box prefilter.
const metersPerDegreeLat = 111320.0

// Distance returns the great-circle distance in meters between two coordinates.
func Distance(a, b model.Coordinate) float64 {
	// Convert coordinates from degrees to S2 points
	pointA := s2.PointFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lng))
	pointB := s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lng))

	// Calculate angle between points and convert to surface distance
	angle := s1.Angle(s2.ChordAngleBetweenPoints(pointA, pointB).Angle())

	return angle.Radians() * earthRadiusMeters
}

// MoveToward returns the coordinate reached by traveling distanceMeters from
// start along the great-circle path to end. If the requested distance exceeds
// the separation, end is returned.
func MoveToward(start, end model.Coordinate, distanceMeters float64) model.Coordinate {
	startPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(start.Lat, start.Lng))
	endPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(end.Lat, end.Lng))

	totalAngle := s1.Angle(s2.ChordAngleBetweenPoints(startPoint, endPoint).Angle())
	totalMeters := totalAngle.Radians() * earthRadiusMeters

	if distanceMeters >= totalMeters {
		return end
	}

	fraction := distanceMeters / totalMeters
	newLatLng := s2.LatLngFromPoint(s2.Interpolate(fraction, startPoint, endPoint))

	return model.Coordinate{Lat: newLatLng.Lat.Degrees(), Lng: newLatLng.Lng.Degrees()}
}

// BoundAround returns a bounding box that is guaranteed to contain every
// point within radiusMeters of c, plus ok=false when no trustworthy box can
// be built (antimeridian wrap). Callers use it as a cheap prefilter before
// exact distance math, so it only ever over-includes.
func BoundAround(c model.Coordinate, radiusMeters float64) (orb.Bound, bool) {
	// 5% slack so the flat-earth approximation never under-covers.
	radiusMeters *= 1.05

	dLat := radiusMeters / metersPerDegreeLat

	cosLat := math.Cos(c.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		// Too close to a pole for a meaningful longitude span.
		return orb.Bound{}, false
	}
	dLng := radiusMeters / (metersPerDegreeLat * cosLat)

	minLng := c.Lng - dLng
	maxLng := c.Lng + dLng
	if minLng < -180 || maxLng > 180 {
		return orb.Bound{}, false
	}

	return orb.Bound{
		Min: orb.Point{minLng, c.Lat - dLat},
		Max: orb.Point{maxLng, c.Lat + dLat},
	}, true
}

// InBound reports whether the coordinate falls inside the bound.
func InBound(b orb.Bound, c model.Coordinate) bool {
	return b.Contains(orb.Point{c.Lng, c.Lat})
}
