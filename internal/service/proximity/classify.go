package proximity

import "nearmark/internal/model"

// Session zone thresholds in meters. Fixed constants of the domain, not
// runtime configuration. Boundaries are half-open: the lower zone owns its
// upper boundary.
const (
	PreciseRadiusMeters = 750.0
	BroadRadiusMeters   = 1609.34
)

// Accuracy tier thresholds in meters. Deliberately finer grained than the
// session zones: session semantics stay coarse and hysteresis-free, while
// sampling accuracy gets extra gradation to avoid oscillating power draw
// near a boundary.
const (
	CoarseCutoffMeters = 16093.4
	NearCutoffMeters   = 100.0
)

// ClassifyZone maps a pairwise distance to its session zone.
func ClassifyZone(distanceMeters float64) model.ProximityZone {
	switch {
	case distanceMeters <= PreciseRadiusMeters:
		return model.ZonePrecise
	case distanceMeters <= BroadRadiusMeters:
		return model.ZoneModerate
	default:
		return model.ZoneBroad
	}
}

// AccuracyForDistance derives the sampling accuracy to request for a
// counterpart at the given distance, and whether continuous sampling should
// stay on. A pure function of distance, independent of session state.
func AccuracyForDistance(distanceMeters float64) (model.AccuracyLevel, bool) {
	switch {
	case distanceMeters > CoarseCutoffMeters:
		return model.AccuracyCoarse, false
	case distanceMeters > BroadRadiusMeters:
		return model.AccuracyCity, true
	case distanceMeters >= NearCutoffMeters:
		return model.AccuracyNear, true
	default:
		return model.AccuracyPrecise, true
	}
}
