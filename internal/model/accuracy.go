package model

// AccuracyLevel represents how precisely a device samples its own location.
// Coarser levels cost less battery and quota, finer levels resolve zone
// boundaries correctly.
type AccuracyLevel int

const (
	AccuracyCoarse AccuracyLevel = iota
	AccuracyCity
	AccuracyNear
	AccuracyPrecise
)

// MaxErrorMeters returns the maximum acceptable sampling error the level
// configures on the underlying location source.
func (a AccuracyLevel) MaxErrorMeters() float64 {
	switch a {
	case AccuracyCoarse:
		return 3000
	case AccuracyCity:
		return 1000
	case AccuracyNear:
		return 100
	case AccuracyPrecise:
		return 10
	default:
		return 3000
	}
}

func (a AccuracyLevel) String() string {
	switch a {
	case AccuracyCoarse:
		return "coarse"
	case AccuracyCity:
		return "city"
	case AccuracyNear:
		return "near"
	case AccuracyPrecise:
		return "precise"
	default:
		return "unknown"
	}
}
