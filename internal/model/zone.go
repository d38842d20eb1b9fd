package model

// ProximityZone is the distance bracket that drives the session state
// machine for a pair of users.
type ProximityZone int

const (
	ZoneBroad ProximityZone = iota
	ZoneModerate
	ZonePrecise
)

func (z ProximityZone) String() string {
	switch z {
	case ZoneBroad:
		return "broad"
	case ZoneModerate:
		return "moderate"
	case ZonePrecise:
		return "precise"
	default:
		return "unknown"
	}
}
