package util

import (
	"math"
	"testing"

	"nearmark/internal/model"
)

func TestDistanceKnownValues(t *testing.T) {
	t.Parallel()

	// One degree of longitude on the equator.
	d := Distance(model.Coordinate{Lat: 0, Lng: 0}, model.Coordinate{Lat: 0, Lng: 1})
	if math.Abs(d-111195) > 50 {
		t.Fatalf("equator degree distance = %v, want ~111195 m", d)
	}

	// Two points ~14 m apart in San Francisco.
	d = Distance(
		model.Coordinate{Lat: 37.7749, Lng: -122.4194},
		model.Coordinate{Lat: 37.7750, Lng: -122.4195},
	)
	if d < 13 || d > 16 {
		t.Fatalf("SF pair distance = %v, want ~14 m", d)
	}
}

func TestDistanceIsSymmetricAndZeroOnSelf(t *testing.T) {
	t.Parallel()

	a := model.Coordinate{Lat: 37.7749, Lng: -122.4194}
	b := model.Coordinate{Lat: 37.7587, Lng: -122.4376}

	if d := Distance(a, a); d > 0.001 {
		t.Fatalf("self distance = %v, want 0", d)
	}
	if math.Abs(Distance(a, b)-Distance(b, a)) > 0.001 {
		t.Fatal("distance must be symmetric")
	}
}

func TestMoveTowardHitsRequestedDistance(t *testing.T) {
	t.Parallel()

	start := model.Coordinate{Lat: 37.7749, Lng: -122.4194}
	end := model.Coordinate{Lat: 37.7749, Lng: -122.3000}

	p := MoveToward(start, end, 750)
	if d := Distance(start, p); math.Abs(d-750) > 1 {
		t.Fatalf("moved %v m, want 750", d)
	}

	// Requesting more than the separation returns the end point.
	if p := MoveToward(start, end, 1e7); p != end {
		t.Fatalf("overshoot should clamp to end, got %+v", p)
	}
}

func TestBoundAroundContainsRadius(t *testing.T) {
	t.Parallel()

	center := model.Coordinate{Lat: 37.7749, Lng: -122.4194}
	const radius = 16093.4

	bound, ok := BoundAround(center, radius)
	if !ok {
		t.Fatal("expected a usable bound")
	}

	// Points just inside the radius in each cardinal direction must be kept.
	for _, target := range []model.Coordinate{
		{Lat: 38.5, Lng: -122.4194},
		{Lat: 37.0, Lng: -122.4194},
		{Lat: 37.7749, Lng: -121.5},
		{Lat: 37.7749, Lng: -123.3},
	} {
		p := MoveToward(center, target, radius-10)
		if !InBound(bound, p) {
			t.Errorf("point at radius toward %+v escaped the bound", target)
		}
	}

	// A clearly distant point must be filtered out.
	if InBound(bound, model.Coordinate{Lat: 38.5, Lng: -122.4194}) {
		t.Error("point ~80 km away should be outside the bound")
	}
}

func TestBoundAroundDegenerateRegions(t *testing.T) {
	t.Parallel()

	if _, ok := BoundAround(model.Coordinate{Lat: 89.95, Lng: 0}, 16093.4); ok {
		t.Error("no trustworthy bound near the pole")
	}
	if _, ok := BoundAround(model.Coordinate{Lat: 0, Lng: 179.99}, 16093.4); ok {
		t.Error("no trustworthy bound across the antimeridian")
	}
}
