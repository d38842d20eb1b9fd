package proximity

import (
	"testing"

	"nearmark/internal/model"
)

func TestClassifyZoneBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		distance float64
		want     model.ProximityZone
	}{
		{0, model.ZonePrecise},
		{14, model.ZonePrecise},
		{749.99, model.ZonePrecise},
		{750.0, model.ZonePrecise}, // boundary belongs to the lower zone
		{750.01, model.ZoneModerate},
		{1000, model.ZoneModerate},
		{1609.34, model.ZoneModerate},
		{1609.35, model.ZoneBroad},
		{2000, model.ZoneBroad},
		{50000, model.ZoneBroad},
	}

	for _, tc := range cases {
		if got := ClassifyZone(tc.distance); got != tc.want {
			t.Errorf("ClassifyZone(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestAccuracyForDistanceBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		distance   float64
		want       model.AccuracyLevel
		continuous bool
	}{
		{0, model.AccuracyPrecise, true},
		{99.99, model.AccuracyPrecise, true},
		{100, model.AccuracyNear, true},
		{1609.34, model.AccuracyNear, true},
		{1609.35, model.AccuracyCity, true},
		{16093.4, model.AccuracyCity, true}, // boundary inclusive
		{16093.5, model.AccuracyCoarse, false},
		{100000, model.AccuracyCoarse, false},
	}

	for _, tc := range cases {
		got, continuous := AccuracyForDistance(tc.distance)
		if got != tc.want || continuous != tc.continuous {
			t.Errorf("AccuracyForDistance(%v) = (%v, %v), want (%v, %v)",
				tc.distance, got, continuous, tc.want, tc.continuous)
		}
	}
}

func TestAccuracyIsPureFunctionOfDistance(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{5, 99, 500, 2000, 20000} {
		first, firstCont := AccuracyForDistance(d)
		for i := 0; i < 3; i++ {
			again, againCont := AccuracyForDistance(d)
			if again != first || againCont != firstCont {
				t.Fatalf("AccuracyForDistance(%v) not deterministic", d)
			}
		}
	}
}
