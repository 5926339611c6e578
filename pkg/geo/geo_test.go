package geo

import (
	"math"
	"math/rand/v2"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBearingCardinalDirections(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     float64
	}{
		{"north", 1, 0, 0},
		{"east", 0, 1, 90},
		{"south", -1, 0, 180},
		{"west", 0, -1, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(0, 0, tt.lat, tt.lon)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Expected bearing %f, got %f", tt.want, got)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Bearing %f outside [0, 360)", got)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 0, 1); !almostEqual(got, 111.19492664455873, 1e-6) {
		t.Errorf("Expected one degree of longitude at the equator to be 111.195 km, got %f", got)
	}
	if got := Distance(51.5, -0.12, 48.85, 2.35); !almostEqual(got, 343.1278778235353, 1e-6) {
		t.Errorf("Expected London to Paris to be 343.128 km, got %f", got)
	}
	if got := Distance(10, 10, 10, 10); got != 0 {
		t.Errorf("Expected zero distance for identical points, got %f", got)
	}
	if got := DistanceNm(0, 0, 0, 1); !almostEqual(got, 60.04045715148959, 1e-6) {
		t.Errorf("Expected 60.04 NM, got %f", got)
	}
}

func TestTerminalPointRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		lat := rng.Float64()*140 - 70
		lon := rng.Float64()*340 - 170
		distanceKm := 1 + rng.Float64()*2000
		bearing := rng.Float64() * 360

		tLat, tLon := TerminalPoint(lat, lon, distanceKm, bearing)

		if got := Distance(lat, lon, tLat, tLon); !almostEqual(got, distanceKm, 1e-6*distanceKm+1e-6) {
			t.Fatalf("case %d: expected distance %f, got %f", i, distanceKm, got)
		}

		gotBearing := Bearing(lat, lon, tLat, tLon)
		diff := math.Abs(gotBearing - bearing)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 1e-6 {
			t.Fatalf("case %d: expected bearing %f, got %f", i, bearing, gotBearing)
		}
	}
}

func TestNextPosition(t *testing.T) {
	lat, lon := NextPosition(0, 0, 0, 1, 300)
	if !almostEqual(lat, 0, 1e-9) {
		t.Errorf("Expected latitude to stay on the equator, got %f", lat)
	}
	// 111.195 km at 300 kts is 720 whole seconds, so one tick is 1/720 of a degree.
	if !almostEqual(lon, 1.0/720, 1e-9) {
		t.Errorf("Expected longitude %f, got %f", 1.0/720, lon)
	}

	// Negative speeds travel the same way.
	nLat, nLon := NextPosition(0, 0, 0, 1, -300)
	if nLat != lat || nLon != lon {
		t.Errorf("Expected negative speed to match positive speed, got (%f, %f)", nLat, nLon)
	}
}

func TestNextPositionDegenerateCases(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		speed            float64
		wantLat, wantLon float64
	}{
		{"same point", 10, 20, 10, 20, 300, 10, 20},
		{"zero speed", 10, 20, 11, 20, 0, 10, 20},
		{"destination within one tick", 0, 0, 0, 0.0001, 300, 0, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := NextPosition(tt.lat1, tt.lon1, tt.lat2, tt.lon2, tt.speed)
			if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
				t.Fatalf("Expected finite result, got (%f, %f)", lat, lon)
			}
			if lat != tt.wantLat || lon != tt.wantLon {
				t.Errorf("Expected (%f, %f), got (%f, %f)", tt.wantLat, tt.wantLon, lat, lon)
			}
		})
	}
}

func TestWithinRadiusDegrees(t *testing.T) {
	if !WithinRadiusDegrees(0, 0, 1, 0.5, 0.5) {
		t.Error("Expected point inside the circle")
	}
	if WithinRadiusDegrees(0, 0, 1, 1, 0) {
		t.Error("Expected point on the boundary to be outside")
	}
	if WithinRadiusDegrees(0, 0, 0, 0, 0) {
		t.Error("Expected zero radius to contain nothing")
	}
}
