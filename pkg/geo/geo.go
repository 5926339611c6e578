// Package geo provides the spherical-earth helpers used by the engagement
// engine: bearings, haversine distances, great-circle projection and
// per-tick kinematic stepping.
//
// All functions take and return degrees. Distances are kilometers unless a
// name says otherwise.
package geo

import "math"

const (
	// EarthRadiusKm is the fixed sphere radius used for every distance.
	EarthRadiusKm = 6371.0

	// NauticalMilesToMeters converts nautical miles to meters.
	NauticalMilesToMeters = 1852.0

	// KilometersToNauticalMiles converts kilometers to nautical miles.
	KilometersToNauticalMiles = 0.539957

	// DegreesPerNauticalMile is the flat approximation used for detection
	// circles (one degree is roughly sixty nautical miles).
	DegreesPerNauticalMile = 1.0 / 60.0
)

// Coordinates is a [latitude, longitude] pair. It marshals as a two element
// JSON array, which is how routes are stored on the wire.
type Coordinates [2]float64

// Latitude returns the latitude in degrees.
func (c Coordinates) Latitude() float64 { return c[0] }

// Longitude returns the longitude in degrees.
func (c Coordinates) Longitude() float64 { return c[1] }

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// Bearing returns the initial great-circle bearing from point 1 to point 2,
// normalized to [0, 360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := toRadians(lat1)
	φ2 := toRadians(lat2)
	Δλ := toRadians(lon2) - toRadians(lon1)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

// Distance returns the haversine distance in kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := toRadians(lat1)
	φ2 := toRadians(lat2)
	Δφ := toRadians(lat2 - lat1)
	Δλ := toRadians(lon2 - lon1)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceNm returns the great-circle distance in nautical miles, converted
// through meters the same way the engagement rules do.
func DistanceNm(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(lat1, lon1, lat2, lon2) * 1000 / NauticalMilesToMeters
}

// TerminalPoint projects distanceKm along bearingDeg from (lat, lon).
func TerminalPoint(lat, lon, distanceKm, bearingDeg float64) (float64, float64) {
	θ := toRadians(bearingDeg)
	φ1 := toRadians(lat)
	λ1 := toRadians(lon)
	δ := distanceKm / EarthRadiusKm

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(
		math.Sin(θ)*math.Sin(δ)*math.Cos(φ1),
		math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2),
	)

	return toDegrees(φ2), toDegrees(λ2)
}

// NextPosition returns the point reached after one tick (one simulated
// second) of travel at speed toward (lat2, lon2). Speed is in knots.
//
// The total leg is split into whole seconds and one second's share is
// projected along the initial bearing. When the origin and destination
// coincide, or speed is zero, the origin is returned unchanged. When the
// destination is less than one second away it is returned directly.
func NextPosition(lat1, lon1, lat2, lon2, speed float64) (float64, float64) {
	totalDistance := Distance(lat1, lon1, lat2, lon2)
	speed = math.Abs(speed)
	if totalDistance == 0 || speed == 0 {
		return lat1, lon1
	}

	totalTimeHours := totalDistance * KilometersToNauticalMiles / speed
	totalTimeSeconds := math.Floor(totalTimeHours * 3600)
	if totalTimeSeconds < 1 {
		return lat2, lon2
	}

	heading := Bearing(lat1, lon1, lat2, lon2)
	legDistance := totalDistance / totalTimeSeconds
	return TerminalPoint(lat1, lon1, legDistance, heading)
}

// WithinRadiusDegrees reports whether (lat, lon) lies strictly inside the
// flat circle of radiusDeg degrees centered on (centerLat, centerLon).
func WithinRadiusDegrees(centerLat, centerLon, radiusDeg, lat, lon float64) bool {
	if radiusDeg <= 0 {
		return false
	}
	return math.Hypot(lat-centerLat, lon-centerLon) < radiusDeg
}
