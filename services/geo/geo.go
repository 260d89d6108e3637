package geo

import (
	"fmt"
	"math"

	"fixmate/models"
)

// Default ETA policy. A dispatch never arrives faster than the floor; travel
// time scales linearly with road-less great-circle distance. Both knobs are
// tunable policy, not correctness contract.
const (
	DefaultBaseEtaMinutes = 10
	DefaultMinutesPerKm   = 2.0
)

// InvalidCoordinatesError is returned when a lat/lng pair is NaN or out of range.
type InvalidCoordinatesError struct {
	Point models.GeoPoint
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates: %v", e.Point.Coordinates)
}

// Scorer computes distance and estimated time of arrival between two points.
// Pure and deterministic; safe for concurrent use.
type Scorer struct {
	BaseEtaMinutes int
	MinutesPerKm   float64
}

// NewScorer returns a Scorer with the given ETA coefficients, falling back to
// the defaults for non-positive values.
func NewScorer(baseEtaMinutes int, minutesPerKm float64) *Scorer {
	if baseEtaMinutes <= 0 {
		baseEtaMinutes = DefaultBaseEtaMinutes
	}
	if minutesPerKm <= 0 {
		minutesPerKm = DefaultMinutesPerKm
	}
	return &Scorer{BaseEtaMinutes: baseEtaMinutes, MinutesPerKm: minutesPerKm}
}

// DistanceAndETA returns the great-circle distance in km between a and b and a
// monotonic ETA estimate in minutes.
func (s *Scorer) DistanceAndETA(a, b models.GeoPoint) (float64, int, error) {
	if !a.Valid() {
		return 0, 0, &InvalidCoordinatesError{Point: a}
	}
	if !b.Valid() {
		return 0, 0, &InvalidCoordinatesError{Point: b}
	}
	distanceKm := Haversine(a.Lat(), a.Lng(), b.Lat(), b.Lng())
	eta := s.BaseEtaMinutes + int(math.Round(distanceKm*s.MinutesPerKm))
	return distanceKm, eta, nil
}

// Haversine calculates the great-circle distance (in km) between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
