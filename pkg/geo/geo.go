// Package geo provides distance calculations and the geocoding contract.
package geo

import (
	"context"
	"math"
)

// EarthRadiusKm is the mean radius of the Earth.
const EarthRadiusKm = 6371.0

// DefaultRadiusKm is the search radius used when a request gives none.
const DefaultRadiusKm = 2.0

// Band is a distance band used by the P1 registration rules.
type Band string

const (
	BandWithin1Km Band = "within_1km"
	Band1To2Km    Band = "1_to_2km"
	BandBeyond2Km Band = "beyond_2km"
)

// Location is a geocoded address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Geocoder resolves a free-text Singapore address to a location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// BandFor maps a distance in kilometers to its registration band.
func BandFor(km float64) Band {
	switch {
	case km <= 1:
		return BandWithin1Km
	case km <= 2:
		return Band1To2Km
	default:
		return BandBeyond2Km
	}
}

// Priority is the registration priority implied by a band: 1 within 1km,
// 2 between 1 and 2km, 3 beyond.
func (b Band) Priority() int {
	switch b {
	case BandWithin1Km:
		return 1
	case Band1To2Km:
		return 2
	default:
		return 3
	}
}
