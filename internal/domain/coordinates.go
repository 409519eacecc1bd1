package domain

import "math"

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// HaversineKm returns the great-circle distance to other in kilometers.
func (c Coordinates) HaversineKm(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
