package region

import "math"

const earthRadiusMeters = 6371000.0

// Region is a fixed circular geofence around a point of interest. Immutable
// after construction; one well-known instance per deployment (the office).
type Region struct {
	Identifier string
	Latitude   float64
	Longitude  float64
	RadiusM    float64
}

// New returns a circular region centered on the given coordinate.
func New(identifier string, lat, lon, radiusM float64) Region {
	return Region{Identifier: identifier, Latitude: lat, Longitude: lon, RadiusM: radiusM}
}

// Contains reports whether the coordinate lies inside the region boundary.
func (r Region) Contains(lat, lon float64) bool {
	return distanceMeters(r.Latitude, r.Longitude, lat, lon) <= r.RadiusM
}

// distanceMeters is the haversine great-circle distance between two
// coordinates.
func distanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
