package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000

const degToRad = math.Pi / 180

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle distance between two points in meters,
// computed with the Haversine formula. The result is symmetric and always a
// finite non-negative number for valid coordinates.
func Distance(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad

	sinDlat := math.Sin(dLat / 2)
	sinDlng := math.Sin(dLng / 2)

	h := sinDlat*sinDlat + sinDlng*sinDlng*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadius * c
}
