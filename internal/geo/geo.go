// Package geo holds the distance math behind the nearby-stray queries: the
// Haversine great-circle formula, the bounding-box prefilter derived from a
// radius, and the matching SQL fragments used by the Postgres queries. Keeping
// both forms here means the Go functions and the SQL compute the same thing
// and the formula stays unit-testable without a database.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the spherical-Earth radius used throughout.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat approximates one degree of latitude; one degree of longitude
// shrinks by cos(lat).
const kmPerDegreeLat = 111.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// ValidLat reports whether lat is within [-90, 90].
func ValidLat(lat float64) bool { return lat >= -90 && lat <= 90 }

// ValidLng reports whether lng is within [-180, 180].
func ValidLng(lng float64) bool { return lng >= -180 && lng <= 180 }

// Haversine returns the great-circle distance in kilometers between two points.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns the lat/lng envelope that contains every point within
// radiusKm of center. Near the poles the longitude span degenerates; it is
// clamped to the full range so the box stays a valid prefilter.
func BoundingBox(center Point, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / kmPerDegreeLat
	minLat = center.Lat - dLat
	maxLat = center.Lat + dLat

	cosLat := math.Cos(radians(center.Lat))
	if cosLat < 1e-6 {
		return minLat, maxLat, -180, 180
	}
	dLng := radiusKm / (kmPerDegreeLat * cosLat)
	minLng = center.Lng - dLng
	maxLng = center.Lng + dLng
	if minLng < -180 || maxLng > 180 {
		minLng, maxLng = -180, 180
	}
	return minLat, maxLat, minLng, maxLng
}

// HaversineSQL returns a Postgres expression computing the great-circle
// distance in kilometers between the given lat/lng columns and a center point
// supplied as three bind parameters: center lat, center lng, center lat again.
func HaversineSQL(latCol, lngCol string) string {
	return fmt.Sprintf(
		"(%f * acos(least(1.0, cos(radians(?)) * cos(radians(%s)) * cos(radians(%s) - radians(?)) + sin(radians(?)) * sin(radians(%s)))))",
		EarthRadiusKm, latCol, lngCol, latCol,
	)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
