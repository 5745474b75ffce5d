// Package geo provides spherical and planar geometry primitives for GPS
// route processing: great-circle distance, bearings, bounding boxes,
// line simplification and viewbox projection.
package geo

import (
	"math"
)

// EarthRadiusMeters is the spherical-earth radius used for all
// great-circle calculations.
const EarthRadiusMeters = 6371000

// Coordinate represents a geographic point in WGS84 degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point represents a projected planar coordinate in a pixel viewbox.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned bounding box in degrees.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Haversine calculates the great-circle distance between two coordinates
// in meters using a spherical-earth approximation.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Bearing calculates the initial compass bearing from a to b in degrees,
// where 0 is north and 90 is east. The result is in [0, 360).
func Bearing(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

var compassDirections = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass converts a bearing in degrees to an eight-way compass direction.
// 360 wraps back to "N".
func Compass(degrees float64) string {
	idx := int(math.Round(degrees/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassDirections[idx]
}

// BoundingBox computes the bounding box of a coordinate set in a single
// pass. For a one-point input min and max coincide on both axes.
func BoundingBox(coords []Coordinate) Bounds {
	if len(coords) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: coords[0].Lat,
		MaxLat: coords[0].Lat,
		MinLng: coords[0].Lng,
		MaxLng: coords[0].Lng,
	}
	for _, c := range coords[1:] {
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
		b.MinLng = math.Min(b.MinLng, c.Lng)
		b.MaxLng = math.Max(b.MaxLng, c.Lng)
	}
	return b
}

// Centroid returns the arithmetic mean of the coordinate set, or the zero
// coordinate for an empty input.
func Centroid(coords []Coordinate) Coordinate {
	if len(coords) == 0 {
		return Coordinate{}
	}

	var sumLat, sumLng float64
	for _, c := range coords {
		sumLat += c.Lat
		sumLng += c.Lng
	}
	n := float64(len(coords))
	return Coordinate{Lat: sumLat / n, Lng: sumLng / n}
}
