package geo

import (
	"math"
)

// minSpanDegrees floors degenerate route extents (a single point or a
// perfectly straight line) so projection never divides by zero.
const minSpanDegrees = 1e-6

// Project maps coordinates onto a width x height pixel viewbox using an
// equirectangular projection centered on the route's mid-latitude, with
// cosine correction for longitude compression. The route is uniformly
// scaled to fit the padded viewbox while preserving aspect ratio, and Y
// is flipped so geographic north maps to smaller Y values.
func Project(coords []Coordinate, width, height, padding float64) []Point {
	if len(coords) == 0 {
		return nil
	}

	b := BoundingBox(coords)
	midLat := (b.MinLat + b.MaxLat) / 2
	midLng := (b.MinLng + b.MaxLng) / 2
	cosLat := math.Cos(midLat * math.Pi / 180)

	spanX := (b.MaxLng - b.MinLng) * cosLat
	spanY := b.MaxLat - b.MinLat
	if spanX < minSpanDegrees {
		spanX = minSpanDegrees
	}
	if spanY < minSpanDegrees {
		spanY = minSpanDegrees
	}

	usableW := width * (1 - 2*padding)
	usableH := height * (1 - 2*padding)
	scale := math.Min(usableW/spanX, usableH/spanY)

	points := make([]Point, len(coords))
	for i, c := range coords {
		dx := (c.Lng - midLng) * cosLat
		dy := c.Lat - midLat
		points[i] = Point{
			X: width/2 + dx*scale,
			Y: height/2 - dy*scale,
		}
	}
	return points
}
