package geo

import (
	"math"
)

// Simplify reduces a coordinate sequence using recursive Douglas-Peucker
// line simplification. Perpendicular distances are measured in raw lat/lng
// space against the straight chord between the recursion endpoints; the
// first and last point of every sub-range are always retained. Inputs of
// two points or fewer are returned unchanged.
func Simplify(coords []Coordinate, epsilon float64) []Coordinate {
	if len(coords) <= 2 {
		return coords
	}

	// Find the point with the greatest perpendicular distance from the
	// chord between the first and last point.
	maxDist := 0.0
	maxIdx := 0
	first := coords[0]
	last := coords[len(coords)-1]

	for i := 1; i < len(coords)-1; i++ {
		d := perpendicularDistance(coords[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []Coordinate{first, last}
	}

	left := Simplify(coords[:maxIdx+1], epsilon)
	right := Simplify(coords[maxIdx:], epsilon)

	// The split point appears at the end of left and the start of right;
	// keep it once. Copy into a fresh slice so the input is never mutated.
	merged := make([]Coordinate, 0, len(left)+len(right)-1)
	merged = append(merged, left[:len(left)-1]...)
	merged = append(merged, right...)
	return merged
}

// perpendicularDistance returns the distance in degrees from p to the line
// through a and b. Degenerate chords fall back to point distance.
func perpendicularDistance(p, a, b Coordinate) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng

	length := math.Sqrt(dLat*dLat + dLng*dLng)
	if length == 0 {
		return math.Sqrt((p.Lat-a.Lat)*(p.Lat-a.Lat) + (p.Lng-a.Lng)*(p.Lng-a.Lng))
	}

	return math.Abs(dLat*(a.Lng-p.Lng)-dLng*(a.Lat-p.Lat)) / length
}
