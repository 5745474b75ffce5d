package route

import (
	"github.com/stridelab/stridelab/internal/units"
	"github.com/stridelab/stridelab/pkg/geo"
)

const (
	// DefaultMarkerInterval places a marker every mile.
	DefaultMarkerInterval = units.MileMeters

	// maxMarkers caps marker emission for ultra-distance activities.
	maxMarkers = 50
)

// Marker is a distance milestone along a route.
type Marker struct {
	Number     int            `json:"number"`
	Meters     float64        `json:"meters"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// DistanceMarkers walks the route's segments and emits a marker every
// intervalMeters, interpolated linearly within the straddling segment.
// An empty route yields no markers.
func DistanceMarkers(r *Route, intervalMeters float64) []Marker {
	if r == nil || r.TotalMeters <= 0 || intervalMeters <= 0 {
		return nil
	}

	var markers []Marker
	next := intervalMeters

	for _, seg := range r.Segments {
		for next <= seg.CumulativeMeters && len(markers) < maxMarkers {
			// Interpolate within the straddling segment.
			fraction := 0.0
			if seg.SegmentMeters > 0 {
				fraction = (next - (seg.CumulativeMeters - seg.SegmentMeters)) / seg.SegmentMeters
			}
			markers = append(markers, Marker{
				Number: len(markers) + 1,
				Meters: next,
				Coordinate: geo.Coordinate{
					Lat: seg.Start.Lat + fraction*(seg.End.Lat-seg.Start.Lat),
					Lng: seg.Start.Lng + fraction*(seg.End.Lng-seg.Start.Lng),
				},
			})
			next += intervalMeters
		}
		if len(markers) >= maxMarkers {
			break
		}
	}

	return markers
}
