// Package route builds full route descriptions (segments, cumulative
// distance, loop detection, SVG path) from encoded polylines, and owns
// the bounded local polyline cache.
package route

import (
	"fmt"
	"strings"

	"github.com/stridelab/stridelab/pkg/geo"
	"github.com/stridelab/stridelab/pkg/polyline"
)

const (
	// DefaultWidth and DefaultHeight are the default viewbox dimensions
	// for projected route rendering.
	DefaultWidth  = 400.0
	DefaultHeight = 300.0

	// DefaultPadding is the viewbox padding fraction on each edge.
	DefaultPadding = 0.1

	// DisplayEpsilon is the display-facing Douglas-Peucker tolerance.
	DisplayEpsilon = 0.0005

	// buildEpsilon is the tighter tolerance applied as a performance
	// guard when a raw decode exceeds maxRawPoints.
	buildEpsilon = 0.0001

	// maxRawPoints is the decode size above which simplification kicks in.
	maxRawPoints = 500

	// loopCloseRatio is the start-to-end straight-line distance over
	// total distance below which a route counts as a loop.
	loopCloseRatio = 0.15
)

// Segment is an ordered edge between two consecutive route coordinates.
type Segment struct {
	Start            geo.Coordinate `json:"start"`
	End              geo.Coordinate `json:"end"`
	SegmentMeters    float64        `json:"segmentMeters"`
	CumulativeMeters float64        `json:"cumulativeMeters"`
	// Progress is cumulative over total distance, in [0,1].
	Progress float64 `json:"progress"`
}

// Route is the full derived route description. It is ephemeral: always
// recomputed from a polyline string, never a source of truth.
type Route struct {
	Coordinates    []geo.Coordinate `json:"coordinates"`
	Points         []geo.Point      `json:"points"`
	SVGPath        string           `json:"svgPath"`
	Bounds         geo.Bounds       `json:"bounds"`
	TotalMeters    float64          `json:"totalMeters"`
	Segments       []Segment        `json:"segments"`
	BearingDegrees float64          `json:"bearingDegrees"`
	Start          geo.Coordinate   `json:"start"`
	End            geo.Coordinate   `json:"end"`
	IsLoop         bool             `json:"isLoop"`
}

// Build decodes a polyline and derives the full route description,
// projected into a width x height viewbox. Returns nil for an empty
// polyline or fewer than two decoded points.
func Build(encoded string, width, height float64) *Route {
	coords := polyline.Decode(encoded)
	if len(coords) < 2 {
		return nil
	}

	// Performance guard for very dense GPS traces.
	if len(coords) > maxRawPoints {
		coords = geo.Simplify(coords, buildEpsilon)
	}

	segments := make([]Segment, 0, len(coords)-1)
	total := 0.0
	for i := 1; i < len(coords); i++ {
		d := geo.Haversine(coords[i-1], coords[i])
		total += d
		segments = append(segments, Segment{
			Start:            coords[i-1],
			End:              coords[i],
			SegmentMeters:    d,
			CumulativeMeters: total,
		})
	}
	for i := range segments {
		if total > 0 {
			segments[i].Progress = segments[i].CumulativeMeters / total
		}
	}

	start := coords[0]
	end := coords[len(coords)-1]
	points := geo.Project(coords, width, height, DefaultPadding)

	return &Route{
		Coordinates:    coords,
		Points:         points,
		SVGPath:        svgPath(points),
		Bounds:         geo.BoundingBox(coords),
		TotalMeters:    total,
		Segments:       segments,
		BearingDegrees: geo.Bearing(start, end),
		Start:          start,
		End:            end,
		IsLoop:         total > 0 && geo.Haversine(start, end)/total < loopCloseRatio,
	}
}

// svgPath renders projected points as "M x y L x y ..." with 2-decimal
// coordinate precision.
func svgPath(points []geo.Point) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		fmt.Fprintf(&b, " L %.2f %.2f", p.X, p.Y)
	}
	return b.String()
}
