package models

import (
	"github.com/stridelab/stridelab/internal/route"
)

// RouteSummary is one recognized route and its effort count.
type RouteSummary struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	DistanceMeters float64    `json:"distanceMeters"`
	TotalEfforts   int        `json:"totalEfforts"`
	FirstSeenAt    *Timestamp `json:"firstSeenAt,omitempty"`
	LastEffortAt   *Timestamp `json:"lastEffortAt,omitempty"`
}

// RouteListResponse is the payload for the route listing endpoint.
type RouteListResponse struct {
	Routes []RouteSummary `json:"routes"`
}

// RenderRouteRequest asks for render-ready geometry for an encoded
// polyline. Width and height default to the render defaults when zero.
type RenderRouteRequest struct {
	Polyline string  `json:"polyline"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	// MarkerIntervalMeters controls distance marker spacing; zero means
	// one marker per configured distance unit.
	MarkerIntervalMeters float64 `json:"markerIntervalMeters,omitempty"`
}

// RenderRouteResponse carries the computed route geometry plus distance
// markers.
type RenderRouteResponse struct {
	Route   *route.Route   `json:"route"`
	Markers []route.Marker `json:"markers,omitempty"`
}
