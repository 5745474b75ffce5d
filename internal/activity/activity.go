// Package activity defines the tracker-supplied activity model and the
// closed running-activity classification.
package activity

import (
	"time"
)

// Activity is the shape supplied by the fitness-tracker export. Optional
// fields use pointers so absence is distinguishable from zero.
type Activity struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	SportType      string    `json:"sport_type"`
	DistanceMeters float64   `json:"distance"`
	MovingTime     int       `json:"moving_time"`
	ElapsedTime    int       `json:"elapsed_time"`
	StartDateLocal time.Time `json:"start_date_local"`

	Map *Map `json:"map,omitempty"`

	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	AverageCadence   *float64 `json:"average_cadence,omitempty"`

	SplitsMetric   []Split `json:"splits_metric,omitempty"`
	SplitsStandard []Split `json:"splits_standard,omitempty"`
	Laps           []Lap   `json:"laps,omitempty"`
}

// Map carries the activity's encoded polylines.
type Map struct {
	Polyline        string `json:"polyline,omitempty"`
	SummaryPolyline string `json:"summary_polyline,omitempty"`
}

// Split is one fixed-distance (mile/km) segment of an activity as
// reported by the tracker.
type Split struct {
	Number              int      `json:"split"`
	DistanceMeters      float64  `json:"distance"`
	MovingTime          int      `json:"moving_time"`
	ElapsedTime         int      `json:"elapsed_time"`
	AverageHeartrate    *float64 `json:"average_heartrate,omitempty"`
	ElevationDifference *float64 `json:"elevation_difference,omitempty"`
}

// Lap is a user- or device-defined segment, not necessarily of fixed
// distance. Cadence is reported in the tracker's half-cycle convention.
type Lap struct {
	Number              int      `json:"lap_index"`
	Name                string   `json:"name,omitempty"`
	DistanceMeters      float64  `json:"distance"`
	MovingTime          int      `json:"moving_time"`
	ElapsedTime         int      `json:"elapsed_time"`
	AverageHeartrate    *float64 `json:"average_heartrate,omitempty"`
	AverageCadence      *float64 `json:"average_cadence,omitempty"`
	ElevationDifference *float64 `json:"total_elevation_gain,omitempty"`
}

// runTypes is the closed set of type/sport_type values classified as
// running activities.
var runTypes = map[string]bool{
	"Run":        true,
	"TrailRun":   true,
	"VirtualRun": true,
}

// IsRun reports whether the activity is a running activity. Both the
// legacy type field and the newer sport_type field are consulted.
func (a *Activity) IsRun() bool {
	return runTypes[a.Type] || runTypes[a.SportType]
}

// Polyline returns the activity's own polyline, preferring the detailed
// one over the summary. Empty when the activity carries no map.
func (a *Activity) Polyline() string {
	if a.Map == nil {
		return ""
	}
	if a.Map.Polyline != "" {
		return a.Map.Polyline
	}
	return a.Map.SummaryPolyline
}
