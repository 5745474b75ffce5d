// Package effort fingerprints recurring running routes, matches new
// activities against them and ranks each effort's performance against
// the route's history.
package effort

import (
	"time"

	"github.com/stridelab/stridelab/pkg/geo"
)

// Tier is a ranked achievement label for an effort's relative pace
// within its bundle.
type Tier string

// Achievement tiers. TierNone means no tier was earned.
const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierNone   Tier = ""
)

// Sentiment qualifies an insight as good, bad or informational news.
type Sentiment string

// Insight sentiments.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Category identifies the signal an insight was derived from.
type Category string

// Insight categories.
const (
	CategoryPace       Category = "pace"
	CategoryHeartRate  Category = "heartrate"
	CategoryCadence    Category = "cadence"
	CategoryEfficiency Category = "efficiency"
	CategoryOverall    Category = "overall"
)

// Insight is one human-readable comparative observation about an effort.
type Insight struct {
	Category  Category  `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
	Message   string    `json:"message"`
}

// Fingerprint is the immutable identity of a recurring route. The
// reference distance and centroid are not updated as new efforts accrue;
// matching tolerance absorbs drift.
type Fingerprint struct {
	ID                      string  `json:"id"`
	StartLat                float64 `json:"startLat"`
	StartLng                float64 `json:"startLng"`
	EndLat                  float64 `json:"endLat"`
	EndLng                  float64 `json:"endLng"`
	CentroidLat             float64 `json:"centroidLat"`
	CentroidLng             float64 `json:"centroidLng"`
	ReferenceDistanceMeters float64 `json:"referenceDistanceMeters"`
	Name                    string  `json:"name"`
}

// StartCoordinate returns the fingerprint's start point.
func (f Fingerprint) StartCoordinate() geo.Coordinate {
	return geo.Coordinate{Lat: f.StartLat, Lng: f.StartLng}
}

// EndCoordinate returns the fingerprint's end point.
func (f Fingerprint) EndCoordinate() geo.Coordinate {
	return geo.Coordinate{Lat: f.EndLat, Lng: f.EndLng}
}

// CentroidCoordinate returns the fingerprint's centroid.
func (f Fingerprint) CentroidCoordinate() geo.Coordinate {
	return geo.Coordinate{Lat: f.CentroidLat, Lng: f.CentroidLng}
}

// EffortRecord is one run's performance on a fingerprinted route.
// AvgCadence is stored in steps per minute, already doubled from the
// tracker's half-cycle convention.
type EffortRecord struct {
	ActivityID     int64     `json:"activityId"`
	DateLocal      time.Time `json:"dateLocal"`
	PaceMinPerUnit float64   `json:"paceMinPerUnit"`
	AvgHR          *float64  `json:"avgHR,omitempty"`
	AvgCadence     *float64  `json:"avgCadence,omitempty"`
}

// Bundle aggregates all efforts matched to one fingerprint. Efforts are
// kept in chronological order by activity local start date regardless of
// processing order.
type Bundle struct {
	Fingerprint Fingerprint    `json:"fingerprint"`
	Efforts     []EffortRecord `json:"efforts"`
}

// Recognition is the per-activity output of effort processing. It is
// cached per activity ID; reprocessing the same activity returns the
// cached value unchanged.
type Recognition struct {
	ActivityID     int64     `json:"activityId"`
	RouteID        string    `json:"routeId"`
	RouteName      string    `json:"routeName"`
	EffortNumber   int       `json:"effortNumber"`
	TotalEfforts   int       `json:"totalEfforts"`
	PaceTier       Tier      `json:"paceTier,omitempty"`
	EfficiencyTier Tier      `json:"efficiencyTier,omitempty"`
	Insights       []Insight `json:"insights"`
	ProcessedAt    time.Time `json:"processedAt"`
}
