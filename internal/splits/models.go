// Package splits converts raw per-unit splits and laps into normalized
// pace data, grades pacing consistency, detects split patterns and
// interval structure, and composes the per-activity split analysis.
package splits

import (
	"time"

	"github.com/stridelab/stridelab/internal/units"
)

// Grade labels pacing consistency from tightest to loosest.
type Grade string

// Consistency grades.
const (
	GradeGold   Grade = "gold"
	GradeSilver Grade = "silver"
	GradeBronze Grade = "bronze"
	GradeIron   Grade = "iron"
)

// PatternKind classifies the shape of an activity's pacing.
type PatternKind string

// Split patterns, in detection precedence order.
const (
	PatternFade     PatternKind = "fade"
	PatternNegative PatternKind = "negative"
	PatternPositive PatternKind = "positive"
	PatternEven     PatternKind = "even"
	PatternVariable PatternKind = "variable"
)

// ProcessedSplit is a normalized fixed-distance split.
type ProcessedSplit struct {
	Number           int      `json:"number"`
	DistanceMeters   float64  `json:"distanceMeters"`
	MovingTime       int      `json:"movingTime"`
	PaceMinPerUnit   float64  `json:"paceMinPerUnit"`
	IsFastest        bool     `json:"isFastest"`
	IsSlowest        bool     `json:"isSlowest"`
	PaceDeviationPct float64  `json:"paceDeviationPct"`
	AvgHR            *float64 `json:"avgHR,omitempty"`
	ElevationDelta   *float64 `json:"elevationDelta,omitempty"`
}

// ProcessedLap is a normalized lap. AvgCadence is steps per minute,
// doubled from the tracker's half-cycle convention; nil when the tracker
// reported none.
type ProcessedLap struct {
	Number           int      `json:"number"`
	Name             string   `json:"name,omitempty"`
	DistanceMeters   float64  `json:"distanceMeters"`
	MovingTime       int      `json:"movingTime"`
	PaceMinPerUnit   float64  `json:"paceMinPerUnit"`
	PaceDeviationPct float64  `json:"paceDeviationPct"`
	AvgHR            *float64 `json:"avgHR,omitempty"`
	AvgCadence       *float64 `json:"avgCadence,omitempty"`
}

// Consistency summarizes pace variation across splits.
type Consistency struct {
	Grade                  Grade   `json:"grade"`
	CoefficientOfVariation float64 `json:"coefficientOfVariation"`
	MeanPace               float64 `json:"meanPace"`
	RangeSec               int     `json:"rangeSec"`
}

// Pattern describes the detected pacing shape.
type Pattern struct {
	Pattern     PatternKind `json:"pattern"`
	HalfDiffPct float64     `json:"halfDiffPct"`
	Description string      `json:"description"`
}

// Intervals describes detected interval structure across laps.
type Intervals struct {
	IsInterval bool  `json:"isInterval"`
	WorkLaps   []int `json:"workLaps,omitempty"`
}

// Insight is one commentary line derived from the split analysis.
type Insight struct {
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Message   string `json:"message"`
}

// Analysis is the full per-activity split analysis, cached per activity
// ID by overwrite.
type Analysis struct {
	ActivityID  int64            `json:"activityId"`
	Unit        units.Unit       `json:"unit"`
	Splits      []ProcessedSplit `json:"splits"`
	Laps        []ProcessedLap   `json:"laps,omitempty"`
	Consistency Consistency      `json:"consistency"`
	Pattern     Pattern          `json:"pattern"`
	Intervals   *Intervals       `json:"intervals,omitempty"`
	Insights    []Insight        `json:"insights"`
	AnalyzedAt  time.Time        `json:"analyzedAt"`
}
