// Package units provides distance-unit conversions and pace/duration
// formatting shared by the analytics engines.
package units

import (
	"fmt"
	"math"
)

// Unit is the distance unit a runner configures for splits and pace.
type Unit string

// Supported distance units.
const (
	Miles      Unit = "mi"
	Kilometers Unit = "km"
)

// Unit distances in meters.
const (
	MileMeters      = 1609.34
	KilometerMeters = 1000.0
)

// Meters returns the length of one unit in meters. Unknown units fall
// back to kilometers.
func (u Unit) Meters() float64 {
	if u == Miles {
		return MileMeters
	}
	return KilometerMeters
}

// PaceMinPerUnit converts a distance in meters and a time in seconds to a
// pace in minutes per unit. Zero distance or time yields 0.
func PaceMinPerUnit(distanceMeters float64, timeSeconds int, u Unit) float64 {
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return 0
	}
	unitCount := distanceMeters / u.Meters()
	return (float64(timeSeconds) / 60) / unitCount
}

// FormatPace renders a pace in minutes-per-unit as "M:SS". Non-positive
// or non-finite paces render as "—".
func FormatPace(minPerUnit float64) string {
	if minPerUnit <= 0 || math.IsNaN(minPerUnit) || math.IsInf(minPerUnit, 0) {
		return "—"
	}
	totalSec := int(math.Round(minPerUnit * 60))
	return fmt.Sprintf("%d:%02d", totalSec/60, totalSec%60)
}

// FormatPaceDelta renders an absolute pace difference as "M:SS" or "Ns"
// for sub-minute deltas.
func FormatPaceDelta(minPerUnit float64) string {
	sec := int(math.Round(math.Abs(minPerUnit) * 60))
	if sec < 60 {
		return fmt.Sprintf("%ds", sec)
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// FormatDistance renders a distance in meters in the given unit with one
// decimal, e.g. "5.2 km".
func FormatDistance(meters float64, u Unit) string {
	if meters <= 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f %s", meters/u.Meters(), u)
}

// FormatDuration renders seconds as "H:MM:SS" or "M:SS".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "—"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
