package splits

import (
	"math"

	"github.com/stridelab/stridelab/internal/activity"
	"github.com/stridelab/stridelab/internal/units"
)

// partialSplitMinFraction drops trailing partial splits shorter than
// this fraction of the nominal unit distance.
const partialSplitMinFraction = 0.4

// ProcessSplits normalizes raw splits into pace data: partial splits are
// filtered out, the single fastest and slowest split are flagged (ties
// broken by first occurrence) and each split's deviation from the mean
// pace is computed. Fewer than two raw splits yields nil.
func ProcessSplits(raw []activity.Split, unit units.Unit) []ProcessedSplit {
	if len(raw) < 2 {
		return nil
	}

	minDistance := partialSplitMinFraction * unit.Meters()
	processed := make([]ProcessedSplit, 0, len(raw))
	for _, s := range raw {
		if s.DistanceMeters < minDistance {
			continue
		}
		processed = append(processed, ProcessedSplit{
			Number:         len(processed) + 1,
			DistanceMeters: s.DistanceMeters,
			MovingTime:     s.MovingTime,
			PaceMinPerUnit: units.PaceMinPerUnit(s.DistanceMeters, s.MovingTime, unit),
			AvgHR:          s.AverageHeartrate,
			ElevationDelta: s.ElevationDifference,
		})
	}
	if len(processed) == 0 {
		return nil
	}

	flagExtremesAndDeviation(processed)
	return processed
}

// ProcessLaps normalizes raw laps analogously to splits. Cadence is
// doubled from the tracker's half-cycle convention; a missing cadence
// stays nil rather than defaulting to zero.
func ProcessLaps(raw []activity.Lap, unit units.Unit) []ProcessedLap {
	if len(raw) == 0 {
		return nil
	}

	processed := make([]ProcessedLap, 0, len(raw))
	for i, l := range raw {
		p := ProcessedLap{
			Number:         i + 1,
			Name:           l.Name,
			DistanceMeters: l.DistanceMeters,
			MovingTime:     l.MovingTime,
			PaceMinPerUnit: units.PaceMinPerUnit(l.DistanceMeters, l.MovingTime, unit),
			AvgHR:          l.AverageHeartrate,
		}
		if l.AverageCadence != nil {
			spm := *l.AverageCadence * 2
			p.AvgCadence = &spm
		}
		processed = append(processed, p)
	}

	// Deviation from the mean pace across laps with valid pace.
	mean := meanLapPace(processed)
	if mean > 0 {
		for i := range processed {
			if processed[i].PaceMinPerUnit > 0 {
				processed[i].PaceDeviationPct = (processed[i].PaceMinPerUnit - mean) / mean * 100
			}
		}
	}

	return processed
}

func flagExtremesAndDeviation(splits []ProcessedSplit) {
	fastest, slowest := -1, -1
	var sum float64
	var n int
	for i := range splits {
		pace := splits[i].PaceMinPerUnit
		if pace <= 0 {
			continue
		}
		sum += pace
		n++
		if fastest == -1 || pace < splits[fastest].PaceMinPerUnit {
			fastest = i
		}
		if slowest == -1 || pace > splits[slowest].PaceMinPerUnit {
			slowest = i
		}
	}
	if n == 0 {
		return
	}

	splits[fastest].IsFastest = true
	splits[slowest].IsSlowest = true

	mean := sum / float64(n)
	for i := range splits {
		if splits[i].PaceMinPerUnit > 0 {
			splits[i].PaceDeviationPct = (splits[i].PaceMinPerUnit - mean) / mean * 100
		}
	}
}

func meanLapPace(laps []ProcessedLap) float64 {
	var sum float64
	var n int
	for _, l := range laps {
		if l.PaceMinPerUnit > 0 {
			sum += l.PaceMinPerUnit
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// splitPaces extracts the valid paces from processed splits.
func splitPaces(splits []ProcessedSplit) []float64 {
	paces := make([]float64, 0, len(splits))
	for _, s := range splits {
		if s.PaceMinPerUnit > 0 {
			paces = append(paces, s.PaceMinPerUnit)
		}
	}
	return paces
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
