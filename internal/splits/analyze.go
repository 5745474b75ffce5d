package splits

import (
	"fmt"
	"math"
	"sort"
)

// Consistency grade boundaries, as half-open CV intervals: a CV exactly
// on a boundary lands in the looser grade.
const (
	cvGoldBelow   = 4.0
	cvSilverBelow = 7.0
	cvBronzeBelow = 12.0
)

// Pattern detection tuning.
const (
	minSplitsForPattern = 4

	// fadeThresholdPct is the final-quarter slowdown that counts as a
	// fade regardless of the overall half comparison.
	fadeThresholdPct = 8.0

	// halfMeaningfulPct separates negative/positive splits from noise.
	halfMeaningfulPct = 2.0

	// halfEvenPct is the band within which halves count as even.
	halfEvenPct = 1.0
)

// Interval detection tuning.
const (
	minLapsForIntervals = 3

	// workDeviationPct: a lap this much faster than the mean counts as
	// a work segment.
	workDeviationPct = -8.0

	// workMaxTimeFraction: work laps must also be short relative to the
	// median lap, separating repeats from warmup and cooldown.
	workMaxTimeFraction = 0.8

	minWorkLaps = 2
)

// hrDriftThresholdPct is the first-to-second-half HR rise worth calling
// out in the insight list.
const hrDriftThresholdPct = 5.0

// AnalyzeConsistency grades pacing consistency by coefficient of
// variation over the processed splits' paces. Fewer than two usable
// splits is a defined degenerate case: grade iron, CV 0.
func AnalyzeConsistency(splits []ProcessedSplit) Consistency {
	paces := splitPaces(splits)
	if len(paces) < 2 {
		return Consistency{Grade: GradeIron}
	}

	m := mean(paces)
	sd := stddev(paces, m)
	cv := 0.0
	if m > 0 {
		cv = sd / m * 100
	}

	minPace, maxPace := paces[0], paces[0]
	for _, p := range paces[1:] {
		minPace = math.Min(minPace, p)
		maxPace = math.Max(maxPace, p)
	}

	var grade Grade
	switch {
	case cv < cvGoldBelow:
		grade = GradeGold
	case cv < cvSilverBelow:
		grade = GradeSilver
	case cv < cvBronzeBelow:
		grade = GradeBronze
	default:
		grade = GradeIron
	}

	return Consistency{
		Grade:                  grade,
		CoefficientOfVariation: cv,
		MeanPace:               m,
		RangeSec:               int(math.Round((maxPace - minPace) * 60)),
	}
}

// DetectPattern classifies the pacing shape. A sharp slowdown
// concentrated in the final quarter is a fade and takes precedence over
// the half comparison. Fewer than four splits is always variable.
func DetectPattern(splits []ProcessedSplit) Pattern {
	paces := splitPaces(splits)
	n := len(paces)
	if n < minSplitsForPattern {
		return Pattern{
			Pattern:     PatternVariable,
			Description: "Not enough splits to detect a pacing pattern.",
		}
	}

	mid := n / 2
	firstHalf := mean(paces[:mid])
	secondHalf := mean(paces[mid:])
	halfDiffPct := 0.0
	if firstHalf > 0 {
		halfDiffPct = (secondHalf - firstHalf) / firstHalf * 100
	}

	// Fade check first: a collapse in the final quarter can hide inside
	// an otherwise even half comparison.
	q := n / 4
	if q < 1 {
		q = 1
	}
	finalQuarter := mean(paces[n-q:])
	rest := mean(paces[:n-q])
	if rest > 0 && (finalQuarter-rest)/rest*100 > fadeThresholdPct {
		return Pattern{
			Pattern:     PatternFade,
			HalfDiffPct: halfDiffPct,
			Description: "Sharp slowdown over the final stretch.",
		}
	}

	switch {
	case halfDiffPct <= -halfMeaningfulPct:
		return Pattern{
			Pattern:     PatternNegative,
			HalfDiffPct: halfDiffPct,
			Description: "Negative split: the second half was faster.",
		}
	case halfDiffPct >= halfMeaningfulPct:
		return Pattern{
			Pattern:     PatternPositive,
			HalfDiffPct: halfDiffPct,
			Description: "Positive split: the first half was faster.",
		}
	case math.Abs(halfDiffPct) <= halfEvenPct:
		return Pattern{
			Pattern:     PatternEven,
			HalfDiffPct: halfDiffPct,
			Description: "Even pacing across both halves.",
		}
	default:
		return Pattern{
			Pattern:     PatternVariable,
			HalfDiffPct: halfDiffPct,
			Description: "No clear pacing pattern.",
		}
	}
}

// DetectIntervals looks for interval structure in lap data: short laps
// run notably faster than the mean, distinct from longer steady laps
// such as warmup and cooldown. Returns nil for fewer than three laps.
func DetectIntervals(laps []ProcessedLap) *Intervals {
	if len(laps) < minLapsForIntervals {
		return nil
	}

	times := make([]int, 0, len(laps))
	for _, l := range laps {
		if l.MovingTime > 0 {
			times = append(times, l.MovingTime)
		}
	}
	if len(times) < minLapsForIntervals {
		return &Intervals{IsInterval: false}
	}
	sort.Ints(times)
	medianTime := times[len(times)/2]

	var workLaps []int
	for _, l := range laps {
		if l.PaceMinPerUnit <= 0 {
			continue
		}
		if l.PaceDeviationPct <= workDeviationPct && float64(l.MovingTime) <= workMaxTimeFraction*float64(medianTime) {
			workLaps = append(workLaps, l.Number)
		}
	}

	isInterval := len(workLaps) >= minWorkLaps && len(workLaps) < len(laps)
	if !isInterval {
		return &Intervals{IsInterval: false}
	}
	return &Intervals{IsInterval: true, WorkLaps: workLaps}
}

// buildInsights flattens the composed analyses into commentary.
func buildInsights(a *Analysis) []Insight {
	insights := make([]Insight, 0, 3)

	switch a.Consistency.Grade {
	case GradeGold:
		insights = append(insights, Insight{
			Category:  "consistency",
			Sentiment: "positive",
			Message:   fmt.Sprintf("Metronome-level pacing: %.1f%% variation across splits.", a.Consistency.CoefficientOfVariation),
		})
	case GradeSilver:
		insights = append(insights, Insight{
			Category:  "consistency",
			Sentiment: "positive",
			Message:   fmt.Sprintf("Solid pacing control: %.1f%% variation across splits.", a.Consistency.CoefficientOfVariation),
		})
	case GradeBronze:
		insights = append(insights, Insight{
			Category:  "consistency",
			Sentiment: "neutral",
			Message:   fmt.Sprintf("Moderate pace swings: %.1f%% variation across splits.", a.Consistency.CoefficientOfVariation),
		})
	case GradeIron:
		insights = append(insights, Insight{
			Category:  "consistency",
			Sentiment: "negative",
			Message:   "Large pace swings between splits.",
		})
	}

	switch a.Pattern.Pattern {
	case PatternNegative:
		insights = append(insights, Insight{
			Category:  "pattern",
			Sentiment: "positive",
			Message:   "You finished faster than you started, a textbook negative split.",
		})
	case PatternFade:
		insights = append(insights, Insight{
			Category:  "pattern",
			Sentiment: "negative",
			Message:   "Pace fell away sharply late in the run. Consider a more conservative start.",
		})
	case PatternPositive:
		insights = append(insights, Insight{
			Category:  "pattern",
			Sentiment: "neutral",
			Message:   "The first half was quicker than the second.",
		})
	case PatternEven:
		insights = append(insights, Insight{
			Category:  "pattern",
			Sentiment: "positive",
			Message:   "Even pacing from start to finish.",
		})
	}

	if drift, ok := hrDrift(a.Splits); ok && drift > hrDriftThresholdPct {
		insights = append(insights, Insight{
			Category:  "heartrate",
			Sentiment: "neutral",
			Message:   fmt.Sprintf("Heart rate drifted %.0f%% upward across splits, a sign of accumulating fatigue or heat.", drift),
		})
	}

	if a.Intervals != nil && a.Intervals.IsInterval {
		insights = append(insights, Insight{
			Category:  "intervals",
			Sentiment: "neutral",
			Message:   fmt.Sprintf("Interval session detected: %d work segments.", len(a.Intervals.WorkLaps)),
		})
	}

	return insights
}

// hrDrift returns the percentage HR rise from the first half of splits
// to the second, and whether enough HR data was present.
func hrDrift(splits []ProcessedSplit) (float64, bool) {
	var hrs []float64
	for _, s := range splits {
		if s.AvgHR != nil {
			hrs = append(hrs, *s.AvgHR)
		}
	}
	if len(hrs) < minSplitsForPattern {
		return 0, false
	}

	mid := len(hrs) / 2
	first := mean(hrs[:mid])
	second := mean(hrs[mid:])
	if first <= 0 {
		return 0, false
	}
	return (second - first) / first * 100, true
}
