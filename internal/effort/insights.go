package effort

import (
	"fmt"
	"math"

	"github.com/stridelab/stridelab/internal/units"
)

// generateInsights runs every insight generator for the new effort
// against its chronologically prior efforts and concatenates the
// non-nil results. It also returns the efficiency tier, if earned.
func generateInsights(rec EffortRecord, prior []EffortRecord, unit units.Unit) ([]Insight, Tier) {
	var insights []Insight

	if ins := paceInsight(rec, prior, unit); ins != nil {
		insights = append(insights, *ins)
	}
	if ins := heartRateInsight(rec, prior); ins != nil {
		insights = append(insights, *ins)
	}
	if ins := cadenceInsight(rec, prior); ins != nil {
		insights = append(insights, *ins)
	}
	effInsight, effTier := efficiencyInsight(rec, prior)
	if effInsight != nil {
		insights = append(insights, *effInsight)
	}
	if ins := overallInsight(rec, prior); ins != nil {
		insights = append(insights, *ins)
	}

	return insights, effTier
}

// lastWithPace returns the most recent prior effort with a valid pace.
func lastWithPace(prior []EffortRecord) *EffortRecord {
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].PaceMinPerUnit > 0 {
			return &prior[i]
		}
	}
	return nil
}

// lastWithHR returns the most recent prior effort carrying heart rate.
func lastWithHR(prior []EffortRecord) *EffortRecord {
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].AvgHR != nil {
			return &prior[i]
		}
	}
	return nil
}

// paceInsight compares the new effort against the fastest prior effort
// (course record) or, failing that, the most recent one.
func paceInsight(rec EffortRecord, prior []EffortRecord, unit units.Unit) *Insight {
	if rec.PaceMinPerUnit <= 0 {
		return nil
	}

	fastest := 0.0
	for _, p := range prior {
		if p.PaceMinPerUnit > 0 && (fastest == 0 || p.PaceMinPerUnit < fastest) {
			fastest = p.PaceMinPerUnit
		}
	}
	if fastest == 0 {
		return nil
	}

	if rec.PaceMinPerUnit < fastest {
		return &Insight{
			Category:  CategoryPace,
			Sentiment: SentimentPositive,
			Message: fmt.Sprintf("Course record! %s/%s faster than your previous best on this route.",
				units.FormatPaceDelta(fastest-rec.PaceMinPerUnit), unit),
		}
	}

	prev := lastWithPace(prior)
	deltaPct := (prev.PaceMinPerUnit - rec.PaceMinPerUnit) / prev.PaceMinPerUnit * 100

	if math.Abs(deltaPct) < paceNotabilityPct {
		return &Insight{
			Category:  CategoryPace,
			Sentiment: SentimentNeutral,
			Message:   "Consistent pacing, nearly identical to your last effort on this route.",
		}
	}

	delta := units.FormatPaceDelta(prev.PaceMinPerUnit - rec.PaceMinPerUnit)
	if deltaPct > 0 {
		return &Insight{
			Category:  CategoryPace,
			Sentiment: SentimentPositive,
			Message:   fmt.Sprintf("%s/%s faster than your last effort on this route.", delta, unit),
		}
	}
	return &Insight{
		Category:  CategoryPace,
		Sentiment: SentimentNegative,
		Message:   fmt.Sprintf("%s/%s slower than your last effort on this route.", delta, unit),
	}
}

// heartRateInsight compares heart rate against the most recent prior
// effort, and against the route's running average once enough history
// with HR exists.
func heartRateInsight(rec EffortRecord, prior []EffortRecord) *Insight {
	if rec.AvgHR == nil {
		return nil
	}
	prev := lastWithHR(prior)
	if prev == nil {
		return nil
	}

	delta := *rec.AvgHR - *prev.AvgHR

	var ins Insight
	ins.Category = CategoryHeartRate
	switch {
	case delta <= -hrNotabilityBPM:
		ins.Sentiment = SentimentPositive
		ins.Message = fmt.Sprintf("Average HR %.0f bpm lower than last time.", -delta)
	case delta >= hrNotabilityBPM:
		ins.Sentiment = SentimentNegative
		ins.Message = fmt.Sprintf("Average HR %.0f bpm higher than last time.", delta)
	default:
		ins.Sentiment = SentimentNeutral
		ins.Message = "Average HR in line with your last effort here."
	}

	// With enough HR history, add the route average for context.
	var sum float64
	var n int
	for _, p := range prior {
		if p.AvgHR != nil {
			sum += *p.AvgHR
			n++
		}
	}
	if n >= minEffortsForHRAverage {
		ins.Message += fmt.Sprintf(" Your average across %d efforts here is %.0f bpm.", n, sum/float64(n))
	}

	return &ins
}

// cadenceInsight reports cadence changes in steps per minute. Only an
// increase is notable; decreases are not penalized.
func cadenceInsight(rec EffortRecord, prior []EffortRecord) *Insight {
	if rec.AvgCadence == nil {
		return nil
	}

	var prev *EffortRecord
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].AvgCadence != nil {
			prev = &prior[i]
			break
		}
	}
	if prev == nil {
		return nil
	}

	delta := *rec.AvgCadence - *prev.AvgCadence
	if delta > cadenceNotabilitySPM {
		return &Insight{
			Category:  CategoryCadence,
			Sentiment: SentimentPositive,
			Message:   fmt.Sprintf("Cadence up %.0f spm to %.0f spm.", delta, *rec.AvgCadence),
		}
	}
	return &Insight{
		Category:  CategoryCadence,
		Sentiment: SentimentNeutral,
		Message:   fmt.Sprintf("Cadence steady at %.0f spm.", *rec.AvgCadence),
	}
}

// efficiencyInsight synthesizes pace and heart rate jointly: running
// faster at a lower heart rate earns a gold efficiency tier.
func efficiencyInsight(rec EffortRecord, prior []EffortRecord) (*Insight, Tier) {
	if rec.PaceMinPerUnit <= 0 || rec.AvgHR == nil {
		return nil, TierNone
	}

	var prev *EffortRecord
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].PaceMinPerUnit > 0 && prior[i].AvgHR != nil {
			prev = &prior[i]
			break
		}
	}
	if prev == nil {
		return nil, TierNone
	}

	if rec.PaceMinPerUnit < prev.PaceMinPerUnit && *rec.AvgHR < *prev.AvgHR {
		return &Insight{
			Category:  CategoryEfficiency,
			Sentiment: SentimentPositive,
			Message:   "Improved efficiency: faster pace at a lower heart rate.",
		}, TierGold
	}

	return nil, TierNone
}

// overallInsight synthesizes the headline takeaway: faster and easier is
// a strong improvement; the same pace at meaningfully lower heart rate
// still signals fitness gains.
func overallInsight(rec EffortRecord, prior []EffortRecord) *Insight {
	if rec.PaceMinPerUnit <= 0 {
		return nil
	}
	prev := lastWithPace(prior)
	if prev == nil {
		return nil
	}

	paceDeltaPct := (prev.PaceMinPerUnit - rec.PaceMinPerUnit) / prev.PaceMinPerUnit * 100

	hrDropped := false
	if rec.AvgHR != nil && prev.AvgHR != nil {
		hrDropped = *prev.AvgHR-*rec.AvgHR >= hrMeaningfulDropBPM
	}

	if paceDeltaPct >= paceNotabilityPct && hrDropped {
		return &Insight{
			Category:  CategoryOverall,
			Sentiment: SentimentPositive,
			Message:   "Strong improvement: faster than last time and at a lower heart rate.",
		}
	}
	if math.Abs(paceDeltaPct) < paceNotabilityPct && hrDropped {
		return &Insight{
			Category:  CategoryOverall,
			Sentiment: SentimentPositive,
			Message:   "Your fitness is showing: same pace at a lower cardiac cost.",
		}
	}
	return nil
}
