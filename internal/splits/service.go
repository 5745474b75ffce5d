package splits

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/activity"
	"github.com/stridelab/stridelab/internal/store"
	"github.com/stridelab/stridelab/internal/units"
)

func analysisKey(activityID int64) string {
	return fmt.Sprintf("splits:analysis:%d", activityID)
}

// ServiceConfig holds configuration for the split analysis service.
type ServiceConfig struct {
	// Store caches analyses per activity.
	Store store.Store

	// Logger for service operations.
	Logger zerolog.Logger

	// Unit is the athlete's configured distance unit (default: km).
	Unit units.Unit
}

// Service runs split and lap analysis over activities and caches the
// result per activity ID. Re-analyzing the same activity overwrites the
// cached entry.
type Service struct {
	store  store.Store
	logger zerolog.Logger
	unit   units.Unit
}

// NewService creates a new split analysis service.
func NewService(cfg ServiceConfig) *Service {
	unit := cfg.Unit
	if unit == "" {
		unit = units.Kilometers
	}
	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
		unit:   unit,
	}
}

// HasSplitData reports whether the activity carries enough raw splits
// for the configured unit to be worth analyzing.
func (s *Service) HasSplitData(a *activity.Activity) bool {
	return len(s.rawSplits(a)) >= 2
}

// Analyze produces the full split analysis for an activity. Activities
// with fewer than two usable splits yield nil with no error. The result
// is cached in the store keyed by activity ID.
func (s *Service) Analyze(ctx context.Context, a *activity.Activity) (*Analysis, error) {
	processed := ProcessSplits(s.rawSplits(a), s.unit)
	if len(processed) < 2 {
		s.logger.Debug().
			Int64("activity_id", a.ID).
			Msg("skipping split analysis: not enough splits")
		return nil, nil
	}

	analysis := &Analysis{
		ActivityID:  a.ID,
		Unit:        s.unit,
		Splits:      processed,
		Laps:        ProcessLaps(a.Laps, s.unit),
		Consistency: AnalyzeConsistency(processed),
		Pattern:     DetectPattern(processed),
		AnalyzedAt:  time.Now().UTC(),
	}
	analysis.Intervals = DetectIntervals(analysis.Laps)
	analysis.Insights = buildInsights(analysis)

	if err := store.SetJSON(ctx, s.store, analysisKey(a.ID), analysis); err != nil {
		return nil, fmt.Errorf("caching split analysis: %w", err)
	}

	s.logger.Debug().
		Int64("activity_id", a.ID).
		Int("splits", len(analysis.Splits)).
		Str("grade", string(analysis.Consistency.Grade)).
		Str("pattern", string(analysis.Pattern.Pattern)).
		Msg("split analysis complete")

	return analysis, nil
}

// CachedAnalysis returns the stored analysis for an activity, or nil
// when none has been computed.
func (s *Service) CachedAnalysis(ctx context.Context, activityID int64) (*Analysis, error) {
	var analysis Analysis
	found, err := store.GetJSON(ctx, s.store, analysisKey(activityID), &analysis)
	if err != nil {
		return nil, fmt.Errorf("loading split analysis: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &analysis, nil
}

// rawSplits picks the tracker split series matching the configured
// unit: standard (mile) splits for miles, metric otherwise.
func (s *Service) rawSplits(a *activity.Activity) []activity.Split {
	if s.unit == units.Miles {
		return a.SplitsStandard
	}
	return a.SplitsMetric
}
