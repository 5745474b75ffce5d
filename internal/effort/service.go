package effort

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/activity"
	"github.com/stridelab/stridelab/internal/store"
	"github.com/stridelab/stridelab/internal/units"
	"github.com/stridelab/stridelab/pkg/geo"
	"github.com/stridelab/stridelab/pkg/polyline"
)

// Store keys.
const (
	bundlesKey   = "effort:bundles"
	processedKey = "effort:processed"
)

func recognitionKey(activityID int64) string {
	return fmt.Sprintf("effort:recognition:%d", activityID)
}

// ServiceConfig holds configuration for the effort recognition service.
type ServiceConfig struct {
	// Store persists bundles, the processed-activity set and cached
	// recognitions.
	Store store.Store

	// Logger for service operations.
	Logger zerolog.Logger

	// Unit is the athlete's configured distance unit (default: km).
	Unit units.Unit

	// MinDistanceMeters is the short-activity floor
	// (default: DefaultMinDistanceMeters).
	MinDistanceMeters float64
}

// Service performs route fingerprinting and effort recognition over the
// injected store. All computation is synchronous and deterministic;
// callers serialize concurrent sync operations.
type Service struct {
	store       store.Store
	logger      zerolog.Logger
	unit        units.Unit
	minDistance float64
}

// NewService creates a new effort recognition service.
func NewService(cfg ServiceConfig) *Service {
	unit := cfg.Unit
	if unit == "" {
		unit = units.Kilometers
	}
	minDistance := cfg.MinDistanceMeters
	if minDistance == 0 {
		minDistance = DefaultMinDistanceMeters
	}

	return &Service{
		store:       cfg.Store,
		logger:      cfg.Logger,
		unit:        unit,
		minDistance: minDistance,
	}
}

// ProcessActivity matches one activity against the stored route bundles
// and records its effort. Non-running activities, activities without a
// decodable polyline and activities below the distance floor are
// silently skipped (nil result, nil error). Reprocessing an activity
// returns the cached recognition without touching the bundles.
func (s *Service) ProcessActivity(ctx context.Context, a *activity.Activity) (*Recognition, error) {
	if a == nil || !a.IsRun() {
		return nil, nil
	}
	coords := polyline.Decode(a.Polyline())
	if len(coords) < 2 {
		return nil, nil
	}
	if a.DistanceMeters < s.minDistance {
		return nil, nil
	}

	processed, err := s.loadProcessed(ctx)
	if err != nil {
		return nil, err
	}
	if processed[a.ID] {
		return s.Recognition(ctx, a.ID)
	}

	bundles, err := s.loadBundles(ctx)
	if err != nil {
		return nil, err
	}

	rec := EffortRecord{
		ActivityID:     a.ID,
		DateLocal:      a.StartDateLocal,
		PaceMinPerUnit: units.PaceMinPerUnit(a.DistanceMeters, a.MovingTime, s.unit),
		AvgHR:          a.AverageHeartrate,
	}
	if a.AverageCadence != nil {
		// The tracker reports half-cycle cadence; double to steps/min.
		spm := *a.AverageCadence * 2
		rec.AvgCadence = &spm
	}

	var recognition *Recognition
	bundle := MatchBundle(coords, a.DistanceMeters, bundles)
	if bundle == nil {
		bundle = &Bundle{
			Fingerprint: s.newFingerprint(coords, a.DistanceMeters),
			Efforts:     []EffortRecord{rec},
		}
		bundles = append(bundles, bundle)

		recognition = &Recognition{
			ActivityID:   a.ID,
			RouteID:      bundle.Fingerprint.ID,
			RouteName:    bundle.Fingerprint.Name,
			EffortNumber: 1,
			TotalEfforts: 1,
			Insights:     []Insight{},
			ProcessedAt:  time.Now().UTC(),
		}

		s.logger.Info().
			Int64("activity_id", a.ID).
			Str("route_id", bundle.Fingerprint.ID).
			Str("route_name", bundle.Fingerprint.Name).
			Msg("new route fingerprinted")
	} else {
		idx := insertChronological(bundle, rec)
		prior := bundle.Efforts[:idx]

		rank, _ := paceRank(bundle.Efforts, a.ID)
		insights, effTier := generateInsights(rec, prior, s.unit)
		if insights == nil {
			insights = []Insight{}
		}

		recognition = &Recognition{
			ActivityID:     a.ID,
			RouteID:        bundle.Fingerprint.ID,
			RouteName:      bundle.Fingerprint.Name,
			EffortNumber:   idx + 1,
			TotalEfforts:   len(bundle.Efforts),
			PaceTier:       AssignTier(rank, len(bundle.Efforts)),
			EfficiencyTier: effTier,
			Insights:       insights,
			ProcessedAt:    time.Now().UTC(),
		}

		s.logger.Info().
			Int64("activity_id", a.ID).
			Str("route_id", bundle.Fingerprint.ID).
			Int("effort_number", recognition.EffortNumber).
			Int("total_efforts", recognition.TotalEfforts).
			Str("pace_tier", string(recognition.PaceTier)).
			Msg("effort recognized")
	}

	processed[a.ID] = true
	if err := s.saveState(ctx, bundles, processed, recognition); err != nil {
		return nil, err
	}

	return recognition, nil
}

// ProcessAll filters to running activities, sorts them by local start
// date ascending and processes each in order, so course-record logic
// always sees strictly increasing time regardless of submission order.
func (s *Service) ProcessAll(ctx context.Context, activities []activity.Activity) error {
	runs := make([]activity.Activity, 0, len(activities))
	for _, a := range activities {
		if a.IsRun() {
			runs = append(runs, a)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartDateLocal.Before(runs[j].StartDateLocal)
	})

	recognized := 0
	for i := range runs {
		rec, err := s.ProcessActivity(ctx, &runs[i])
		if err != nil {
			return fmt.Errorf("process activity %d: %w", runs[i].ID, err)
		}
		if rec != nil {
			recognized++
		}
	}

	s.logger.Info().
		Int("activities", len(activities)).
		Int("runs", len(runs)).
		Int("recognized", recognized).
		Msg("batch effort processing complete")
	return nil
}

// Recognition returns the cached recognition for an activity, or nil.
func (s *Service) Recognition(ctx context.Context, activityID int64) (*Recognition, error) {
	var rec Recognition
	found, err := store.GetJSON(ctx, s.store, recognitionKey(activityID), &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// RouteHistory returns the bundle for a route ID, or nil when unknown.
func (s *Service) RouteHistory(ctx context.Context, routeID string) (*Bundle, error) {
	bundles, err := s.loadBundles(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bundles {
		if b.Fingerprint.ID == routeID {
			return b, nil
		}
	}
	return nil, nil
}

// AllBundles returns every stored route bundle.
func (s *Service) AllBundles(ctx context.Context) ([]*Bundle, error) {
	return s.loadBundles(ctx)
}

// newFingerprint derives an immutable fingerprint from the first sighting
// of a route.
func (s *Service) newFingerprint(coords []geo.Coordinate, distanceMeters float64) Fingerprint {
	start := coords[0]
	end := coords[len(coords)-1]
	centroid := geo.Centroid(coords)

	return Fingerprint{
		ID:                      uuid.New().String(),
		StartLat:                start.Lat,
		StartLng:                start.Lng,
		EndLat:                  end.Lat,
		EndLng:                  end.Lng,
		CentroidLat:             centroid.Lat,
		CentroidLng:             centroid.Lng,
		ReferenceDistanceMeters: distanceMeters,
		Name:                    routeName(coords, distanceMeters, s.unit),
	}
}

// routeName produces a human-readable default name like "5.2 km loop" or
// "8.0 km NE route".
func routeName(coords []geo.Coordinate, distanceMeters float64, unit units.Unit) string {
	start := coords[0]
	end := coords[len(coords)-1]

	length := polyline.Length(coords)
	if length > 0 && geo.Haversine(start, end)/length < 0.15 {
		return fmt.Sprintf("%s loop", units.FormatDistance(distanceMeters, unit))
	}
	return fmt.Sprintf("%s %s route",
		units.FormatDistance(distanceMeters, unit),
		geo.Compass(geo.Bearing(start, end)))
}

// insertChronological inserts rec into the bundle's efforts ordered by
// local start date and returns the insertion index.
func insertChronological(b *Bundle, rec EffortRecord) int {
	idx := sort.Search(len(b.Efforts), func(i int) bool {
		return b.Efforts[i].DateLocal.After(rec.DateLocal)
	})
	b.Efforts = append(b.Efforts, EffortRecord{})
	copy(b.Efforts[idx+1:], b.Efforts[idx:])
	b.Efforts[idx] = rec
	return idx
}

func (s *Service) loadBundles(ctx context.Context) ([]*Bundle, error) {
	var bundles []*Bundle
	found, err := store.GetJSON(ctx, s.store, bundlesKey, &bundles)
	if err != nil {
		return nil, fmt.Errorf("load bundles: %w", err)
	}
	if !found {
		return nil, nil
	}
	return bundles, nil
}

func (s *Service) loadProcessed(ctx context.Context) (map[int64]bool, error) {
	var ids []int64
	found, err := store.GetJSON(ctx, s.store, processedKey, &ids)
	if err != nil {
		return nil, fmt.Errorf("load processed set: %w", err)
	}
	processed := make(map[int64]bool, len(ids))
	if found {
		for _, id := range ids {
			processed[id] = true
		}
	}
	return processed, nil
}

func (s *Service) saveState(ctx context.Context, bundles []*Bundle, processed map[int64]bool, rec *Recognition) error {
	if err := store.SetJSON(ctx, s.store, bundlesKey, bundles); err != nil {
		return fmt.Errorf("save bundles: %w", err)
	}

	ids := make([]int64, 0, len(processed))
	for id := range processed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if err := store.SetJSON(ctx, s.store, processedKey, ids); err != nil {
		return fmt.Errorf("save processed set: %w", err)
	}

	if err := store.SetJSON(ctx, s.store, recognitionKey(rec.ActivityID), rec); err != nil {
		return fmt.Errorf("save recognition: %w", err)
	}
	return nil
}
