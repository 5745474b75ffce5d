package route

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/activity"
	"github.com/stridelab/stridelab/internal/store"
)

const (
	// cacheKey is the store key for the polyline cache list.
	cacheKey = "route:polylines"

	// cacheCapacity bounds the most-recently-used polyline list.
	cacheCapacity = 200
)

// cachedPolyline is one entry of the persisted MRU list.
type cachedPolyline struct {
	ActivityID int64     `json:"activityId"`
	Polyline   string    `json:"polyline"`
	CachedAt   time.Time `json:"cachedAt"`
}

// ServiceConfig holds configuration for the route service.
type ServiceConfig struct {
	// Store persists the polyline cache.
	Store store.Store

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service owns the bounded polyline cache used as a fallback when an
// activity carries no map data.
type Service struct {
	store  store.Store
	logger zerolog.Logger
}

// NewService creates a new route service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// CacheRoute records an activity's polyline at the front of the MRU
// list. An already-cached activity is updated in place rather than
// re-inserted; the tail is truncated past capacity.
func (s *Service) CacheRoute(ctx context.Context, activityID int64, encoded string) error {
	if encoded == "" {
		return nil
	}

	entries := s.loadCache(ctx)

	updated := false
	for i := range entries {
		if entries[i].ActivityID == activityID {
			entries[i].Polyline = encoded
			entries[i].CachedAt = time.Now().UTC()
			updated = true
			break
		}
	}
	if !updated {
		entry := cachedPolyline{
			ActivityID: activityID,
			Polyline:   encoded,
			CachedAt:   time.Now().UTC(),
		}
		entries = append([]cachedPolyline{entry}, entries...)
		if len(entries) > cacheCapacity {
			entries = entries[:cacheCapacity]
		}
	}

	return store.SetJSON(ctx, s.store, cacheKey, entries)
}

// CachedRoute returns the cached polyline for an activity, if any.
func (s *Service) CachedRoute(ctx context.Context, activityID int64) (string, bool) {
	for _, e := range s.loadCache(ctx) {
		if e.ActivityID == activityID {
			return e.Polyline, true
		}
	}
	return "", false
}

// PolylineForActivity returns the polyline to use for an activity.
// Activity-supplied map data always takes precedence; the cache is a
// fallback for offline or missing-map scenarios only.
func (s *Service) PolylineForActivity(ctx context.Context, a *activity.Activity) string {
	if p := a.Polyline(); p != "" {
		return p
	}
	if p, ok := s.CachedRoute(ctx, a.ID); ok {
		s.logger.Debug().
			Int64("activity_id", a.ID).
			Msg("using cached polyline for activity without map data")
		return p
	}
	return ""
}

func (s *Service) loadCache(ctx context.Context) []cachedPolyline {
	var entries []cachedPolyline
	found, err := store.GetJSON(ctx, s.store, cacheKey, &entries)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load polyline cache")
		return nil
	}
	if !found {
		return nil
	}
	return entries
}
