package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridelab/stridelab/internal/api"
	"github.com/stridelab/stridelab/internal/api/models"
	"github.com/stridelab/stridelab/internal/effort"
	"github.com/stridelab/stridelab/internal/route"
	"github.com/stridelab/stridelab/internal/splits"
	"github.com/stridelab/stridelab/internal/store"
	"github.com/stridelab/stridelab/internal/units"
	"github.com/stridelab/stridelab/pkg/geo"
	"github.com/stridelab/stridelab/pkg/polyline"
)

// testPolyline encodes a straight northbound line of roughly 5km.
func testPolyline() string {
	coords := make([]geo.Coordinate, 0, 10)
	for i := 0; i < 10; i++ {
		coords = append(coords, geo.Coordinate{Lat: 52.0 + float64(i)*0.005, Lng: 4.0})
	}
	return polyline.Encode(coords)
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	st := store.NewMemory()

	effortSvc := effort.NewService(effort.ServiceConfig{
		Store:  st,
		Logger: logger,
		Unit:   units.Kilometers,
	})
	splitsSvc := splits.NewService(splits.ServiceConfig{
		Store:  st,
		Logger: logger,
		Unit:   units.Kilometers,
	})
	routeSvc := route.NewService(route.ServiceConfig{
		Store:  st,
		Logger: logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:       "test",
		BuildTime:     "2024-01-01T00:00:00Z",
		Logger:        logger,
		Store:         st,
		EffortService: effortSvc,
		SplitsService: splitsSvc,
		RouteService:  routeSvc,
	})
}

// processBody builds a two-run ingest payload on the same route, with
// metric splits on each run.
func processBody(t *testing.T) []byte {
	t.Helper()
	encoded := testPolyline()

	type splitJSON struct {
		Distance   float64 `json:"distance"`
		MovingTime int     `json:"moving_time"`
	}
	type mapJSON struct {
		Polyline string `json:"polyline"`
	}
	type activityJSON struct {
		ID             int64       `json:"id"`
		Type           string      `json:"type"`
		Distance       float64     `json:"distance"`
		MovingTime     int         `json:"moving_time"`
		StartDateLocal time.Time   `json:"start_date_local"`
		Map            mapJSON     `json:"map"`
		SplitsMetric   []splitJSON `json:"splits_metric"`
	}

	mkSplits := func(perKm int) []splitJSON {
		out := make([]splitJSON, 5)
		for i := range out {
			out[i] = splitJSON{Distance: 1000, MovingTime: perKm}
		}
		return out
	}

	payload := map[string]any{
		"activities": []activityJSON{
			{
				ID:             1001,
				Type:           "Run",
				Distance:       5000,
				MovingTime:     1500,
				StartDateLocal: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
				Map:            mapJSON{Polyline: encoded},
				SplitsMetric:   mkSplits(300),
			},
			{
				ID:             1002,
				Type:           "Run",
				Distance:       5000,
				MovingTime:     1200,
				StartDateLocal: time.Date(2024, 3, 8, 8, 0, 0, 0, time.UTC),
				Map:            mapJSON{Polyline: encoded},
				SplitsMetric:   mkSplits(240),
			},
		},
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ProcessActivities(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/activities:process", bytes.NewReader(processBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProcessActivitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Activities)
	assert.Equal(t, 2, resp.Runs)
	assert.Equal(t, 2, resp.Recognized)
	assert.Equal(t, 2, resp.SplitAnalyses)
}

func TestRouter_ProcessActivities_EmptyBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/activities:process", bytes.NewReader([]byte(`{"activities":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_EffortAndSplitsLookup(t *testing.T) {
	router := newTestRouter()

	// Ingest first.
	req := httptest.NewRequest(http.MethodPost, "/v1/activities:process", bytes.NewReader(processBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("effort for the faster second run", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/activities/1002/effort", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rec effort.Recognition
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		assert.Equal(t, int64(1002), rec.ActivityID)
		assert.Equal(t, 2, rec.EffortNumber)
		assert.Equal(t, 2, rec.TotalEfforts)
		assert.Equal(t, effort.TierGold, rec.PaceTier)
	})

	t.Run("splits analysis", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/activities/1001/splits", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var analysis splits.Analysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.Equal(t, int64(1001), analysis.ActivityID)
		assert.Len(t, analysis.Splits, 5)
		assert.Equal(t, splits.GradeGold, analysis.Consistency.Grade)
	})

	t.Run("unknown activity yields problem+json 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/activities/9999/effort", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})

	t.Run("non-numeric activity ID yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/activities/abc/effort", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/activities:process", bytes.NewReader(processBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var routeID string

	t.Run("list recognized routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/routes", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.RouteListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Routes, 1)
		assert.Equal(t, 2, resp.Routes[0].TotalEfforts)
		assert.NotEmpty(t, resp.Routes[0].Name)
		routeID = resp.Routes[0].ID
	})

	t.Run("route effort history", func(t *testing.T) {
		require.NotEmpty(t, routeID)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/routes/%s/efforts", routeID), http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var bundle effort.Bundle
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
		assert.Equal(t, routeID, bundle.Fingerprint.ID)
		assert.Len(t, bundle.Efforts, 2)
	})

	t.Run("unknown route yields 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/routes/nope/efforts", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_RenderRoute(t *testing.T) {
	router := newTestRouter()

	t.Run("renders a polyline with defaults", func(t *testing.T) {
		body, err := json.Marshal(models.RenderRouteRequest{Polyline: testPolyline()})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/v1/routes:render", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.RenderRouteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Route)
		assert.NotEmpty(t, resp.Route.SVGPath)
		assert.InDelta(t, 5000, resp.Route.TotalMeters, 600)
		assert.NotEmpty(t, resp.Markers)
	})

	t.Run("missing polyline yields 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/routes:render", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
