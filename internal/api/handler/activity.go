package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stridelab/stridelab/internal/api/models"
	"github.com/stridelab/stridelab/internal/api/response"
	"github.com/stridelab/stridelab/internal/effort"
	"github.com/stridelab/stridelab/internal/route"
	"github.com/stridelab/stridelab/internal/splits"
)

// ActivityHandler handles activity ingest and per-activity analysis
// lookups.
type ActivityHandler struct {
	efforts *effort.Service
	splits  *splits.Service
	routes  *route.Service
	logger  zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(efforts *effort.Service, sp *splits.Service, routes *route.Service, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		efforts: efforts,
		splits:  sp,
		routes:  routes,
		logger:  logger,
	}
}

// ProcessActivities handles POST /v1/activities:process - batch ingest.
// Runs are processed in chronological order through effort recognition,
// then split analysis and route caching per activity.
func (h *ActivityHandler) ProcessActivities(w http.ResponseWriter, r *http.Request) {
	var input models.ProcessActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(input.Activities) == 0 {
		response.BadRequest(w, r, "activities must not be empty", []models.FieldError{
			{Field: "activities", Message: "at least one activity is required"},
		})
		return
	}

	ctx := r.Context()
	if err := h.efforts.ProcessAll(ctx, input.Activities); err != nil {
		h.logger.Error().Err(err).Msg("batch effort processing failed")
		response.InternalError(w, r, "activity processing failed")
		return
	}

	resp := models.ProcessActivitiesResponse{Activities: len(input.Activities)}
	for i := range input.Activities {
		a := &input.Activities[i]
		if !a.IsRun() {
			continue
		}
		resp.Runs++

		rec, err := h.efforts.Recognition(ctx, a.ID)
		if err != nil {
			response.InternalError(w, r, "activity processing failed")
			return
		}
		if rec != nil {
			resp.Recognized++
		}

		if h.splits.HasSplitData(a) {
			if _, err := h.splits.Analyze(ctx, a); err != nil {
				response.InternalError(w, r, "split analysis failed")
				return
			}
			resp.SplitAnalyses++
		}

		if encoded := a.Polyline(); encoded != "" {
			if err := h.routes.CacheRoute(ctx, a.ID, encoded); err != nil {
				h.logger.Warn().Err(err).Int64("activity_id", a.ID).Msg("route cache update failed")
			}
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// GetEffort handles GET /v1/activities/{activityId}/effort.
func (h *ActivityHandler) GetEffort(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}

	rec, err := h.efforts.Recognition(r.Context(), id)
	if err != nil {
		response.InternalError(w, r, "loading effort recognition failed")
		return
	}
	if rec == nil {
		response.NotFound(w, r, "no effort recognition for this activity")
		return
	}
	response.JSON(w, r, http.StatusOK, rec)
}

// GetSplits handles GET /v1/activities/{activityId}/splits.
func (h *ActivityHandler) GetSplits(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}

	analysis, err := h.splits.CachedAnalysis(r.Context(), id)
	if err != nil {
		response.InternalError(w, r, "loading split analysis failed")
		return
	}
	if analysis == nil {
		response.NotFound(w, r, "no split analysis for this activity")
		return
	}
	response.JSON(w, r, http.StatusOK, analysis)
}

// activityID parses the activityId URL parameter, writing a 400 problem
// on failure.
func activityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "activityId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, r, "invalid activity ID", []models.FieldError{
			{Field: "activityId", Message: "must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}
