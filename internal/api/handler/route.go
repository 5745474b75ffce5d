package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stridelab/stridelab/internal/api/models"
	"github.com/stridelab/stridelab/internal/api/response"
	"github.com/stridelab/stridelab/internal/effort"
	"github.com/stridelab/stridelab/internal/route"
)

// RouteHandler handles recognized-route listing and polyline rendering.
type RouteHandler struct {
	efforts *effort.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(efforts *effort.Service) *RouteHandler {
	return &RouteHandler{efforts: efforts}
}

// ListRoutes handles GET /v1/routes - all recognized routes.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.efforts.AllBundles(r.Context())
	if err != nil {
		response.InternalError(w, r, "loading routes failed")
		return
	}

	resp := models.RouteListResponse{Routes: make([]models.RouteSummary, 0, len(bundles))}
	for _, b := range bundles {
		summary := models.RouteSummary{
			ID:             b.Fingerprint.ID,
			Name:           b.Fingerprint.Name,
			DistanceMeters: b.Fingerprint.ReferenceDistanceMeters,
			TotalEfforts:   len(b.Efforts),
		}
		if len(b.Efforts) > 0 {
			first := models.Timestamp(b.Efforts[0].DateLocal)
			last := models.Timestamp(b.Efforts[len(b.Efforts)-1].DateLocal)
			summary.FirstSeenAt = &first
			summary.LastEffortAt = &last
		}
		resp.Routes = append(resp.Routes, summary)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// RouteEfforts handles GET /v1/routes/{routeId}/efforts - the full
// effort history for one route.
func (h *RouteHandler) RouteEfforts(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	bundle, err := h.efforts.RouteHistory(r.Context(), routeID)
	if err != nil {
		response.InternalError(w, r, "loading route history failed")
		return
	}
	if bundle == nil {
		response.NotFound(w, r, "unknown route")
		return
	}
	response.JSON(w, r, http.StatusOK, bundle)
}

// RenderRoute handles POST /v1/routes:render - polyline to
// render-ready geometry.
func (h *RouteHandler) RenderRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RenderRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Polyline == "" {
		response.BadRequest(w, r, "polyline is required", []models.FieldError{
			{Field: "polyline", Message: "required"},
		})
		return
	}

	width := input.Width
	if width <= 0 {
		width = route.DefaultWidth
	}
	height := input.Height
	if height <= 0 {
		height = route.DefaultHeight
	}

	built := route.Build(input.Polyline, width, height)
	if built == nil {
		response.BadRequest(w, r, "polyline does not decode to a route", []models.FieldError{
			{Field: "polyline", Message: "must decode to at least two coordinates"},
		})
		return
	}

	interval := input.MarkerIntervalMeters
	if interval <= 0 {
		interval = route.DefaultMarkerInterval
	}

	resp := models.RenderRouteResponse{
		Route:   built,
		Markers: route.DistanceMarkers(built, interval),
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, resp)
}
