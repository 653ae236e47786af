package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/breatheclean/breatheclean_api/internal/discovery"
	"github.com/breatheclean/breatheclean_api/internal/http/mapbox"
	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/tracing"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/go-chi/chi/v5"
)

type DiscoverRoutesRequest struct {
	Source      *mapbox.Coordinate `json:"source" validate:"required"`
	Destination *mapbox.Coordinate `json:"destination" validate:"required"`
	Mode        string             `json:"mode" validate:"omitempty,oneof=walking cycling driving"`
}

func (api *API) RoutingRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireSession)

	mux.Method(http.MethodPost, "/discover", Handler(api.DiscoverRoutes))

	return mux
}

func (api *API) PlacesRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireSession)

	mux.Method(http.MethodGet, "/reverse", Handler(api.ResolveAddress))

	return mux
}

func (api *API) DiscoverRoutes(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req DiscoverRoutesRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "Invalid discovery request", values.BadRequestBody, &tc)
	}
	if validateErr := util.ValidateStruct(req); validateErr != nil {
		return respondWithError(validateErr, "Invalid discovery request", values.BadRequestBody, &tc)
	}

	mode := req.Mode
	if mode == "" {
		mode = model.ModeDriving
	}

	routes, err := api.Deps.Discovery.DiscoverRoutes(r.Context(), *req.Source, *req.Destination, mode)
	if err != nil {
		if errors.Is(err, discovery.ErrNoRoutes) {
			return respondWithError(err, "No routes found. Please try different locations.", values.NotFound, &tc)
		}
		return respondWithError(err, "Failed to fetch routes. Please try again.", values.Error, &tc)
	}

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"routes":  routes,
	})
}

// ResolveAddress reverse-geocodes a point. It always answers with an
// address string, falling back to formatted coordinates.
func (api *API) ResolveAddress(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		return respondWithError(nil, "lat and lng query parameters are required", values.BadRequestBody, &tc)
	}

	address := api.Deps.Discovery.ResolveAddress(r.Context(), lng, lat)

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"address": address,
	})
}
