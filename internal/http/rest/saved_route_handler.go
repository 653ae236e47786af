package rest

import (
	"errors"
	"net/http"

	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/tracing"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) SavedRouteRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireSession)

	mux.Method(http.MethodGet, "/", Handler(api.ListSavedRoutes))
	mux.Method(http.MethodPost, "/", Handler(api.CreateSavedRoute))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeleteSavedRoute))
	mux.Method(http.MethodPatch, "/{id}/favorite", Handler(api.ToggleFavoriteRoute))

	return mux
}

func (api *API) ListSavedRoutes(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "not-authorized", values.NotAuthorised, &tc)
	}

	routes, err := api.Routes.ListRoutes(r.Context(), userID)
	if err != nil {
		return respondWithError(err, "unable to fetch saved routes", values.Error, &tc)
	}
	if routes == nil {
		routes = []model.SavedRoute{}
	}

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"routes":  routes,
	})
}

func (api *API) CreateSavedRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "not-authorized", values.NotAuthorised, &tc)
	}

	var req model.SaveRouteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "Invalid route data", values.BadRequestBody, &tc)
	}
	if validateErr := util.ValidateStruct(req); validateErr != nil {
		return respondWithError(validateErr, "Invalid route data", values.BadRequestBody, &tc)
	}
	if geomErr := req.ValidateGeometry(); geomErr != nil {
		return respondWithError(geomErr, "Invalid route data", values.BadRequestBody, &tc)
	}

	name := req.Name
	if name == "" {
		name = model.DefaultRouteName
	}

	route := model.SavedRoute{
		ID:         util.GenerateUUID(),
		UserID:     userID,
		Name:       name,
		From:       *req.From,
		To:         *req.To,
		Routes:     req.Routes,
		IsFavorite: req.IsFavorite,
	}

	created, err := api.Routes.CreateRoute(r.Context(), route)
	if err != nil {
		return respondWithError(err, "unable to save route", values.Error, &tc)
	}

	return respondWithData(values.Created, map[string]interface{}{
		"success": true,
		"route":   created,
	})
}

func (api *API) DeleteSavedRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "not-authorized", values.NotAuthorised, &tc)
	}

	routeID, err := util.StringToUUID(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "Route not found", values.NotFound, &tc)
	}

	if err := api.Routes.DeleteRoute(r.Context(), userID, routeID); err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return respondWithError(err, "Route not found", values.NotFound, &tc)
		}
		return respondWithError(err, "unable to delete route", values.Error, &tc)
	}

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"message": "Route deleted",
	})
}

func (api *API) ToggleFavoriteRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "not-authorized", values.NotAuthorised, &tc)
	}

	routeID, err := util.StringToUUID(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "Route not found", values.NotFound, &tc)
	}

	route, err := api.Routes.ToggleFavorite(r.Context(), userID, routeID)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return respondWithError(err, "Route not found", values.NotFound, &tc)
		}
		return respondWithError(err, "unable to update route", values.Error, &tc)
	}

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"route":   route,
	})
}
