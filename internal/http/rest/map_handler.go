package rest

import (
	"errors"
	"net/http"

	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) MapRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(api.RequireSession)

	mux.Get("/ws", api.MapSocket)

	return mux
}

// MapSocket upgrades the connection and hands it to the map view manager,
// which owns the session from there.
func (api *API) MapSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		writeErrorResponse(w, errors.New(values.NotAuthorised), values.NotAuthorised, "not-authorized")
		return
	}

	api.Deps.MapView.HandleConnections(w, r, userID.String())
}
