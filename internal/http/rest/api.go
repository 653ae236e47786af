package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/breatheclean/breatheclean_api/config"
	deps "github.com/breatheclean/breatheclean_api/internal/debs"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	if resp == nil {
		return // handler hijacked the connection or wrote a redirect itself
	}
	respByte, err := json.Marshal(resp.Body)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	DB     *pgxpool.Pool
	Users  UserStore
	Routes RouteStore

	// Identity provider overrides, defaulting to Google when unset. Tests
	// point these at stub servers.
	OAuthEndpoint   *oauth2.Endpoint
	UserInfoBaseURL string
}

// Init wires the default store implementations onto the API. Tests replace
// the store fields before calling the handlers.
func (api *API) Init() {
	if api.DB == nil && api.Deps != nil {
		api.DB = api.Deps.Pool()
	}
	if api.Users == nil {
		api.Users = &PGUserStore{DB: api.DB}
	}
	if api.Routes == nil {
		api.Routes = &PGRouteStore{DB: api.DB}
	}
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{api.Config.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", values.HeaderRequestID, values.HeaderRequestSource},
		AllowCredentials: true,
	}))
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			writeJSONResponse(w, []byte(`{"message":"Server is running"}`), http.StatusOK)
		},
	)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", api.AuthRoutes())
		r.Mount("/saved-routes", api.SavedRouteRoutes())
		r.Mount("/routes", api.RoutingRoutes())
		r.Mount("/places", api.PlacesRoutes())
		r.Mount("/map", api.MapRoutes())
	})

	return mux
}

func (a *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	err := a.Server.Shutdown(ctx)
	if err != nil {
		return err
	}
	return nil
}
