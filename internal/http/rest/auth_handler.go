package rest

import (
	"errors"
	"net/http"

	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/tracing"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/google/link", Handler(api.GoogleLink))
	mux.Get("/google/callback", api.GoogleCallback)
	mux.Get("/google/logout", api.GoogleLogout)
	mux.Method(http.MethodGet, "/health", Handler(api.Health))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireSession)
		r.Method(http.MethodGet, "/user", Handler(api.CurrentUser))
	})

	return mux
}

// GoogleLink hands the client the Google consent URL to redirect to.
func (api *API) GoogleLink(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	// TODO: generate and verify an OAuth state parameter once the client
	// persists it across the redirect.
	url := api.googleOAuth().AuthCodeURL("")
	return respondWithData(values.Success, map[string]interface{}{
		"url": url,
	})
}

// GoogleCallback completes the OAuth exchange and establishes the session
// cookie. It writes a redirect rather than a JSON envelope, so it bypasses
// the Handler adapter.
func (api *API) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		writeErrorResponse(w, errors.New("missing authorization code"), values.NotAuthorised, "Google authentication failed")
		return
	}

	token, err := api.googleOAuth().Exchange(ctx, code)
	if err != nil {
		writeErrorResponse(w, err, values.NotAuthorised, "Google authentication failed")
		return
	}

	profile, err := api.fetchGoogleProfile(ctx, token)
	if err != nil {
		writeErrorResponse(w, err, values.NotAuthorised, "Google authentication failed")
		return
	}

	user, err := api.upsertGoogleUser(ctx, profile)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to save user")
		return
	}

	if _, _, err := api.createToken(user.ID.String()); err != nil {
		writeErrorResponse(w, err, values.Error, "unable to create session")
		return
	}

	refreshToken, expiresAt, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to create session")
		return
	}

	api.setSessionCookie(w, refreshToken, expiresAt)
	http.Redirect(w, r, api.Config.ClientOrigin+"/home", http.StatusFound)
}

// GoogleLogout clears the session cookie. It succeeds whether or not a
// session existed.
func (api *API) GoogleLogout(w http.ResponseWriter, r *http.Request) {
	api.clearSessionCookie(w)
	http.Redirect(w, r, api.Config.ClientOrigin, http.StatusFound)
}

func (api *API) CurrentUser(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "not-authorized", values.NotAuthorised, &tc)
	}

	user, err := api.Users.GetUserByID(r.Context(), userID.String())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return respondWithError(err, "user-not-found", values.NotAuthorised, &tc)
		}
		return respondWithError(err, "unable to fetch user", values.Error, &tc)
	}

	return respondWithData(values.Success, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (api *API) Health(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	return respondWithData(values.Success, map[string]interface{}{
		"message": "ok",
	})
}
