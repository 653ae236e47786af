package rest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
)

type routeEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Route   *model.SavedRoute `json:"route"`
	Routes  []model.SavedRoute `json:"routes"`
}

func (h *harness) listRoutes(t *testing.T, cookie *http.Cookie) []model.SavedRoute {
	t.Helper()
	resp := h.do(t, http.MethodGet, "/api/v1/saved-routes/", nil, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list saved routes: got %d", resp.StatusCode)
	}
	var body routeEnvelope
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Fatal("list envelope not successful")
	}
	return body.Routes
}

func (h *harness) createRoute(t *testing.T, cookie *http.Cookie, req model.SaveRouteRequest) model.SavedRoute {
	t.Helper()
	resp := h.do(t, http.MethodPost, "/api/v1/saved-routes/", req, cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create saved route: got %d", resp.StatusCode)
	}
	var body routeEnvelope
	decodeBody(t, resp, &body)
	if !body.Success || body.Route == nil {
		t.Fatal("create envelope missing route")
	}
	return *body.Route
}

func TestSavedRouteLifecycle(t *testing.T) {
	h := newHarness(t)
	user, cookie := h.login(t)

	if routes := h.listRoutes(t, cookie); len(routes) != 0 {
		t.Fatalf("expected empty list for a new user, got %d routes", len(routes))
	}

	created := h.createRoute(t, cookie, validSaveRequest("Morning Walk"))
	if created.Name != "Morning Walk" {
		t.Errorf("expected name Morning Walk, got %q", created.Name)
	}
	if created.UserID != user.ID {
		t.Errorf("route owned by %s, expected %s", created.UserID, user.ID)
	}

	routes := h.listRoutes(t, cookie)
	if len(routes) != 1 {
		t.Fatalf("expected one route after create, got %d", len(routes))
	}
	if routes[0].ID != created.ID {
		t.Errorf("listed route %s, expected %s", routes[0].ID, created.ID)
	}

	resp := h.do(t, http.MethodDelete, "/api/v1/saved-routes/"+created.ID.String(), nil, cookie)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete saved route: got %d", resp.StatusCode)
	}

	if routes := h.listRoutes(t, cookie); len(routes) != 0 {
		t.Fatalf("expected empty list after delete, got %d routes", len(routes))
	}
}

func TestCreateRouteDefaultsName(t *testing.T) {
	h := newHarness(t)
	_, cookie := h.login(t)

	created := h.createRoute(t, cookie, validSaveRequest(""))
	if created.Name != model.DefaultRouteName {
		t.Errorf("expected default name %q, got %q", model.DefaultRouteName, created.Name)
	}
}

func TestCreateRouteValidation(t *testing.T) {
	h := newHarness(t)
	_, cookie := h.login(t)

	missingFrom := validSaveRequest("")
	missingFrom.From = nil

	noOptions := validSaveRequest("")
	noOptions.Routes = nil

	tooMany := validSaveRequest("")
	for len(tooMany.Routes) <= model.MaxRouteOptions {
		tooMany.Routes = append(tooMany.Routes, tooMany.Routes[0])
	}

	badMode := validSaveRequest("")
	badMode.Routes[0].TravelMode = "teleport"

	degenerate := validSaveRequest("")
	degenerate.Routes[0].RouteGeometry = model.NewLineString([][2]float64{{33.36, 35.34}})

	cases := []struct {
		name string
		req  model.SaveRouteRequest
	}{
		{"missing from endpoint", missingFrom},
		{"no route options", noOptions},
		{"too many route options", tooMany},
		{"unknown travel mode", badMode},
		{"single point geometry", degenerate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.do(t, http.MethodPost, "/api/v1/saved-routes/", tc.req, cookie)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}

	if routes := h.listRoutes(t, cookie); len(routes) != 0 {
		t.Fatalf("rejected requests must not persist, found %d routes", len(routes))
	}
}

func TestDeleteOtherUsersRoute(t *testing.T) {
	h := newHarness(t)
	_, ownerCookie := h.login(t)
	_, otherCookie := h.login(t)

	created := h.createRoute(t, ownerCookie, validSaveRequest("Private"))

	resp := h.do(t, http.MethodDelete, "/api/v1/saved-routes/"+created.ID.String(), nil, otherCookie)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for someone else's route, got %d", resp.StatusCode)
	}

	if routes := h.listRoutes(t, ownerCookie); len(routes) != 1 {
		t.Fatal("route must survive another user's delete attempt")
	}
}

func TestToggleFavorite(t *testing.T) {
	h := newHarness(t)
	_, cookie := h.login(t)

	created := h.createRoute(t, cookie, validSaveRequest("Commute"))
	path := fmt.Sprintf("/api/v1/saved-routes/%s/favorite", created.ID)

	resp := h.do(t, http.MethodPatch, path, nil, cookie)
	var body routeEnvelope
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body.Route == nil {
		t.Fatalf("toggle favorite: got %d", resp.StatusCode)
	}
	if !body.Route.IsFavorite {
		t.Error("expected favorite after first toggle")
	}

	resp = h.do(t, http.MethodPatch, path, nil, cookie)
	decodeBody(t, resp, &body)
	if body.Route.IsFavorite {
		t.Error("expected not favorite after second toggle")
	}

	resp = h.do(t, http.MethodPatch, "/api/v1/saved-routes/"+util.GenerateUUID().String()+"/favorite", nil, cookie)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", resp.StatusCode)
	}
}

func TestListRoutesOrdering(t *testing.T) {
	h := newHarness(t)
	_, cookie := h.login(t)

	first := h.createRoute(t, cookie, validSaveRequest("First"))
	second := h.createRoute(t, cookie, validSaveRequest("Second"))
	third := h.createRoute(t, cookie, validSaveRequest("Third"))

	routes := h.listRoutes(t, cookie)
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
	for i, want := range []string{third.Name, second.Name, first.Name} {
		if routes[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, routes[i].Name, want)
		}
	}

	// Toggling bumps updated_at, pulling the oldest route to the front.
	resp := h.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/saved-routes/%s/favorite", first.ID), nil, cookie)
	resp.Body.Close()

	routes = h.listRoutes(t, cookie)
	if routes[0].ID != first.ID {
		t.Errorf("expected toggled route first, got %q", routes[0].Name)
	}
}
