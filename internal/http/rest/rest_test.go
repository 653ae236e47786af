package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/breatheclean/breatheclean_api/config"
	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
	"github.com/breatheclean/breatheclean_api/util/values"
	"github.com/google/uuid"
)

// fakeUserStore keeps users in memory so handler tests run without a
// database.
type fakeUserStore struct {
	mu      sync.Mutex
	byID    map[string]model.User
	failing bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]model.User{}}
}

func (s *fakeUserStore) UpsertGoogleUser(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return model.User{}, errors.New("store unavailable")
	}

	for _, existing := range s.byID {
		if existing.GoogleID == user.GoogleID {
			user.ID = existing.ID
			user.CreatedAt = existing.CreatedAt
			user.UpdatedAt = time.Now()
			s.byID[user.ID.String()] = user
			return user, nil
		}
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.byID[user.ID.String()] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return model.User{}, errors.New("store unavailable")
	}
	user, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

// fakeRouteStore advances a fake clock by a second per write so ordering by
// updated_at is deterministic.
type fakeRouteStore struct {
	mu     sync.Mutex
	routes map[uuid.UUID]model.SavedRoute
	now    time.Time
}

func newFakeRouteStore() *fakeRouteStore {
	return &fakeRouteStore{
		routes: map[uuid.UUID]model.SavedRoute{},
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeRouteStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *fakeRouteStore) ListRoutes(_ context.Context, userID uuid.UUID) ([]model.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	routes := []model.SavedRoute{}
	for _, route := range s.routes {
		if route.UserID == userID {
			routes = append(routes, route)
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].UpdatedAt.After(routes[j].UpdatedAt)
	})
	return routes, nil
}

func (s *fakeRouteStore) CreateRoute(_ context.Context, route model.SavedRoute) (model.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route.CreatedAt = s.tick()
	route.UpdatedAt = route.CreatedAt
	s.routes[route.ID] = route
	return route, nil
}

func (s *fakeRouteStore) DeleteRoute(_ context.Context, userID, routeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, ok := s.routes[routeID]
	if !ok || route.UserID != userID {
		return ErrRouteNotFound
	}
	delete(s.routes, routeID)
	return nil
}

func (s *fakeRouteStore) ToggleFavorite(_ context.Context, userID, routeID uuid.UUID) (model.SavedRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	route, ok := s.routes[routeID]
	if !ok || route.UserID != userID {
		return model.SavedRoute{}, ErrRouteNotFound
	}
	route.IsFavorite = !route.IsFavorite
	route.UpdatedAt = s.tick()
	s.routes[routeID] = route
	return route, nil
}

type harness struct {
	api    *API
	users  *fakeUserStore
	routes *fakeRouteStore
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		ClientOrigin:  "http://localhost:3000",
		JwtSecret:     "access-secret",
		JwtExpires:    "360h",
		RefreshSecret: "refresh-secret",
		RefreshExpiry: "720h",
	}

	h := &harness{
		api:    &API{Config: cfg},
		users:  newFakeUserStore(),
		routes: newFakeRouteStore(),
	}
	h.api.Users = h.users
	h.api.Routes = h.routes

	h.server = httptest.NewServer(h.api.setUpServerHandler())
	t.Cleanup(h.server.Close)
	return h
}

// login seeds a user and returns the session cookie a completed OAuth
// callback would have set.
func (h *harness) login(t *testing.T) (model.User, *http.Cookie) {
	t.Helper()

	name := "Test User"
	user := model.User{
		ID:           util.GenerateUUID(),
		GoogleID:     "google-" + util.GenerateUUID().String(),
		Name:         &name,
		Email:        "user@example.com",
		AuthProvider: "google",
		IsVerified:   true,
	}
	saved, err := h.users.UpsertGoogleUser(context.Background(), user)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, expiresAt, err := h.api.createRefreshToken(saved.ID.String())
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	return saved, &http.Cookie{Name: values.SessionCookie, Value: token, Expires: expiresAt}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := h.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func validSaveRequest(name string) model.SaveRouteRequest {
	return model.SaveRouteRequest{
		Name: name,
		From: &model.Endpoint{Address: "Old Town", Location: model.NewPoint(33.36, 35.34)},
		To:   &model.Endpoint{Address: "Harbour", Location: model.NewPoint(33.32, 35.33)},
		Routes: []model.RouteOption{
			{
				Distance:   4.2,
				Duration:   12.5,
				TravelMode: model.ModeWalking,
				RouteGeometry: model.NewLineString([][2]float64{
					{33.36, 35.34}, {33.34, 35.335}, {33.32, 35.33},
				}),
			},
		},
	}
}
