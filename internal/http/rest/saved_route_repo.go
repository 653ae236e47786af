package rest

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRouteNotFound covers both a missing route and a route owned by someone
// else. Callers must not be able to tell the two apart.
var ErrRouteNotFound = errors.New("route not found")

type RouteStore interface {
	ListRoutes(ctx context.Context, userID uuid.UUID) ([]model.SavedRoute, error)
	CreateRoute(ctx context.Context, route model.SavedRoute) (model.SavedRoute, error)
	DeleteRoute(ctx context.Context, userID, routeID uuid.UUID) error
	ToggleFavorite(ctx context.Context, userID, routeID uuid.UUID) (model.SavedRoute, error)
}

// PGRouteStore keeps endpoints as PostGIS points and the alternative paths
// as a single JSONB column, so a saved route is written and read whole.
type PGRouteStore struct {
	DB *pgxpool.Pool
}

const savedRouteColumns = `id, user_id, name,
	from_address, ST_X(from_location::geometry), ST_Y(from_location::geometry),
	to_address, ST_X(to_location::geometry), ST_Y(to_location::geometry),
	route_options, is_favorite, created_at, updated_at`

func (s *PGRouteStore) ListRoutes(ctx context.Context, userID uuid.UUID) ([]model.SavedRoute, error) {
	stmt := `SELECT ` + savedRouteColumns + `
		FROM saved_routes
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.DB.Query(ctx, stmt, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []model.SavedRoute{}
	for rows.Next() {
		route, scanErr := scanSavedRoute(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (s *PGRouteStore) CreateRoute(ctx context.Context, route model.SavedRoute) (model.SavedRoute, error) {
	options, err := json.Marshal(route.Routes)
	if err != nil {
		return model.SavedRoute{}, err
	}

	stmt := `INSERT INTO saved_routes
		(id, user_id, name, from_address, from_location, to_address, to_location, route_options, is_favorite)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7, ST_SetSRID(ST_MakePoint($8, $9), 4326), $10, $11)
		RETURNING created_at, updated_at`

	err = s.DB.QueryRow(ctx, stmt,
		route.ID, route.UserID, route.Name,
		route.From.Address, route.From.Location.Lng(), route.From.Location.Lat(),
		route.To.Address, route.To.Location.Lng(), route.To.Location.Lat(),
		options, route.IsFavorite,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return model.SavedRoute{}, err
	}
	return route, nil
}

func (s *PGRouteStore) DeleteRoute(ctx context.Context, userID, routeID uuid.UUID) error {
	stmt := `DELETE FROM saved_routes WHERE id = $1 AND user_id = $2`

	tag, err := s.DB.Exec(ctx, stmt, routeID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

func (s *PGRouteStore) ToggleFavorite(ctx context.Context, userID, routeID uuid.UUID) (model.SavedRoute, error) {
	stmt := `UPDATE saved_routes
		SET is_favorite = NOT is_favorite, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + savedRouteColumns

	route, err := scanSavedRoute(s.DB.QueryRow(ctx, stmt, routeID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SavedRoute{}, ErrRouteNotFound
	}
	if err != nil {
		return model.SavedRoute{}, err
	}
	return route, nil
}

func scanSavedRoute(row pgx.Row) (model.SavedRoute, error) {
	var (
		route            model.SavedRoute
		fromLng, fromLat float64
		toLng, toLat     float64
		options          []byte
	)

	err := row.Scan(
		&route.ID, &route.UserID, &route.Name,
		&route.From.Address, &fromLng, &fromLat,
		&route.To.Address, &toLng, &toLat,
		&options, &route.IsFavorite, &route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return model.SavedRoute{}, err
	}

	route.From.Location = model.NewPoint(fromLng, fromLat)
	route.To.Location = model.NewPoint(toLng, toLat)

	if err := json.Unmarshal(options, &route.Routes); err != nil {
		return model.SavedRoute{}, err
	}
	return route, nil
}
