package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultRouteName is applied when a save request carries no name.
const DefaultRouteName = "Saved Route"

// MaxRouteOptions bounds the alternatives embedded in a single saved route.
const MaxRouteOptions = 5

// Travel modes accepted for a route option.
const (
	ModeWalking = "walking"
	ModeCycling = "cycling"
	ModeDriving = "driving"
)

// Endpoint is one end of a saved trip: a human-readable address plus the
// geographic point it resolves to.
type Endpoint struct {
	Address  string `json:"address"`
	Location Point  `json:"location"`
}

// RouteOption is one alternative path within a saved route. It has no
// lifecycle of its own; it only exists embedded in a SavedRoute document.
type RouteOption struct {
	Distance      float64    `json:"distance" validate:"gte=0"` // kilometers
	Duration      float64    `json:"duration" validate:"gte=0"` // minutes
	TravelMode    string     `json:"travelMode" validate:"required,oneof=walking cycling driving"`
	RouteGeometry LineString `json:"routeGeometry"`

	// Updated by an external scoring process, if one ever runs. Nothing in
	// this service recomputes them after save.
	LastComputedScore *float64   `json:"lastComputedScore"`
	LastComputedAt    *time.Time `json:"lastComputedAt"`
}

// SavedRoute is one persisted trip with up to five alternative paths.
type SavedRoute struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"userId"`
	Name       string        `json:"name"`
	From       Endpoint      `json:"from"`
	To         Endpoint      `json:"to"`
	Routes     []RouteOption `json:"routes"`
	IsFavorite bool          `json:"isFavorite"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// SaveRouteRequest is the create payload. The owning user always comes from
// the session, never from the body.
type SaveRouteRequest struct {
	Name       string        `json:"name" validate:"omitempty,max=120"`
	From       *Endpoint     `json:"from" validate:"required"`
	To         *Endpoint     `json:"to" validate:"required"`
	Routes     []RouteOption `json:"routes" validate:"required,min=1,max=5,dive"`
	IsFavorite bool          `json:"isFavorite"`
}

// ValidateGeometry covers the GeoJSON invariants struct tags cannot express:
// coordinate order and range, and non-degenerate line strings.
func (r *SaveRouteRequest) ValidateGeometry() error {
	if err := r.From.Location.Validate(); err != nil {
		return fmt.Errorf("from location: %w", err)
	}
	if err := r.To.Location.Validate(); err != nil {
		return fmt.Errorf("to location: %w", err)
	}
	for i, opt := range r.Routes {
		if err := opt.RouteGeometry.Validate(); err != nil {
			return fmt.Errorf("route option %d: %w", i, err)
		}
	}
	return nil
}
