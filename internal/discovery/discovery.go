// Package discovery turns the external directions and geocoding providers
// into the route alternatives this application works with: at most three
// decorated options per search, and addresses that never fail to resolve.
package discovery

import (
	"context"
	"errors"
	"log"

	"github.com/breatheclean/breatheclean_api/internal/http/mapbox"
	"github.com/breatheclean/breatheclean_api/internal/model"
	"github.com/breatheclean/breatheclean_api/util"
)

// maxAlternatives caps how many provider alternatives a search yields.
const maxAlternatives = 3

var (
	// ErrNoRoutes means the provider answered but found no path.
	ErrNoRoutes = errors.New("no routes found")
	// ErrFetchFailed means the provider call itself failed.
	ErrFetchFailed = errors.New("failed to fetch routes")
)

// Route is one decorated alternative ready for presentation or saving.
type Route struct {
	Distance              float64          `json:"distance"` // kilometers
	Duration              float64          `json:"duration"` // minutes
	TravelMode            string           `json:"travelMode"`
	RouteGeometry         model.LineString `json:"routeGeometry"`
	AqiScore              int              `json:"aqiScore"`
	PollutionReductionPct *int             `json:"pollutionReductionPct,omitempty"`
	ExposureWarning       string           `json:"exposureWarning,omitempty"`
}

// Service is a stateless request/response helper invoked per user search.
type Service struct {
	Maps   *mapbox.Client
	Scorer Scorer
}

func NewService(maps *mapbox.Client, scorer Scorer) *Service {
	if scorer == nil {
		scorer = RankScorer{}
	}
	return &Service{Maps: maps, Scorer: scorer}
}

// DiscoverRoutes fetches up to three alternatives between two points for the
// given travel mode and decorates each with a quality score. Both failure
// conditions come back as sentinel errors the caller can present; nothing
// here panics.
func (s *Service) DiscoverRoutes(ctx context.Context, source, destination mapbox.Coordinate, mode string) ([]Route, error) {
	resp, err := s.Maps.Directions(ctx, source, destination, mode)
	if err != nil {
		log.Println("error fetching routes", err)
		return nil, ErrFetchFailed
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, ErrNoRoutes
	}

	alternatives := resp.Routes
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	routes := make([]Route, 0, len(alternatives))
	for i, alt := range alternatives {
		coords, err := alt.Coordinates()
		if err != nil {
			log.Println("error decoding route geometry", err)
			return nil, ErrFetchFailed
		}

		route := Route{
			Distance:      alt.Distance / 1000, // meters -> km
			Duration:      alt.Duration / 60,   // seconds -> minutes
			TravelMode:    mode,
			RouteGeometry: model.NewLineString(coords),
		}
		score := s.Scorer.Score(i, route)
		route.AqiScore = score.AqiScore
		route.PollutionReductionPct = score.PollutionReductionPct
		route.ExposureWarning = score.ExposureWarning

		routes = append(routes, route)
	}
	return routes, nil
}

// ResolveAddress reverse geocodes a coordinate pair. On any failure it falls
// back to "lat, lng" rounded to 4 decimals; it never returns an error.
func (s *Service) ResolveAddress(ctx context.Context, lng, lat float64) string {
	resp, err := s.Maps.ReverseGeocode(ctx, lng, lat, nil)
	if err != nil {
		log.Println("reverse geocoding failed:", err)
		return util.FormatFallbackAddress(lng, lat)
	}
	if len(resp.Features) == 0 {
		return util.FormatFallbackAddress(lng, lat)
	}
	return resp.Features[0].PlaceName
}
