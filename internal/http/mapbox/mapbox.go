package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/breatheclean/breatheclean_api/util"
)

const defaultMapboxBaseURL = "https://api.mapbox.com"

// Geometry encodings the Directions API can return.
const (
	GeometryGeoJSON  = "geojson"
	GeometryPolyline = "polyline"
)

// Client handles communication with the Mapbox Directions and Geocoding APIs.
type Client struct {
	BaseURL    *url.URL
	APIKey     string // Load from environment variable, never hardcode.
	Geometries string
	HTTPClient *http.Client
}

// NewClient creates a new Mapbox client instance with default timeout.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		log.Println("Warning: Mapbox API Key is empty.")
	}
	baseURL, _ := url.Parse(defaultMapboxBaseURL)
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Geometries: GeometryGeoJSON,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Coordinate is a [longitude, latitude] waypoint.
type Coordinate struct {
	Lng float64 `json:"lng" validate:"longitude"`
	Lat float64 `json:"lat" validate:"latitude"`
}

// DirectionsResponse represents the top-level response from the Directions API.
type DirectionsResponse struct {
	Routes []Route `json:"routes"`
	Code   string  `json:"code"` // "Ok", "NoRoute", "NoSegment", "ProfileNotFound", etc.
}

// Route contains a single route alternative.
type Route struct {
	// Geometry is a GeoJSON LineString object or, with geometries=polyline,
	// an encoded polyline string. Use Coordinates to read either form.
	Geometry json.RawMessage `json:"geometry"`
	Duration float64         `json:"duration"` // seconds
	Distance float64         `json:"distance"` // meters
}

// LineString contains the route geometry with road-snapped coordinates.
type LineString struct {
	Type        string       `json:"type"`        // "LineString"
	Coordinates [][2]float64 `json:"coordinates"` // [longitude, latitude] pairs
}

// Coordinates returns the route geometry as [longitude, latitude] pairs,
// decoding whichever encoding the provider returned.
func (r *Route) Coordinates() ([][2]float64, error) {
	if len(r.Geometry) == 0 {
		return nil, fmt.Errorf("route has no geometry")
	}
	if r.Geometry[0] == '"' {
		var shape string
		if err := json.Unmarshal(r.Geometry, &shape); err != nil {
			return nil, fmt.Errorf("failed to decode polyline geometry: %w", err)
		}
		return util.PolylineToLngLat(shape)
	}
	var line LineString
	if err := json.Unmarshal(r.Geometry, &line); err != nil {
		return nil, fmt.Errorf("failed to decode geojson geometry: %w", err)
	}
	return line.Coordinates, nil
}

// Directions fetches alternative routes between origin and destination for
// the given profile ("driving", "walking" or "cycling").
func (c *Client) Directions(ctx context.Context, origin, destination Coordinate, profile string) (*DirectionsResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("mapbox API key is not set")
	}
	if profile == "" {
		profile = "driving"
	}
	geometries := c.Geometries
	if geometries == "" {
		geometries = GeometryGeoJSON
	}

	coordinates := fmt.Sprintf("%s,%s;%s,%s",
		strconv.FormatFloat(origin.Lng, 'f', 6, 64),
		strconv.FormatFloat(origin.Lat, 'f', 6, 64),
		strconv.FormatFloat(destination.Lng, 'f', 6, 64),
		strconv.FormatFloat(destination.Lat, 'f', 6, 64))

	params := url.Values{}
	params.Set("access_token", c.APIKey)
	params.Set("alternatives", "true")
	params.Set("geometries", geometries)
	params.Set("overview", "full")

	// Waypoint separators go literally; the provider rejects encoded ";".
	fullURL := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s?%s",
		c.BaseURL.String(), profile, coordinates, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Mapbox Directions request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("Error making Mapbox Directions request: %v\n", err)
		return nil, fmt.Errorf("failed to execute Mapbox Directions request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Mapbox Directions response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Mapbox Directions request failed with status %d: %s\n", resp.StatusCode, string(bodyBytes))
		return nil, fmt.Errorf("mapbox directions error: status code %d", resp.StatusCode)
	}

	var dirResp DirectionsResponse
	if err := json.Unmarshal(bodyBytes, &dirResp); err != nil {
		log.Printf("Error decoding Mapbox Directions response: %v\n", err)
		return nil, fmt.Errorf("failed to decode Mapbox Directions response: %w", err)
	}

	return &dirResp, nil
}
