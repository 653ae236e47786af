package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

// GeocodeQuery represents parameters for geocoding requests.
type GeocodeQuery struct {
	AccessToken string   `url:"access_token"`
	Limit       *int     `url:"limit,omitempty"`
	Types       []string `url:"types,omitempty,comma"` // e.g. "address", "poi"
	Language    string   `url:"language,omitempty"`
}

// GeocodeResponse is the feature collection returned by the Geocoding API.
type GeocodeResponse struct {
	Type     string `json:"type"` // "FeatureCollection"
	Features []struct {
		Type      string    `json:"type"` // "Feature"
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lng, lat]
	} `json:"features"`
}

// ReverseGeocode resolves a coordinate pair to address features. Callers that
// need the never-fails contract wrap this with a coordinate-string fallback.
func (c *Client) ReverseGeocode(ctx context.Context, lng, lat float64, params *GeocodeQuery) (*GeocodeResponse, error) {
	if c.APIKey == "" {
		return nil, errors.New("mapbox API key is not set")
	}
	if params == nil {
		params = &GeocodeQuery{}
	}
	params.AccessToken = c.APIKey

	values, err := query.Values(params)
	if err != nil {
		return nil, errors.Wrap(err, "build reverse geocode query")
	}

	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%f,%f.json?%s",
		c.BaseURL.String(), lng, lat, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create reverse geocode request")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute reverse geocode request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("reverse geocode error: status code %d", resp.StatusCode)
	}

	var result GeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode reverse geocode response")
	}
	return &result, nil
}
