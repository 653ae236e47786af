package util

import (
	"fmt"
	"log"

	"github.com/twpayne/go-polyline"
)

// FormatFallbackAddress renders a coordinate pair as "lat, lng" rounded to
// 4 decimals. Used whenever reverse geocoding cannot produce a real address.
func FormatFallbackAddress(lng, lat float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

// DecodePolyline decodes an encoded polyline shape into [lat, lng] pairs.
func DecodePolyline(shape string) ([][]float64, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		log.Println("error decoding polyline: ", err)
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	return decoded, nil
}

// PolylineToLngLat decodes an encoded polyline into [lng, lat] pairs, the
// order map renderers and GeoJSON expect.
func PolylineToLngLat(shape string) ([][2]float64, error) {
	decoded, err := DecodePolyline(shape)
	if err != nil {
		return nil, err
	}
	coords := make([][2]float64, len(decoded))
	for i, pair := range decoded {
		coords[i] = [2]float64{pair[1], pair[0]}
	}
	return coords, nil
}
