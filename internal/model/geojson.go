package model

import "fmt"

// Point is a GeoJSON Point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// LineString is a GeoJSON LineString. Coordinates are [longitude, latitude]
// pairs describing a path.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func NewPoint(lng, lat float64) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func NewLineString(coords [][2]float64) LineString {
	return LineString{Type: "LineString", Coordinates: coords}
}

func (p Point) Lng() float64 { return p.Coordinates[0] }
func (p Point) Lat() float64 { return p.Coordinates[1] }

func (p Point) Validate() error {
	if p.Type != "Point" {
		return fmt.Errorf("geometry type must be \"Point\", got %q", p.Type)
	}
	return validateLngLat(p.Coordinates)
}

func (l LineString) Validate() error {
	if l.Type != "LineString" {
		return fmt.Errorf("geometry type must be \"LineString\", got %q", l.Type)
	}
	if len(l.Coordinates) < 2 {
		return fmt.Errorf("line string must have at least 2 coordinates, got %d", len(l.Coordinates))
	}
	for i, pair := range l.Coordinates {
		if err := validateLngLat(pair); err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return nil
}

func validateLngLat(pair [2]float64) error {
	if pair[0] < -180 || pair[0] > 180 {
		return fmt.Errorf("longitude %v out of range", pair[0])
	}
	if pair[1] < -90 || pair[1] > 90 {
		return fmt.Errorf("latitude %v out of range", pair[1])
	}
	return nil
}
