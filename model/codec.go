// Package model provides the data models for EffiMapPro and the codec that
// converts them to and from stored documents.
package model

import (
	"encoding/json"
	"time"
)

// GeoPoint is the stored representation of a geographic point.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates is a [lat, lng] pair.
type Coordinates [2]float64

// Lat returns the latitude.
func (c Coordinates) Lat() float64 { return c[0] }

// Lng returns the longitude.
func (c Coordinates) Lng() float64 { return c[1] }

// EncodeCoordinates converts a [lat, lng] pair to a GeoPoint.
func EncodeCoordinates(c Coordinates) GeoPoint {
	return GeoPoint{Latitude: c[0], Longitude: c[1]}
}

// DecodeCoordinates converts a stored point back to a [lat, lng] pair.
// Anything that is not a GeoPoint or an object with numeric latitude and
// longitude decodes to [0, 0].
func DecodeCoordinates(v interface{}) Coordinates {
	switch t := v.(type) {
	case GeoPoint:
		return Coordinates{t.Latitude, t.Longitude}
	case *GeoPoint:
		if t != nil {
			return Coordinates{t.Latitude, t.Longitude}
		}
	case map[string]interface{}:
		lat, okLat := toFloat(t["latitude"])
		lng, okLng := toFloat(t["longitude"])
		if okLat && okLng {
			return Coordinates{lat, lng}
		}
	}
	return Coordinates{0, 0}
}

// EncodeBoundary converts a territory boundary to stored points.
func EncodeBoundary(boundary []Coordinates) []GeoPoint {
	points := make([]GeoPoint, 0, len(boundary))
	for _, c := range boundary {
		points = append(points, EncodeCoordinates(c))
	}
	return points
}

// DecodeBoundary converts stored boundary points back to pairs. Non-list
// values decode to an empty boundary.
func DecodeBoundary(v interface{}) []Coordinates {
	boundary := []Coordinates{}

	switch t := v.(type) {
	case []GeoPoint:
		for _, p := range t {
			boundary = append(boundary, DecodeCoordinates(p))
		}
	case []map[string]interface{}:
		for _, p := range t {
			boundary = append(boundary, DecodeCoordinates(p))
		}
	case []interface{}:
		for _, p := range t {
			boundary = append(boundary, DecodeCoordinates(p))
		}
	}
	return boundary
}

// DecodeTimestamp converts a stored timestamp to a time.Time. Accepted forms
// are time.Time, RFC3339 strings, Unix milliseconds and {seconds, nanoseconds}
// objects. Missing or unreadable values decode to now.
func DecodeTimestamp(v interface{}, now time.Time) time.Time {
	switch t := v.(type) {
	case time.Time:
		if !t.IsZero() {
			return t
		}
	case *time.Time:
		if t != nil && !t.IsZero() {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case map[string]interface{}:
		secs, okSecs := toFloat(t["seconds"])
		nanos, _ := toFloat(t["nanoseconds"])
		if okSecs {
			return time.Unix(int64(secs), int64(nanos)).UTC()
		}
	default:
		if ms, ok := toFloat(v); ok {
			return time.UnixMilli(int64(ms)).UTC()
		}
	}
	return now
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func stringField(doc map[string]interface{}, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

// documentID returns the document key, preferring the database key.
func documentID(doc map[string]interface{}) string {
	if key := stringField(doc, "_key"); key != "" {
		return key
	}
	return stringField(doc, "id")
}
