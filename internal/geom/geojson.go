package geom

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// idProperties are consulted, in order, when a feature carries no top-level id.
var idProperties = []string{"id", "iso_n3", "ISO_N3", "iso_numeric"}

var nameProperties = []string{"name", "NAME", "ADMIN", "admin"}

// DecodeGeoJSON accepts a FeatureCollection, a Feature or a bare geometry.
func DecodeGeoJSON(data []byte) ([]Feature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	var fc *geojson.FeatureCollection
	switch head.Type {
	case "FeatureCollection":
		c, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fc = c
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fc = geojson.NewFeatureCollection().AddFeature(f)
	case "":
		return nil, fmt.Errorf("geojson: missing type: %w", ErrUnsupportedFormat)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		fc = geojson.NewFeatureCollection().AddFeature(geojson.NewFeature(g))
	}
	features := FromFeatureCollection(fc)
	if len(features) == 0 {
		return nil, fmt.Errorf("geojson: %w", ErrNoFeatures)
	}
	return features, nil
}

// FromFeatureCollection keeps the polygonal part of every feature. Features
// with no polygons are still returned so callers can count them as skipped.
func FromFeatureCollection(fc *geojson.FeatureCollection) []Feature {
	out := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		feat := Feature{ID: featureID(f), Name: propertyString(f.Properties, nameProperties)}
		feat.Polygons = appendGeometry(feat.Polygons, f.Geometry)
		out = append(out, feat)
	}
	return out
}

func appendGeometry(dst []Polygon, g *geojson.Geometry) []Polygon {
	if g == nil {
		return dst
	}
	switch {
	case g.IsPolygon():
		dst = append(dst, toPolygon(g.Polygon))
	case g.IsMultiPolygon():
		for _, p := range g.MultiPolygon {
			dst = append(dst, toPolygon(p))
		}
	case g.IsCollection():
		for _, sub := range g.Geometries {
			dst = appendGeometry(dst, sub)
		}
	}
	return dst
}

func toPolygon(rings [][][]float64) Polygon {
	poly := make(Polygon, 0, len(rings))
	for _, r := range rings {
		ring := make(Ring, 0, len(r))
		for _, pos := range r {
			if len(pos) < 2 {
				continue
			}
			ring = append(ring, [2]float64{pos[0], pos[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}

func featureID(f *geojson.Feature) string {
	if id := idString(f.ID); id != "" {
		return id
	}
	return propertyString(f.Properties, idProperties)
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

func propertyString(props map[string]any, keys []string) string {
	for _, k := range keys {
		if s := idString(props[k]); s != "" {
			return s
		}
	}
	return ""
}
