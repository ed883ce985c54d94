package geom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	polySep = regexp.MustCompile(`\)\s*\)\s*,\s*\(\s*\(`)
	ringSep = regexp.MustCompile(`\)\s*,\s*\(`)
	// parenSpace is whitespace around parentheses, which WKT allows freely.
	parenSpace = regexp.MustCompile(`\s*([()])\s*`)
)

// ParseWKT reads a POLYGON or MULTIPOLYGON into a feature with the given id.
// Tuples that fail to parse are skipped.
func ParseWKT(id, wkt string) (Feature, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Feature{}, fmt.Errorf("wkt: empty: %w", ErrNoFeatures)
	}
	parseTuples := func(block string) Ring {
		var out Ring
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, [2]float64{x, y})
		}
		return out
	}
	parsePolygon := func(body string) Polygon {
		var poly Polygon
		for _, rp := range ringSep.Split(body, -1) {
			rp = strings.Trim(strings.TrimSpace(rp), "()")
			if ring := parseTuples(rp); len(ring) > 0 {
				poly = append(poly, ring)
			}
		}
		return poly
	}

	s = parenSpace.ReplaceAllString(s, "$1")
	up := strings.ToUpper(s)
	f := Feature{ID: id}
	switch {
	case strings.HasPrefix(up, "MULTIPOLYGON"):
		i := strings.Index(s, "(((")
		j := strings.LastIndex(s, ")))")
		if i < 0 || j <= i {
			return Feature{}, fmt.Errorf("wkt: multipolygon: %w", ErrUnsupportedFormat)
		}
		for _, body := range polySep.Split(s[i+3:j], -1) {
			if poly := parsePolygon(body); len(poly) > 0 {
				f.Polygons = append(f.Polygons, poly)
			}
		}
	case strings.HasPrefix(up, "POLYGON"):
		i := strings.Index(s, "((")
		j := strings.LastIndex(s, "))")
		if i < 0 || j <= i {
			return Feature{}, fmt.Errorf("wkt: polygon: %w", ErrUnsupportedFormat)
		}
		if poly := parsePolygon(s[i+2 : j]); len(poly) > 0 {
			f.Polygons = append(f.Polygons, poly)
		}
	default:
		return Feature{}, fmt.Errorf("wkt: type: %w", ErrUnsupportedFormat)
	}
	if len(f.Polygons) == 0 {
		return Feature{}, fmt.Errorf("wkt: no coordinates parsed: %w", ErrNoFeatures)
	}
	return f, nil
}
