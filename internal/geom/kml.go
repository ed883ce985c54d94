package geom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type kmlPolygon struct {
	Outer string   `xml:"outerBoundaryIs>LinearRing>coordinates"`
	Inner []string `xml:"innerBoundaryIs>LinearRing>coordinates"`
}

type kmlPlacemark struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name"`
	Polygons []kmlPolygon `xml:"Polygon"`
	Multi    []kmlPolygon `xml:"MultiGeometry>Polygon"`
}

// DecodeKML extracts every Placemark polygon, wherever it sits in the
// Document/Folder tree. KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func DecodeKML(data []byte) ([]Feature, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []Feature
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("kml: placemark: %w", err)
		}
		f := Feature{ID: strings.TrimSpace(pm.ID), Name: strings.TrimSpace(pm.Name)}
		if f.ID == "" {
			f.ID = f.Name
		}
		for _, kp := range append(pm.Polygons, pm.Multi...) {
			poly := Polygon{parseKMLCoords(kp.Outer)}
			for _, in := range kp.Inner {
				poly = append(poly, parseKMLCoords(in))
			}
			f.Polygons = append(f.Polygons, poly)
		}
		if len(f.Polygons) > 0 {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("kml: %w", ErrNoFeatures)
	}
	return out, nil
}

func parseKMLCoords(s string) Ring {
	var ring Ring
	// tuples are whitespace separated
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ring = append(ring, [2]float64{lon, lat})
	}
	return ring
}
