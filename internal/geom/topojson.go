package geom

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

type topology struct {
	Type      string                   `json:"type"`
	Transform *topoTransform           `json:"transform"`
	Objects   map[string]*topoGeometry `json:"objects"`
	Arcs      [][][]float64            `json:"arcs"`
	decoded   [][][2]float64
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoGeometry struct {
	Type       string          `json:"type"`
	ID         any             `json:"id"`
	Properties map[string]any  `json:"properties"`
	Arcs       json.RawMessage `json:"arcs"`
	Geometries []*topoGeometry `json:"geometries"`
}

// DecodeTopoJSON converts the named object of a Topology into a GeoJSON
// feature collection. An empty name selects the only object when there is
// exactly one.
func DecodeTopoJSON(data []byte, object string) (*geojson.FeatureCollection, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("topojson: %w", err)
	}
	if topo.Type != "Topology" {
		return nil, fmt.Errorf("topojson: type %q: %w", topo.Type, ErrUnsupportedFormat)
	}
	obj, err := topo.object(object)
	if err != nil {
		return nil, err
	}
	topo.decodeArcs()

	fc := geojson.NewFeatureCollection()
	if obj.Type == "GeometryCollection" {
		for _, g := range obj.Geometries {
			if g != nil {
				fc.AddFeature(topo.feature(g))
			}
		}
	} else {
		fc.AddFeature(topo.feature(obj))
	}
	return fc, nil
}

func (t *topology) object(name string) (*topoGeometry, error) {
	if len(t.Objects) == 0 {
		return nil, fmt.Errorf("topojson: no objects: %w", ErrNoFeatures)
	}
	if obj, ok := t.Objects[name]; ok && obj != nil {
		return obj, nil
	}
	if name == "" && len(t.Objects) == 1 {
		for _, obj := range t.Objects {
			if obj != nil {
				return obj, nil
			}
		}
	}
	names := make([]string, 0, len(t.Objects))
	for k := range t.Objects {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("topojson: object %q not found (have %s): %w", name, strings.Join(names, ", "), ErrNoFeatures)
}

// decodeArcs resolves delta encoding and the quantisation transform once.
func (t *topology) decodeArcs() {
	t.decoded = make([][][2]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		pts := make([][2]float64, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform == nil {
				pts = append(pts, [2]float64{pos[0], pos[1]})
				continue
			}
			x += pos[0]
			y += pos[1]
			pts = append(pts, [2]float64{
				snap(x*t.Transform.Scale[0]+t.Transform.Translate[0], 180),
				snap(y*t.Transform.Scale[1]+t.Transform.Translate[1], 90),
			})
		}
		t.decoded[i] = pts
	}
}

// snapEpsilon absorbs the rounding of quantised coordinates at the edges
// of the globe.
const snapEpsilon = 1e-9

// snap moves v onto ±bound when dequantisation lands it just past or short
// of it.
func snap(v, bound float64) float64 {
	if math.Abs(math.Abs(v)-bound) < snapEpsilon {
		return math.Copysign(bound, v)
	}
	return v
}

// arc returns arc i; a negative index is the reversed arc ^i.
func (t *topology) arc(i int) [][2]float64 {
	j := i
	if i < 0 {
		j = ^i
	}
	if j < 0 || j >= len(t.decoded) {
		return nil
	}
	src := t.decoded[j]
	if i >= 0 {
		return src
	}
	rev := make([][2]float64, len(src))
	for k, p := range src {
		rev[len(src)-1-k] = p
	}
	return rev
}

func (t *topology) ring(indexes []int) [][]float64 {
	var out [][]float64
	for _, i := range indexes {
		a := t.arc(i)
		if len(out) > 0 && len(a) > 0 {
			// consecutive arcs share their joining point
			a = a[1:]
		}
		for _, p := range a {
			out = append(out, []float64{p[0], p[1]})
		}
	}
	return out
}

func (t *topology) polygon(rings [][]int) [][][]float64 {
	out := make([][][]float64, 0, len(rings))
	for _, r := range rings {
		out = append(out, t.ring(r))
	}
	return out
}

func (t *topology) geometry(g *topoGeometry) *geojson.Geometry {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil
		}
		return geojson.NewPolygonGeometry(t.polygon(rings))
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil
		}
		out := make([][][][]float64, 0, len(polys))
		for _, p := range polys {
			out = append(out, t.polygon(p))
		}
		return geojson.NewMultiPolygonGeometry(out...)
	case "GeometryCollection":
		var geoms []*geojson.Geometry
		for _, sub := range g.Geometries {
			if sub == nil {
				continue
			}
			if gg := t.geometry(sub); gg != nil {
				geoms = append(geoms, gg)
			}
		}
		return geojson.NewCollectionGeometry(geoms...)
	}
	// points and lines carry no area to shade
	return nil
}

func (t *topology) feature(g *topoGeometry) *geojson.Feature {
	f := geojson.NewFeature(t.geometry(g))
	f.ID = g.ID
	if g.Properties != nil {
		f.Properties = g.Properties
	}
	return f
}
