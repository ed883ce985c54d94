package geom

import (
	"fmt"
	"math"
)

const radians = math.Pi / 180

// Projection is the Natural Earth I world projection followed by a uniform
// scale and a translation into screen space. Screen y grows downward.
type Projection struct {
	Scale     float64
	Translate [2]float64
}

// NewProjection validates scale and returns a projection centred on (tx, ty).
func NewProjection(scale, tx, ty float64) (Projection, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return Projection{}, fmt.Errorf("new projection: scale %v: %w", scale, ErrInvalidScale)
	}
	return Projection{Scale: scale, Translate: [2]float64{tx, ty}}, nil
}

// naturalEarth1 is the raw polynomial projection of (lambda, phi) in radians.
func naturalEarth1(lambda, phi float64) (x, y float64) {
	phi2 := phi * phi
	phi4 := phi2 * phi2
	x = lambda * (0.8707 - 0.131979*phi2 + phi4*(-0.013791+phi4*(0.003971*phi2-0.001529*phi4)))
	y = phi * (1.007226 + phi2*(0.015085+phi4*(-0.044475+0.028874*phi2-0.005916*phi4)))
	return x, y
}

// Project maps lon/lat degrees to screen coordinates. Inputs that are NaN,
// infinite or outside [-180,180]x[-90,90] yield (NaN, NaN).
func (p Projection) Project(lon, lat float64) (float64, float64) {
	if !(lon >= -180 && lon <= 180) || !(lat >= -90 && lat <= 90) {
		return math.NaN(), math.NaN()
	}
	x, y := naturalEarth1(lon*radians, lat*radians)
	return x*p.Scale + p.Translate[0], p.Translate[1] - y*p.Scale
}

// rawExtent is the half-width and half-height of the unscaled globe.
func rawExtent() (float64, float64) {
	hx, _ := naturalEarth1(math.Pi, 0)
	_, hy := naturalEarth1(0, math.Pi/2)
	return hx, hy
}

// Bounds returns the screen-space box covering the whole globe.
func (p Projection) Bounds() BBox {
	hx, hy := rawExtent()
	return BBox{
		MinX: p.Translate[0] - hx*p.Scale,
		MinY: p.Translate[1] - hy*p.Scale,
		MaxX: p.Translate[0] + hx*p.Scale,
		MaxY: p.Translate[1] + hy*p.Scale,
	}
}

// Fit picks the largest scale that puts the whole globe inside a
// width x height extent with padding on every side, centred.
func Fit(width, height, padding float64) (Projection, error) {
	w := width - 2*padding
	h := height - 2*padding
	if !(w > 0) || !(h > 0) {
		return Projection{}, fmt.Errorf("fit %vx%v padding %v: %w", width, height, padding, ErrInvalidScale)
	}
	hx, hy := rawExtent()
	k := math.Min(w/(2*hx), h/(2*hy))
	return NewProjection(k, width/2, height/2)
}
