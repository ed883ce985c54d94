package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// PNG collects instructions as SVG and rasterises them on Close.
type PNG struct {
	w          io.Writer
	buf        bytes.Buffer
	doc        *SVG
	width      int
	height     int
	background color.Color
	closed     bool
}

// NewPNG returns a surface that encodes a width x height PNG into w.
// A nil background leaves the image transparent.
func NewPNG(w io.Writer, c Canvas, p Palette, background color.Color) (*PNG, error) {
	width, height := int(math.Round(c.Width)), int(math.Round(c.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("png: invalid canvas %vx%v", c.Width, c.Height)
	}
	s := &PNG{w: w, width: width, height: height, background: background}
	s.doc = NewSVG(&s.buf, c, p)
	return s, nil
}

func (s *PNG) Draw(in Instruction) error {
	if s.closed {
		return errSurfaceClosed
	}
	return s.doc.Draw(in)
}

// Close rasterises the buffered document and writes the PNG.
func (s *PNG) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.doc.Close(); err != nil {
		return err
	}
	img, err := Rasterize(&s.buf, s.width, s.height, s.background)
	if err != nil {
		return err
	}
	return png.Encode(s.w, img)
}

// Rasterize draws an SVG document onto a width x height RGBA image.
func Rasterize(r io.Reader, width, height int, background color.Color) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("png: parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1)
	return img, nil
}
