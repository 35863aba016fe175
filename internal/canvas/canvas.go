// Package canvas holds the persistent air-drawing raster and the pen state.
package canvas

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Default canvas settings.
const (
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultBrushSize = 5
)

// DefaultColor is the stroke color used when none is configured.
var DefaultColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// background is the color of an empty canvas.
var background = color.RGBA{A: 255}

// Canvas is an opaque black raster that strokes are drawn onto. It tracks
// the pen anchor: the last point drawn, or none when the pen is lifted.
type Canvas struct {
	dc       *gg.Context
	color    color.Color
	brush    float64
	anchor   image.Point
	down     bool
	segments int
}

// New creates a cleared canvas of the given size. Non-positive dimensions
// fall back to the defaults.
func New(width, height int, stroke color.Color, brush float64) *Canvas {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	if stroke == nil {
		stroke = DefaultColor
	}
	if brush <= 0 {
		brush = DefaultBrushSize
	}

	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapRound)

	c := &Canvas{
		dc:    dc,
		color: stroke,
		brush: brush,
	}
	c.Clear()
	return c
}

// LineTo draws a segment from the anchor to p when the pen is down, then
// moves the anchor to p. With the pen lifted it only puts the pen down at p.
// It reports whether a segment was drawn.
func (c *Canvas) LineTo(p image.Point) bool {
	drew := false
	if c.down {
		c.dc.SetColor(c.color)
		c.dc.SetLineWidth(c.brush)
		c.dc.DrawLine(float64(c.anchor.X), float64(c.anchor.Y), float64(p.X), float64(p.Y))
		c.dc.Stroke()
		c.segments++
		drew = true
	}
	c.anchor = p
	c.down = true
	return drew
}

// Lift raises the pen so the next LineTo starts a disconnected stroke.
func (c *Canvas) Lift() {
	c.down = false
}

// Anchor returns the pen anchor and whether the pen is down.
func (c *Canvas) Anchor() (image.Point, bool) {
	return c.anchor, c.down
}

// Clear wipes the raster to black. The pen state is left alone.
func (c *Canvas) Clear() {
	c.dc.SetColor(background)
	c.dc.Clear()
}

// Reset wipes the raster and lifts the pen.
func (c *Canvas) Reset() {
	c.Clear()
	c.Lift()
}

// Image returns the live raster. Callers must not retain it across frames.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// Bounds returns the raster size.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.dc.Width(), c.dc.Height())
}

// Segments returns the number of segments drawn since creation.
func (c *Canvas) Segments() int {
	return c.segments
}

// SetColor changes the stroke color for subsequent segments.
func (c *Canvas) SetColor(stroke color.Color) {
	if stroke != nil {
		c.color = stroke
	}
}

// SetBrushSize changes the stroke width for subsequent segments.
func (c *Canvas) SetBrushSize(size float64) {
	if size > 0 {
		c.brush = size
	}
}

// Blank reports whether no pixel differs from the background.
func (c *Canvas) Blank() bool {
	img := c.dc.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0 || g != 0 || bl != 0 {
				return false
			}
		}
	}
	return true
}

// EncodePNG writes the raster as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
