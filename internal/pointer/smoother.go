// Package pointer maps the tracked fingertip to screen pixels and steadies it.
package pointer

import (
	"image"

	"github.com/ayusman/airpointer/internal/detector"
)

// DefaultAlpha weights the newest sample equally with the smoothed history.
const DefaultAlpha = 0.5

// Screen is the fixed size of the target display in pixels.
type Screen struct {
	Width  int
	Height int
}

// Map converts a normalized landmark position to whole screen pixels.
func (s Screen) Map(p detector.Point3D) (x, y int) {
	return int(p.X * float64(s.Width)), int(p.Y * float64(s.Height))
}

// Smoother applies exponential smoothing to a stream of screen positions.
// Its history starts at the origin and is never cleared, so the first
// positions after start-up or after the hand reappears glide in from the
// last smoothed point.
type Smoother struct {
	alpha float64
	x, y  float64
}

// NewSmoother creates a Smoother. Alpha outside (0, 1] falls back to DefaultAlpha.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Smoother{alpha: alpha}
}

// Smooth folds the raw position into the history and returns the smoothed
// position truncated to whole pixels.
func (s *Smoother) Smooth(x, y int) image.Point {
	s.x += s.alpha * (float64(x) - s.x)
	s.y += s.alpha * (float64(y) - s.y)
	return image.Pt(int(s.x), int(s.y))
}

// Position returns the unrounded smoothed position.
func (s *Smoother) Position() (x, y float64) {
	return s.x, s.y
}

// Alpha returns the smoothing factor in use.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}
