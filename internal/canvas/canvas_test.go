package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// isStroke reports whether the pixel is dominated by the default green.
func isStroke(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return g>>8 > 200 && r>>8 < 60 && b>>8 < 60
}

func TestNew(t *testing.T) {
	t.Run("starts blank and pen up", func(t *testing.T) {
		c := New(64, 48, nil, 0)

		if got := c.Bounds(); got != image.Rect(0, 0, 64, 48) {
			t.Errorf("Bounds() = %v, want 64x48", got)
		}
		if !c.Blank() {
			t.Error("new canvas should be blank")
		}
		if _, down := c.Anchor(); down {
			t.Error("new canvas should have the pen lifted")
		}
	})

	t.Run("invalid size falls back to default", func(t *testing.T) {
		c := New(0, -1, nil, 0)
		if got := c.Bounds(); got != image.Rect(0, 0, DefaultWidth, DefaultHeight) {
			t.Errorf("Bounds() = %v, want default", got)
		}
	})
}

func TestCanvas_LineTo(t *testing.T) {
	t.Run("first point only sets anchor", func(t *testing.T) {
		c := New(64, 48, DefaultColor, 5)

		if c.LineTo(image.Pt(10, 10)) {
			t.Error("first LineTo should not draw")
		}
		if !c.Blank() {
			t.Error("canvas should still be blank")
		}
		if p, down := c.Anchor(); !down || p != image.Pt(10, 10) {
			t.Errorf("Anchor() = %v, %v; want (10,10), true", p, down)
		}
	})

	t.Run("second point draws segment", func(t *testing.T) {
		c := New(64, 48, DefaultColor, 5)
		c.LineTo(image.Pt(10, 20))

		if !c.LineTo(image.Pt(50, 20)) {
			t.Error("second LineTo should draw")
		}
		if !isStroke(c.Image(), 30, 20) {
			t.Error("expected stroke pixel at segment midpoint")
		}
		if isStroke(c.Image(), 30, 40) {
			t.Error("unexpected stroke pixel away from the segment")
		}
		if c.Segments() != 1 {
			t.Errorf("Segments() = %d, want 1", c.Segments())
		}
	})

	t.Run("lift breaks the stroke", func(t *testing.T) {
		c := New(64, 48, DefaultColor, 3)
		c.LineTo(image.Pt(5, 5))
		c.Lift()

		if c.LineTo(image.Pt(55, 40)) {
			t.Error("LineTo after Lift should not draw")
		}
		if !c.Blank() {
			t.Error("no segment should connect across a lift")
		}
	})

	t.Run("custom color", func(t *testing.T) {
		red := color.RGBA{R: 255, A: 255}
		c := New(64, 48, red, 5)
		c.LineTo(image.Pt(10, 10))
		c.LineTo(image.Pt(50, 10))

		r, g, _, _ := c.Image().At(30, 10).RGBA()
		if r>>8 < 200 || g>>8 > 60 {
			t.Errorf("expected red stroke, got r=%d g=%d", r>>8, g>>8)
		}
	})
}

func TestCanvas_ClearAndReset(t *testing.T) {
	c := New(64, 48, DefaultColor, 5)
	c.LineTo(image.Pt(10, 10))
	c.LineTo(image.Pt(50, 30))

	c.Clear()
	if !c.Blank() {
		t.Error("Clear should blank the raster")
	}
	if _, down := c.Anchor(); !down {
		t.Error("Clear should keep the pen state")
	}

	c.LineTo(image.Pt(20, 20))
	c.Reset()
	if !c.Blank() {
		t.Error("Reset should blank the raster")
	}
	if _, down := c.Anchor(); down {
		t.Error("Reset should lift the pen")
	}
}

func TestCanvas_Settings(t *testing.T) {
	c := New(64, 48, DefaultColor, 5)

	c.SetBrushSize(0)
	c.SetColor(nil)
	if c.brush != 5 || c.color != color.Color(DefaultColor) {
		t.Error("invalid settings should be ignored")
	}

	c.SetBrushSize(9)
	c.SetColor(color.White)
	if c.brush != 9 || c.color != color.Color(color.White) {
		t.Error("valid settings should apply")
	}
}

func TestCanvas_EncodePNG(t *testing.T) {
	c := New(40, 30, nil, 0)
	c.LineTo(image.Pt(5, 5))
	c.LineTo(image.Pt(30, 5))

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
	if !isStroke(img, 15, 5) {
		t.Error("stroke should survive encoding")
	}
}
