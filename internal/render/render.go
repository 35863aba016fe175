// Package render draws the preview overlay: the hand skeleton, the drawing
// canvas blended over the camera frame, and the status text.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/detector"
)

// Blend weights of the camera frame and the canvas.
const (
	FrameWeight  = 0.8
	CanvasWeight = 0.2
)

// HelpText lists the keyboard commands.
const HelpText = "'d' to toggle modes | 'c' to clear | 's' to save | 'q' to quit"

var (
	modeColor   = color.RGBA{R: 255, A: 255}
	actionColor = color.RGBA{G: 255, A: 255}
	helpColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	boneColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	jointColor  = color.RGBA{R: 255, A: 255}
	tipColor    = color.RGBA{R: 255, G: 128, A: 255}
	labelColor  = color.RGBA{G: 255, B: 255, A: 255}
)

var fingertips = map[int]bool{
	detector.ThumbTip:  true,
	detector.IndexTip:  true,
	detector.MiddleTip: true,
	detector.RingTip:   true,
	detector.PinkyTip:  true,
}

// Layer is everything drawn on top of one camera frame.
type Layer struct {
	// Hand is drawn as a skeleton when set.
	Hand *detector.HandLandmarks
	// Labels adds the landmark index next to every joint.
	Labels bool
	// Canvas is resized to the frame and blended over it when set.
	Canvas image.Image

	Mode   string
	Help   string
	Action string
}

// Compose draws layer onto frame in place. The canvas goes first so text and
// skeleton stay crisp.
func Compose(frame *gocv.Mat, layer Layer) error {
	if frame == nil || frame.Empty() {
		return nil
	}

	if layer.Canvas != nil {
		if err := BlendCanvas(frame, layer.Canvas); err != nil {
			return err
		}
	}

	if layer.Hand != nil {
		Skeleton(frame, layer.Hand, layer.Labels)
	}

	rows := frame.Rows()
	if layer.Mode != "" {
		gocv.PutText(frame, layer.Mode, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, modeColor, 2)
	}
	if layer.Help != "" {
		gocv.PutText(frame, layer.Help, image.Pt(10, 60), gocv.FontHersheySimplex, 0.6, helpColor, 1)
	}
	if layer.Action != "" {
		gocv.PutText(frame, layer.Action, image.Pt(20, rows-30), gocv.FontHersheySimplex, 0.8, actionColor, 2)
	}

	return nil
}

// BlendCanvas resizes img to the frame and mixes it in with the fixed weights.
func BlendCanvas(frame *gocv.Mat, img image.Image) error {
	canvasMat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("converting canvas: %w", err)
	}
	defer canvasMat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(canvasMat, &resized, image.Pt(frame.Cols(), frame.Rows()), 0, 0, gocv.InterpolationLinear)

	gocv.AddWeighted(*frame, FrameWeight, resized, CanvasWeight, 0, frame)
	return nil
}

// Skeleton draws the hand connections and joints. With labels set every
// joint is annotated with its landmark index.
func Skeleton(frame *gocv.Mat, hand *detector.HandLandmarks, labels bool) {
	w, h := frame.Cols(), frame.Rows()

	for _, c := range detector.Connections {
		a := ToPixel(hand.Points[c[0]], w, h)
		b := ToPixel(hand.Points[c[1]], w, h)
		gocv.Line(frame, a, b, boneColor, 2)
	}

	for i, p := range hand.Points {
		pt := ToPixel(p, w, h)
		if fingertips[i] {
			gocv.Circle(frame, pt, 6, tipColor, -1)
		} else {
			gocv.Circle(frame, pt, 4, jointColor, -1)
		}
		if labels {
			gocv.PutText(frame, fmt.Sprint(i), pt.Add(image.Pt(6, -6)), gocv.FontHersheySimplex, 0.4, labelColor, 1)
		}
	}
}

// Text writes a single line at the given row, in the action style.
func Text(frame *gocv.Mat, text string, row int) {
	gocv.PutText(frame, text, image.Pt(10, row), gocv.FontHersheySimplex, 0.7, actionColor, 2)
}

// ToPixel maps a normalized landmark onto a w by h image.
func ToPixel(p detector.Point3D, w, h int) image.Point {
	return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
}
