package app

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/render"
)

// fpsMeter counts frames over one-second windows.
type fpsMeter struct {
	clock  clock.Clock
	start  time.Time
	frames int
	fps    float64
}

func newFPSMeter(clk clock.Clock) *fpsMeter {
	return &fpsMeter{clock: clk, start: clk.Now()}
}

// tick records a frame and returns the rate of the last full window.
func (m *fpsMeter) tick() float64 {
	m.frames++
	if elapsed := m.clock.Since(m.start); elapsed >= time.Second {
		m.fps = float64(m.frames) / elapsed.Seconds()
		m.frames = 0
		m.start = m.clock.Now()
	}
	return m.fps
}

// diagnosticLoop shows frames until 'q' is pressed, ctx ends or the camera
// fails. annotate draws on each frame before it is shown. The camera and
// display are closed on return.
func diagnosticLoop(ctx context.Context, cam capture.Camera, display Display, annotate func(frame *gocv.Mat)) (err error) {
	if !cam.IsOpen() {
		if err := cam.Open(); err != nil {
			return fmt.Errorf("opening camera: %w", err)
		}
	}
	defer func() {
		err = multierr.Combine(err, cam.Close(), display.Close())
	}()

	for ctx.Err() == nil {
		frame, err := cam.ReadFrame()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFrameAcquisition, err)
		}

		annotate(frame)
		display.Show(frame)
		frame.Close()

		if CommandForKey(display.PollKey()) == Quit {
			return nil
		}
	}
	return nil
}

// CameraTest previews the raw camera feed with its frame rate and how much
// of the picture is moving, so a user can check the camera before launching.
func CameraTest(ctx context.Context, cam capture.Camera, display Display, clk clock.Clock) error {
	if clk == nil {
		clk = clock.New()
	}

	motion := capture.NewMotionMeter()
	defer motion.Close()
	fps := newFPSMeter(clk)

	return diagnosticLoop(ctx, cam, display, func(frame *gocv.Mat) {
		level := motion.Level(frame)
		render.Text(frame, fmt.Sprintf("FPS: %.1f", fps.tick()), 30)
		render.Text(frame, fmt.Sprintf("Motion: %.1f%%", level), 60)
		render.Text(frame, "Press 'q' to quit", frame.Rows()-20)
	})
}

// HandTest shows the detected hand skeleton with every landmark labelled
// by its index.
func HandTest(ctx context.Context, cam capture.Camera, det detector.Detector, display Display) error {
	return diagnosticLoop(ctx, cam, display, func(frame *gocv.Mat) {
		hands, err := det.Detect(frame)
		if err != nil {
			render.Text(frame, "Detection error: "+err.Error(), 30)
			return
		}

		hand, ok := detector.Primary(hands)
		if !ok {
			render.Text(frame, ActionNoHand, 30)
			return
		}

		render.Skeleton(frame, hand, true)
		render.Text(frame, fmt.Sprintf("%s hand (%.2f)", hand.Handedness, hand.Score), 30)
		render.Text(frame, "Press 'q' to quit", frame.Rows()-20)
	})
}
