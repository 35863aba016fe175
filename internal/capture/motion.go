package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	motionBlurSize  = 21
	motionPixelDiff = 25
)

// MotionMeter reports how much of the picture changed between consecutive
// frames. The camera test shows it so a user can tell a live feed from a
// frozen one.
type MotionMeter struct {
	mu   sync.Mutex
	prev gocv.Mat
	seen bool
}

// NewMotionMeter creates a MotionMeter with no baseline.
func NewMotionMeter() *MotionMeter {
	return &MotionMeter{prev: gocv.NewMat()}
}

// Level returns the percentage (0-100) of pixels that differ noticeably from
// the previous frame. The first frame after construction or Reset returns 0.
func (m *MotionMeter) Level(frame *gocv.Mat) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(motionBlurSize, motionBlurSize), 0, 0, gocv.BorderDefault)

	defer gray.CopyTo(&m.prev)

	if !m.seen || m.prev.Rows() != gray.Rows() || m.prev.Cols() != gray.Cols() {
		m.seen = true
		return 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prev, &diff)
	gocv.Threshold(diff, &diff, motionPixelDiff, 255, gocv.ThresholdBinary)

	total := diff.Rows() * diff.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(diff)) / float64(total) * 100
}

// Reset drops the baseline frame.
func (m *MotionMeter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = false
}

// Close releases the baseline frame.
func (m *MotionMeter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = false
	return m.prev.Close()
}
