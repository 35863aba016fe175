package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect once the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// Queue appends per-frame results that Detect returns in order before
// falling back to the hands set with SetHands. A nil entry means no hand.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next queued result, the pre-configured hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Finger columns and joint heights used by Pose.
const (
	poseMCPY          = 0.60
	posePIPY          = 0.50
	poseExtendedDIPY  = 0.40
	poseExtendedTipY  = 0.30
	poseCurledDIPY    = 0.55
	poseCurledTipY    = 0.62
	poseFingerSpacing = 0.05
)

// Pose builds a right hand facing the camera with each of the four fingers
// either extended (tip above its PIP joint) or curled (tip below it).
// The thumb rests away from the index finger.
func Pose(index, middle, ring, pinky bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.42, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.37, Y: 0.68, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.33, Y: 0.62, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.30, Y: 0.57, Z: 0.0}

	fingers := []struct {
		mcp      int
		extended bool
	}{
		{IndexMCP, index},
		{MiddleMCP, middle},
		{RingMCP, ring},
		{PinkyMCP, pinky},
	}

	for i, f := range fingers {
		x := 0.45 + float64(i)*poseFingerSpacing
		landmarks.Points[f.mcp] = Point3D{X: x, Y: poseMCPY, Z: 0.0}
		landmarks.Points[f.mcp+1] = Point3D{X: x, Y: posePIPY, Z: 0.0}
		if f.extended {
			landmarks.Points[f.mcp+2] = Point3D{X: x, Y: poseExtendedDIPY, Z: 0.0}
			landmarks.Points[f.mcp+3] = Point3D{X: x, Y: poseExtendedTipY, Z: 0.0}
		} else {
			landmarks.Points[f.mcp+2] = Point3D{X: x, Y: poseCurledDIPY, Z: -0.03}
			landmarks.Points[f.mcp+3] = Point3D{X: x, Y: poseCurledTipY, Z: -0.02}
		}
	}

	return landmarks
}

// PointingLandmarks returns a hand with only the index finger raised.
func PointingLandmarks() HandLandmarks {
	return Pose(true, false, false, false)
}

// OpenPalmLandmarks returns a hand with all four fingers raised.
func OpenPalmLandmarks() HandLandmarks {
	return Pose(true, true, true, true)
}

// ScrollLandmarks returns a hand with index and middle raised, ring and pinky curled.
func ScrollLandmarks() HandLandmarks {
	return Pose(true, true, false, false)
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return Pose(false, false, false, false)
}

// PinchLandmarks returns a pointing hand whose thumb tip touches the index tip.
func PinchLandmarks() HandLandmarks {
	return WithThumbDistance(PointingLandmarks(), 0.02)
}

// WithThumbDistance moves the thumb tip so that it sits dist to the right of
// the index fingertip.
func WithThumbDistance(h HandLandmarks, dist float64) HandLandmarks {
	tip := h.Points[IndexTip]
	h.Points[ThumbTip] = Point3D{X: tip.X + dist, Y: tip.Y, Z: tip.Z}
	return h
}

// WithOffset translates every landmark by (dx, dy).
func WithOffset(h HandLandmarks, dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
