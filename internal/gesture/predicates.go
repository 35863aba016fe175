package gesture

import "github.com/ayusman/airpointer/internal/detector"

// Image y grows downward, so a raised finger has its tip above (smaller y
// than) its PIP joint. A tip level with its PIP is neither extended nor curled.

func extended(h *detector.HandLandmarks, tip, pip int) bool {
	return h.Points[tip].Y < h.Points[pip].Y
}

func curled(h *detector.HandLandmarks, tip, pip int) bool {
	return h.Points[tip].Y > h.Points[pip].Y
}

// IsIndexPointing reports an index finger raised with the other three curled.
func IsIndexPointing(h *detector.HandLandmarks) bool {
	return extended(h, detector.IndexTip, detector.IndexPIP) &&
		curled(h, detector.MiddleTip, detector.MiddlePIP) &&
		curled(h, detector.RingTip, detector.RingPIP) &&
		curled(h, detector.PinkyTip, detector.PinkyPIP)
}

// IsOpenPalm reports all four fingers raised.
func IsOpenPalm(h *detector.HandLandmarks) bool {
	return extended(h, detector.IndexTip, detector.IndexPIP) &&
		extended(h, detector.MiddleTip, detector.MiddlePIP) &&
		extended(h, detector.RingTip, detector.RingPIP) &&
		extended(h, detector.PinkyTip, detector.PinkyPIP)
}

// IsScrollPose reports index and middle raised with ring and pinky curled.
func IsScrollPose(h *detector.HandLandmarks) bool {
	return extended(h, detector.IndexTip, detector.IndexPIP) &&
		extended(h, detector.MiddleTip, detector.MiddlePIP) &&
		curled(h, detector.RingTip, detector.RingPIP) &&
		curled(h, detector.PinkyTip, detector.PinkyPIP)
}

// PinchDistance returns the 3D distance between the thumb and index fingertips.
func PinchDistance(h *detector.HandLandmarks) float64 {
	return detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
}
