// Package gesture turns per-frame hand landmarks into debounced, discrete
// gesture verdicts.
package gesture

import (
	"math"

	"github.com/ayusman/airpointer/internal/detector"
)

// Kind identifies a discrete gesture verdict.
type Kind int

const (
	// None means no gesture of interest was recognized this frame.
	None Kind = iota
	// IndexPointing is the index finger raised alone.
	IndexPointing
	// Pinch is a debounced thumb-to-index touch; it fires once per touch.
	Pinch
	// OpenPalm is all four fingers raised.
	OpenPalm
	// Scroll is index and middle raised together.
	Scroll
)

// String returns the kind's display name.
func (k Kind) String() string {
	switch k {
	case IndexPointing:
		return "index-pointing"
	case Pinch:
		return "pinch"
	case OpenPalm:
		return "open-palm"
	case Scroll:
		return "scroll"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by its display name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Evaluation order per application mode. The first kind present in a
// Result wins when a single verdict is needed.
var (
	DrawPriority    = []Kind{OpenPalm, IndexPointing}
	PointerPriority = []Kind{Pinch, Scroll}
)

// Config holds classifier thresholds.
type Config struct {
	// PinchThreshold is the thumb-index distance, in normalized units, below
	// which a frame counts toward a pinch.
	PinchThreshold float64

	// PinchDebounceFrames is the number of consecutive pinch frames required
	// before a pinch fires.
	PinchDebounceFrames int

	// ScrollDebounceFrames gates scrolling behind a run of scroll-pose frames.
	// Zero leaves scrolling ungated.
	ScrollDebounceFrames int

	// ScrollNoiseFloor suppresses middle-tip movements at or below this size.
	ScrollNoiseFloor float64

	// ScrollGain scales the middle-tip movement into a scroll amount.
	ScrollGain float64
}

// DefaultConfig returns a Config with the standard thresholds.
func DefaultConfig() Config {
	return Config{
		PinchThreshold:       0.05,
		PinchDebounceFrames:  7,
		ScrollDebounceFrames: 0,
		ScrollNoiseFloor:     0.01,
		ScrollGain:           20,
	}
}

// Result is the classifier output for one frame.
type Result struct {
	// Hand is false when the frame had no hand; every other field is then zero.
	Hand bool

	IndexPointing bool
	OpenPalm      bool

	// Pinch is true only on the frame a debounced pinch fires.
	Pinch bool

	// Scroll is true while the scroll pose is held (past its gate).
	Scroll bool

	// ScrollAmount is the signed scroll for this frame, positive for upward
	// hand motion. Zero when the movement was below the noise floor.
	ScrollAmount float64

	// PinchDistance is the raw thumb-index distance.
	PinchDistance float64
}

// Has reports whether the verdict kind holds for this frame.
func (r Result) Has(k Kind) bool {
	switch k {
	case IndexPointing:
		return r.IndexPointing
	case Pinch:
		return r.Pinch
	case OpenPalm:
		return r.OpenPalm
	case Scroll:
		return r.Scroll
	default:
		return false
	}
}

// First returns the first kind in priority that holds, or None.
func (r Result) First(priority []Kind) Kind {
	for _, k := range priority {
		if r.Has(k) {
			return k
		}
	}
	return None
}

// State is a snapshot of the classifier's cross-frame state.
type State struct {
	PinchActive  bool
	PinchRun     int
	ScrollActive bool
	ScrollRun    int
}

// Classifier evaluates landmark frames one at a time. It keeps the pinch
// and scroll runs and the previous middle fingertip between frames, so a
// single Classifier must see frames in order.
type Classifier struct {
	config  Config
	pinch   *Debouncer
	scroll  *Debouncer
	prevY   float64
	hasPrev bool
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config Config) *Classifier {
	return &Classifier{
		config: config,
		pinch:  NewDebouncer(config.PinchDebounceFrames),
		scroll: NewDebouncer(config.ScrollDebounceFrames),
	}
}

// Evaluate classifies the current frame. A nil hand means nothing was
// detected: runs in progress are broken and the previous scroll sample is
// dropped so the next hand starts fresh.
func (c *Classifier) Evaluate(hand *detector.HandLandmarks) Result {
	if hand == nil {
		c.pinch.Reset()
		c.scroll.Reset()
		c.hasPrev = false
		return Result{}
	}

	dist := PinchDistance(hand)
	result := Result{
		Hand:          true,
		IndexPointing: IsIndexPointing(hand),
		OpenPalm:      IsOpenPalm(hand),
		PinchDistance: dist,
	}

	result.Pinch = c.pinch.Trigger(dist < c.config.PinchThreshold)

	middleY := hand.Points[detector.MiddleTip].Y
	if c.scroll.Level(IsScrollPose(hand)) {
		result.Scroll = true
		if c.hasPrev {
			result.ScrollAmount = c.scrollAmount(middleY - c.prevY)
		}
	}

	c.prevY = middleY
	c.hasPrev = true

	return result
}

// scrollAmount converts a middle-tip y delta into a scroll amount.
func (c *Classifier) scrollAmount(delta float64) float64 {
	if math.Abs(delta) <= c.config.ScrollNoiseFloor {
		return 0
	}
	return -delta * c.config.ScrollGain
}

// State returns a snapshot of the debounce state.
func (c *Classifier) State() State {
	return State{
		PinchActive:  c.pinch.Active(),
		PinchRun:     c.pinch.Count(),
		ScrollActive: c.scroll.Active(),
		ScrollRun:    c.scroll.Count(),
	}
}
