package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/airpointer/internal/detector"
)

const epsilon = 1e-9

func handPtr(h detector.HandLandmarks) *detector.HandLandmarks {
	return &h
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		hand     detector.HandLandmarks
		pointing bool
		palm     bool
		scroll   bool
	}{
		{"pointing", detector.PointingLandmarks(), true, false, false},
		{"open palm", detector.OpenPalmLandmarks(), false, true, false},
		{"scroll pose", detector.ScrollLandmarks(), false, false, true},
		{"fist", detector.FistLandmarks(), false, false, false},
		{"index and pinky", detector.Pose(true, false, false, true), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &tt.hand
			if got := IsIndexPointing(h); got != tt.pointing {
				t.Errorf("IsIndexPointing() = %v, want %v", got, tt.pointing)
			}
			if got := IsOpenPalm(h); got != tt.palm {
				t.Errorf("IsOpenPalm() = %v, want %v", got, tt.palm)
			}
			if got := IsScrollPose(h); got != tt.scroll {
				t.Errorf("IsScrollPose() = %v, want %v", got, tt.scroll)
			}
		})
	}
}

func TestPredicates_LevelTipIsNeither(t *testing.T) {
	h := detector.PointingLandmarks()
	h.Points[detector.MiddleTip].Y = h.Points[detector.MiddlePIP].Y

	if IsIndexPointing(&h) {
		t.Error("middle tip level with PIP is not curled")
	}
	if IsOpenPalm(&h) {
		t.Error("middle tip level with PIP is not extended")
	}
}

// randomHand returns a frame with each fingertip placed randomly above or
// below its PIP joint according to up.
func randomHand(r *rand.Rand, up [4]bool) detector.HandLandmarks {
	var h detector.HandLandmarks
	joints := [4][2]int{
		{detector.IndexTip, detector.IndexPIP},
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	}
	for i, j := range joints {
		pip := 0.2 + r.Float64()*0.6
		gap := 0.001 + r.Float64()*0.19
		h.Points[j[1]] = detector.Point3D{X: r.Float64(), Y: pip}
		if up[i] {
			h.Points[j[0]] = detector.Point3D{X: r.Float64(), Y: pip - gap}
		} else {
			h.Points[j[0]] = detector.Point3D{X: r.Float64(), Y: pip + gap}
		}
	}
	return h
}

func TestPredicates_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	t.Run("index up, others curled is pointing only", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			h := randomHand(r, [4]bool{true, false, false, false})
			if !IsIndexPointing(&h) || IsOpenPalm(&h) || IsScrollPose(&h) {
				t.Fatalf("frame %d: pointing=%v palm=%v scroll=%v", i,
					IsIndexPointing(&h), IsOpenPalm(&h), IsScrollPose(&h))
			}
		}
	})

	t.Run("all up is open palm", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			h := randomHand(r, [4]bool{true, true, true, true})
			if !IsOpenPalm(&h) || IsIndexPointing(&h) || IsScrollPose(&h) {
				t.Fatalf("frame %d: pointing=%v palm=%v scroll=%v", i,
					IsIndexPointing(&h), IsOpenPalm(&h), IsScrollPose(&h))
			}
		}
	})
}

func TestResult_First(t *testing.T) {
	both := Result{Hand: true, IndexPointing: true, OpenPalm: true, Pinch: true, Scroll: true}

	tests := []struct {
		name     string
		result   Result
		priority []Kind
		want     Kind
	}{
		{"draw prefers open palm", both, DrawPriority, OpenPalm},
		{"draw falls back to pointing", Result{IndexPointing: true}, DrawPriority, IndexPointing},
		{"pointer prefers pinch", both, PointerPriority, Pinch},
		{"pointer falls back to scroll", Result{Scroll: true}, PointerPriority, Scroll},
		{"nothing matches", Result{Hand: true}, DrawPriority, None},
		{"pinch ignored in draw mode", Result{Pinch: true}, DrawPriority, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.First(tt.priority); got != tt.want {
				t.Errorf("First() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	kinds := map[Kind]string{
		None:          "none",
		IndexPointing: "index-pointing",
		Pinch:         "pinch",
		OpenPalm:      "open-palm",
		Scroll:        "scroll",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}

func TestClassifier_PointingScenario(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	hand := detector.WithThumbDistance(detector.PointingLandmarks(), 0.5)
	hand.Points[detector.IndexTip].Y = 0.3
	hand.Points[detector.IndexPIP].Y = 0.5

	for frame := 1; frame <= 7; frame++ {
		got := c.Evaluate(handPtr(hand))
		if got.First(DrawPriority) != IndexPointing {
			t.Errorf("frame %d: draw verdict = %v, want index-pointing", frame, got.First(DrawPriority))
		}
		if got.Pinch {
			t.Errorf("frame %d: unexpected pinch", frame)
		}
	}

	if diff := cmp.Diff(State{}, c.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifier_PinchScenario(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	closed := detector.WithThumbDistance(detector.PointingLandmarks(), 0.02)
	open := detector.WithThumbDistance(detector.PointingLandmarks(), 0.1)

	var fired []int
	frame := 0
	feed := func(h detector.HandLandmarks, n int) {
		for i := 0; i < n; i++ {
			frame++
			if c.Evaluate(handPtr(h)).Pinch {
				fired = append(fired, frame)
			}
		}
	}

	feed(closed, 7)
	feed(closed, 1) // held an 8th frame
	feed(open, 1)   // release
	feed(closed, 7)

	want := []int{7, 16}
	if diff := cmp.Diff(want, fired); diff != "" {
		t.Errorf("pinch frames mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifier_PinchNeedsFullRun(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	closed := handPtr(detector.PinchLandmarks())
	open := handPtr(detector.PointingLandmarks())

	for i := 0; i < 6; i++ {
		if c.Evaluate(closed).Pinch {
			t.Fatalf("fired early at frame %d", i+1)
		}
	}
	if got := c.State(); got.PinchRun != 6 || got.PinchActive {
		t.Errorf("state = %+v, want run 6 inactive", got)
	}

	c.Evaluate(open)
	if got := c.State(); got.PinchRun != 0 {
		t.Errorf("run after release = %d, want 0", got.PinchRun)
	}

	for i := 0; i < 6; i++ {
		if c.Evaluate(closed).Pinch {
			t.Fatalf("fired early after release at frame %d", i+1)
		}
	}
	if !c.Evaluate(closed).Pinch {
		t.Error("expected fire on seventh consecutive frame")
	}
}

func TestClassifier_NoHandBreaksRun(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	closed := handPtr(detector.PinchLandmarks())

	for i := 0; i < 5; i++ {
		c.Evaluate(closed)
	}

	if got := c.Evaluate(nil); got != (Result{}) {
		t.Errorf("Evaluate(nil) = %+v, want zero result", got)
	}
	if got := c.State(); got.PinchRun != 0 || got.PinchActive {
		t.Errorf("state after lost hand = %+v, want reset", got)
	}

	for i := 0; i < 6; i++ {
		if c.Evaluate(closed).Pinch {
			t.Fatalf("fired at frame %d of new run", i+1)
		}
	}
	if !c.Evaluate(closed).Pinch {
		t.Error("expected fire on seventh frame of new run")
	}
}

func TestClassifier_Scroll(t *testing.T) {
	base := detector.ScrollLandmarks()

	t.Run("first frame has no delta", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		got := c.Evaluate(handPtr(base))
		if !got.Scroll {
			t.Error("expected scroll verdict")
		}
		if got.ScrollAmount != 0 {
			t.Errorf("ScrollAmount = %f, want 0", got.ScrollAmount)
		}
	})

	t.Run("upward motion scrolls up", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		c.Evaluate(handPtr(base))
		got := c.Evaluate(handPtr(detector.WithOffset(base, 0, -0.02)))

		if math.Abs(got.ScrollAmount-0.4) > epsilon {
			t.Errorf("ScrollAmount = %f, want 0.4", got.ScrollAmount)
		}
	})

	t.Run("downward motion scrolls down", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		c.Evaluate(handPtr(base))
		got := c.Evaluate(handPtr(detector.WithOffset(base, 0, 0.05)))

		if math.Abs(got.ScrollAmount+1.0) > epsilon {
			t.Errorf("ScrollAmount = %f, want -1.0", got.ScrollAmount)
		}
	})

	t.Run("jitter below noise floor is suppressed", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		c.Evaluate(handPtr(base))
		got := c.Evaluate(handPtr(detector.WithOffset(base, 0, -0.005)))

		if !got.Scroll {
			t.Error("pose still reads as scroll")
		}
		if got.ScrollAmount != 0 {
			t.Errorf("ScrollAmount = %f, want 0", got.ScrollAmount)
		}
	})

	t.Run("delta spans non-scroll frames", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		c.Evaluate(handPtr(detector.OpenPalmLandmarks()))
		got := c.Evaluate(handPtr(detector.WithOffset(base, 0, -0.02)))

		if math.Abs(got.ScrollAmount-0.4) > epsilon {
			t.Errorf("ScrollAmount = %f, want 0.4", got.ScrollAmount)
		}
	})

	t.Run("lost hand forgets previous sample", func(t *testing.T) {
		c := NewClassifier(DefaultConfig())
		c.Evaluate(handPtr(base))
		c.Evaluate(nil)
		got := c.Evaluate(handPtr(detector.WithOffset(base, 0, -0.2)))

		if got.ScrollAmount != 0 {
			t.Errorf("ScrollAmount = %f, want 0 after re-acquire", got.ScrollAmount)
		}
	})

	t.Run("gated scroll waits for run", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ScrollDebounceFrames = 3
		c := NewClassifier(cfg)

		var verdicts []bool
		y := 0.0
		for i := 0; i < 5; i++ {
			y -= 0.02
			verdicts = append(verdicts, c.Evaluate(handPtr(detector.WithOffset(base, 0, y))).Scroll)
		}

		want := []bool{false, false, true, true, true}
		if diff := cmp.Diff(want, verdicts); diff != "" {
			t.Errorf("gated scroll mismatch (-want +got):\n%s", diff)
		}
		if st := c.State(); !st.ScrollActive || st.ScrollRun != 3 {
			t.Errorf("state = %+v, want active run 3", st)
		}
	})
}
