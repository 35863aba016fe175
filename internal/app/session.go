package app

import (
	"image"
	"image/color"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ayusman/airpointer/internal/canvas"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/gesture"
	"github.com/ayusman/airpointer/internal/input"
	"github.com/ayusman/airpointer/internal/pointer"
)

// DefaultClickCooldown is the minimum time between two clicks.
const DefaultClickCooldown = 300 * time.Millisecond

// SessionConfig holds the tunables of a pointer session.
type SessionConfig struct {
	Gesture        gesture.Config
	SmoothingAlpha float64
	ClickCooldown  time.Duration

	// Screen is the target display. The smoothed fingertip lives in its
	// pixel space.
	Screen pointer.Screen

	// CanvasWidth and CanvasHeight default to the screen size.
	CanvasWidth  int
	CanvasHeight int
	BrushColor   color.Color
	BrushSize    float64

	Clock  clock.Clock
	Logger *zap.SugaredLogger
}

// DefaultSessionConfig returns the stock tuning for a screen of the given size.
func DefaultSessionConfig(screen pointer.Screen) SessionConfig {
	return SessionConfig{
		Gesture:        gesture.DefaultConfig(),
		SmoothingAlpha: pointer.DefaultAlpha,
		ClickCooldown:  DefaultClickCooldown,
		Screen:         screen,
		BrushColor:     canvas.DefaultColor,
		BrushSize:      canvas.DefaultBrushSize,
	}
}

// Status describes the outcome of the last processed frame. Verdict is the
// first classifier verdict in the mode's priority order and Cursor is the
// smoothed fingertip in screen pixels.
type Status struct {
	Mode    Mode         `json:"mode"`
	Action  string       `json:"action"`
	Verdict gesture.Kind `json:"verdict"`
	Hand    bool         `json:"hand"`
	Cursor  image.Point  `json:"cursor"`
}

// Brush is the stroke style of the canvas.
type Brush struct {
	Color color.Color
	Size  float64
}

// Stats are running counters for the session journal.
type Stats struct {
	Frames   int
	Clicks   int
	Scrolls  int
	Segments int
}

// Session is the pointer state machine. It owns the classifier, the smoother
// and the canvas, and turns each landmark frame into pointer actions. It is
// not safe for concurrent use; one goroutine feeds it frames in order.
type Session struct {
	config     SessionConfig
	classifier *gesture.Classifier
	smoother   *pointer.Smoother
	canvas     *canvas.Canvas
	driver     input.Driver
	clock      clock.Clock
	logger     *zap.SugaredLogger

	mode      Mode
	lastClick time.Time
	clicked   bool
	stats     Stats
	status    Status
}

// NewSession creates a session in pointer mode that sends actions to driver.
func NewSession(config SessionConfig, driver input.Driver) *Session {
	if config.Clock == nil {
		config.Clock = clock.New()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}
	if config.CanvasWidth <= 0 || config.CanvasHeight <= 0 {
		config.CanvasWidth, config.CanvasHeight = config.Screen.Width, config.Screen.Height
	}

	return &Session{
		config:     config,
		classifier: gesture.NewClassifier(config.Gesture),
		smoother:   pointer.NewSmoother(config.SmoothingAlpha),
		canvas:     canvas.New(config.CanvasWidth, config.CanvasHeight, config.BrushColor, config.BrushSize),
		driver:     driver,
		clock:      config.Clock,
		logger:     config.Logger,
		status:     Status{Action: ActionNoHand},
	}
}

// ProcessFrame runs one frame through the classifier, the smoother and the
// mode logic. hands is the detector output; only the first hand is used and
// an empty slice means no hand.
func (s *Session) ProcessFrame(hands []detector.HandLandmarks) Status {
	s.stats.Frames++

	hand, ok := detector.Primary(hands)
	if !ok {
		s.classifier.Evaluate(nil)
		s.status = Status{Mode: s.mode, Action: ActionNoHand, Cursor: s.status.Cursor}
		return s.status
	}

	result := s.classifier.Evaluate(hand)
	cursor := s.smoother.Smooth(s.config.Screen.Map(hand.Points[detector.IndexTip]))

	status := Status{Mode: s.mode, Action: ActionIdle, Hand: true, Cursor: cursor}
	if s.mode == DrawMode {
		status.Verdict = result.First(gesture.DrawPriority)
		status.Action = s.draw(status.Verdict, cursor)
	} else {
		status.Verdict = result.First(gesture.PointerPriority)
		status.Action = s.point(result, cursor)
	}

	s.status = status
	return status
}

// draw applies the draw-mode verdict. Anything other than open palm or
// pointing leaves the pen where it is.
func (s *Session) draw(verdict gesture.Kind, cursor image.Point) string {
	switch verdict {
	case gesture.OpenPalm:
		s.canvas.Lift()
		return ActionPenLifted
	case gesture.IndexPointing:
		if s.canvas.LineTo(s.toCanvas(cursor)) {
			s.stats.Segments++
		}
		return ActionDraw
	default:
		return ActionIdle
	}
}

// point moves the cursor, then handles pinch and scroll independently.
func (s *Session) point(result gesture.Result, cursor image.Point) string {
	s.driver.MoveTo(cursor.X, cursor.Y)
	action := ActionMove

	if result.Pinch {
		now := s.clock.Now()
		if !s.clicked || now.Sub(s.lastClick) >= s.config.ClickCooldown {
			s.driver.Click()
			s.lastClick = now
			s.clicked = true
			s.stats.Clicks++
			action = ActionClick
			s.logger.Debugw("click", "x", cursor.X, "y", cursor.Y)
		} else {
			s.logger.Debugw("click suppressed by cooldown", "since_last", now.Sub(s.lastClick))
		}
	}

	if result.Scroll && result.ScrollAmount != 0 {
		s.driver.Scroll(result.ScrollAmount)
		s.stats.Scrolls++
		action = ActionScroll
	}

	return action
}

// toCanvas maps a screen pixel onto the canvas raster.
func (s *Session) toCanvas(p image.Point) image.Point {
	b := s.canvas.Bounds()
	sw, sh := s.config.Screen.Width, s.config.Screen.Height
	if sw <= 0 || sh <= 0 || (b.Dx() == sw && b.Dy() == sh) {
		return p
	}
	return image.Pt(p.X*b.Dx()/sw, p.Y*b.Dy()/sh)
}

// HandleCommand applies a mode or canvas command. Save and quit are
// handled by the runner and ignored here. It reports whether the command
// changed anything.
func (s *Session) HandleCommand(cmd Command) bool {
	switch cmd {
	case ToggleMode:
		s.Toggle()
		return true
	case ClearCanvas:
		return s.Clear()
	default:
		return false
	}
}

// Toggle flips between pointer and draw mode. The pen anchor is always
// reset; leaving draw mode also wipes the canvas.
func (s *Session) Toggle() {
	if s.mode == DrawMode {
		s.mode = PointerMode
		s.canvas.Reset()
	} else {
		s.mode = DrawMode
		s.canvas.Lift()
	}
	s.status.Mode = s.mode
	s.logger.Infow("mode changed", "mode", s.mode.String())
}

// Clear wipes the canvas in draw mode. In pointer mode it does nothing and
// returns false.
func (s *Session) Clear() bool {
	if s.mode != DrawMode {
		return false
	}
	s.canvas.Clear()
	s.logger.Info("canvas cleared")
	return true
}

// SetBrush changes the stroke style for the segments that follow. Strokes
// already on the canvas keep their style.
func (s *Session) SetBrush(b Brush) {
	s.canvas.SetColor(b.Color)
	s.canvas.SetBrushSize(b.Size)
	s.logger.Infow("brush changed", "size", b.Size)
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Status returns the status of the last processed frame.
func (s *Session) Status() Status {
	return s.status
}

// Stats returns the running counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Canvas returns the drawing canvas.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}
