package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/render"
	"github.com/ayusman/airpointer/internal/store"
)

var (
	// ErrFrameAcquisition ends a run when the camera stops delivering frames.
	ErrFrameAcquisition = errors.New("frame acquisition failed")

	// ErrDetection ends a run when the detector keeps failing, for example
	// after the landmark service died.
	ErrDetection = errors.New("hand detection failed")

	// ErrNoStore is returned when saving a drawing without a database.
	ErrNoStore = errors.New("no store configured")
)

// DefaultMaxDetectFailures is the number of consecutive failed detections
// that ends a run.
const DefaultMaxDetectFailures = 30

// Display shows composed frames and reports key presses.
type Display interface {
	Show(frame *gocv.Mat)
	// PollKey returns the pressed key code, or -1 when none was pressed.
	PollKey() int
	Close() error
}

// WindowDisplay is a Display backed by an OpenCV window.
type WindowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a preview window.
func NewWindowDisplay(title string) *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(title)}
}

func (d *WindowDisplay) Show(frame *gocv.Mat) { d.window.IMShow(*frame) }
func (d *WindowDisplay) PollKey() int         { return d.window.WaitKey(1) }
func (d *WindowDisplay) Close() error         { return d.window.Close() }

// Publisher receives every composed frame, for example to stream it.
type Publisher interface {
	Publish(frame *gocv.Mat, hand *detector.HandLandmarks, status Status)
}

// Publishers fans a frame out to several publishers in order.
type Publishers []Publisher

func (ps Publishers) Publish(frame *gocv.Mat, hand *detector.HandLandmarks, status Status) {
	for _, p := range ps {
		p.Publish(frame, hand, status)
	}
}

// Config wires a Runner to its collaborators. Only Camera and Detector are
// required.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector

	// Display is nil for headless runs.
	Display Display
	// Commands is an extra command source polled once per frame, such as
	// the tray menu.
	Commands <-chan Command

	// Brushes carries live stroke style changes, applied between frames.
	Brushes <-chan Brush

	Publisher Publisher

	// MaxDetectFailures is the number of consecutive detector errors after
	// which Run gives up. Zero means DefaultMaxDetectFailures.
	MaxDetectFailures int

	// Store enables the session journal and saving drawings.
	Store  *store.Store
	Logger *zap.SugaredLogger
}

// Runner is the frame loop: acquire, detect, process, render, poll.
type Runner struct {
	config  Config
	session *Session
	logger  *zap.SugaredLogger
	journal *store.Session

	detectFailures int
	detectErr      error
}

// NewRunner creates a Runner that feeds session.
func NewRunner(config Config, session *Session) *Runner {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if config.MaxDetectFailures <= 0 {
		config.MaxDetectFailures = DefaultMaxDetectFailures
	}
	return &Runner{
		config:  config,
		session: session,
		logger:  logger,
	}
}

// Session returns the session the runner feeds.
func (r *Runner) Session() *Session {
	return r.session
}

// Run processes frames until quit is requested, ctx is cancelled or the
// camera fails. A camera failure is returned wrapped in ErrFrameAcquisition,
// a detector that fails MaxDetectFailures frames in a row in ErrDetection.
// The camera, display and detector are closed on return.
func (r *Runner) Run(ctx context.Context) (err error) {
	if !r.config.Camera.IsOpen() {
		if err := r.config.Camera.Open(); err != nil {
			return fmt.Errorf("opening camera: %w", err)
		}
	}

	r.startJournal()
	r.logger.Info("Detection pipeline started")

	defer func() {
		err = multierr.Append(err, r.teardown())
		r.logger.Infow("Detection pipeline stopped",
			"stats", r.session.Stats(),
			"classifier", r.session.classifier.State())
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := r.config.Camera.ReadFrame()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFrameAcquisition, err)
		}

		quit := r.Step(frame)
		frame.Close()
		if r.detectFailures >= r.config.MaxDetectFailures {
			return fmt.Errorf("%w after %d frames: %v", ErrDetection, r.detectFailures, r.detectErr)
		}
		if quit {
			return nil
		}
	}
}

// Step runs one frame through the pipeline and applies the commands polled
// afterwards. It reports whether quit was requested.
func (r *Runner) Step(frame *gocv.Mat) bool {
	hands, err := r.config.Detector.Detect(frame)
	if err != nil {
		if r.detectFailures == 0 {
			r.logger.Warnw("hand detection failed", "error", err)
		}
		r.detectFailures++
		r.detectErr = err
		hands = nil
	} else {
		r.detectFailures = 0
	}
	r.applyBrushes()

	status := r.session.ProcessFrame(hands)
	hand, _ := detector.Primary(hands)

	if r.config.Display != nil || r.config.Publisher != nil {
		err := render.Compose(frame, render.Layer{
			Hand:   hand,
			Canvas: r.session.Canvas().Image(),
			Mode:   status.Mode.Banner(),
			Help:   render.HelpText,
			Action: status.Action,
		})
		if err != nil {
			r.logger.Warnw("rendering overlay failed", "error", err)
		}
	}

	if r.config.Publisher != nil {
		r.config.Publisher.Publish(frame, hand, status)
	}

	var cmds []Command
	if r.config.Display != nil {
		r.config.Display.Show(frame)
		if cmd := CommandForKey(r.config.Display.PollKey()); cmd != NoCommand {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, r.pendingCommands()...)

	quit := false
	for _, cmd := range cmds {
		if r.apply(cmd) {
			quit = true
		}
	}
	return quit
}

// pendingCommands drains the Commands channel without blocking.
func (r *Runner) pendingCommands() []Command {
	var cmds []Command
	for r.config.Commands != nil {
		select {
		case cmd, ok := <-r.config.Commands:
			if !ok {
				r.config.Commands = nil
				return cmds
			}
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
	return cmds
}

// applyBrushes applies pending stroke style changes without blocking.
func (r *Runner) applyBrushes() {
	for r.config.Brushes != nil {
		select {
		case b, ok := <-r.config.Brushes:
			if !ok {
				r.config.Brushes = nil
				return
			}
			r.session.SetBrush(b)
		default:
			return
		}
	}
}

// apply executes one command and reports whether it was quit.
func (r *Runner) apply(cmd Command) bool {
	switch cmd {
	case Quit:
		r.logger.Info("quit requested")
		return true
	case SaveDrawing:
		if d, err := r.Save(); err != nil {
			r.logger.Warnw("saving drawing failed", "error", err)
		} else {
			r.logger.Infow("drawing saved", "id", d.ID)
		}
	default:
		r.session.HandleCommand(cmd)
	}
	return false
}

// Save stores the current canvas as a PNG drawing linked to this run.
func (r *Runner) Save() (*store.Drawing, error) {
	if r.config.Store == nil {
		return nil, ErrNoStore
	}

	c := r.session.Canvas()
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding drawing: %w", err)
	}

	d := &store.Drawing{
		ID:     uuid.NewString(),
		Width:  c.Bounds().Dx(),
		Height: c.Bounds().Dy(),
		PNG:    buf.Bytes(),
	}
	if r.journal != nil {
		d.SessionID = r.journal.ID
	}

	if err := r.config.Store.Drawings().Create(d); err != nil {
		return nil, fmt.Errorf("storing drawing: %w", err)
	}
	return d, nil
}

func (r *Runner) startJournal() {
	if r.config.Store == nil {
		return
	}

	sess := &store.Session{ID: uuid.NewString()}
	if err := r.config.Store.Sessions().Create(sess); err != nil {
		r.logger.Warnw("session journal unavailable", "error", err)
		return
	}
	r.journal = sess
}

func (r *Runner) finishJournal() error {
	if r.journal == nil {
		return nil
	}

	stats := r.session.Stats()
	r.journal.FinalMode = r.session.Mode().String()
	r.journal.Frames = stats.Frames
	r.journal.Clicks = stats.Clicks
	r.journal.Scrolls = stats.Scrolls
	r.journal.Segments = stats.Segments

	if err := r.config.Store.Sessions().Finish(r.journal); err != nil {
		return fmt.Errorf("finishing session journal: %w", err)
	}
	return nil
}

func (r *Runner) teardown() error {
	var err error
	err = multierr.Append(err, r.finishJournal())
	err = multierr.Append(err, r.config.Camera.Close())
	if r.config.Display != nil {
		err = multierr.Append(err, r.config.Display.Close())
	}
	err = multierr.Append(err, r.config.Detector.Close())
	return err
}

// Journal returns the session journal entry of the current run, if any.
func (r *Runner) Journal() *store.Session {
	return r.journal
}
