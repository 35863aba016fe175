// Package app runs the airpointer pointer loop: it ties the camera, the hand
// detector, the gesture classifier and the pointer driver together.
package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/airpointer/internal/detector"
)

// ErrAlreadyRunning is returned by Start when the loop is already running.
var ErrAlreadyRunning = errors.New("pointer loop already running")

// NewDetector returns the MediaPipe detector when its service script can be
// found, otherwise a MockDetector that never sees a hand.
func NewDetector(config detector.Config, logger *zap.SugaredLogger) detector.Detector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	mp, err := detector.NewMediaPipeDetector(config)
	if err != nil {
		logger.Warnf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	logger.Info("Using MediaPipe hand detection")
	return mp
}

// App runs a Runner in the background so that another component, such as
// the tray or the HTTP server, can own the main goroutine.
type App struct {
	runner *Runner
	logger *zap.SugaredLogger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates an App around runner.
func New(runner *Runner, logger *zap.SugaredLogger) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &App{runner: runner, logger: logger}
}

// Start launches the pointer loop. It returns immediately.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done != nil {
		select {
		case <-a.done:
		default:
			return ErrAlreadyRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	a.err = nil

	go func() {
		defer close(done)
		err := a.runner.Run(ctx)
		if err != nil {
			a.logger.Errorw("pointer loop ended", "error", err)
		}
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
	}()

	return nil
}

// Stop asks the loop to finish its current frame and waits for it. It
// returns the error the loop ended with.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Done is closed when the loop has ended, whatever the reason. It is nil
// before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}
