package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ayusman/airpointer/internal/app"
	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/input"
	"github.com/ayusman/airpointer/internal/logging"
	"github.com/ayusman/airpointer/internal/plugin"
	"github.com/ayusman/airpointer/internal/pointer"
	"github.com/ayusman/airpointer/internal/server"
	"github.com/ayusman/airpointer/internal/store"
	"github.com/ayusman/airpointer/internal/tray"
)

// env holds what every command shares: the logger and, once opened, the store.
type env struct {
	logger    *zap.SugaredLogger
	logCloser io.Closer
	store     *store.Store
	closers   []io.Closer
}

func newEnv(c *cli.Context) (*env, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = c.String(flagLogLevel)
	cfg.File = c.String(flagLogFile)

	logger, closer, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return &env{logger: logger, logCloser: closer}, nil
}

// openStore opens the database, creating its directory if needed.
func (e *env) openStore(c *cli.Context) (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}

	path := c.String(flagDB)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	e.store = s
	e.logger.Infow("Database opened", "path", s.Path())
	return s, nil
}

func (e *env) Close() error {
	var err error
	for _, c := range e.closers {
		err = multierr.Append(err, c.Close())
	}
	if e.store != nil {
		err = multierr.Append(err, e.store.Close())
	}
	e.logger.Sync()
	return multierr.Append(err, e.logCloser.Close())
}

// signalContext is cancelled on interrupt or termination.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func cameraConfig(c *cli.Context) capture.Config {
	cfg := capture.DefaultConfig()
	cfg.DeviceID = c.Int(flagCamera)
	cfg.Mirror = c.Bool(flagMirror)
	return cfg
}

// resolvePreferences layers flag and environment overrides over the stored
// preferences, which are themselves layered over the defaults.
func resolvePreferences(stored store.Preferences, overrides map[string]any) (store.Preferences, error) {
	prefs := stored
	if err := store.DecodePreferences(overrides, &prefs); err != nil {
		return stored, err
	}
	if err := prefs.Validate(); err != nil {
		return stored, err
	}
	return prefs, nil
}

// sessionConfig turns preferences into the tuning of a pointer session.
func brushFor(prefs store.Preferences) (app.Brush, error) {
	stroke, err := colorful.Hex(prefs.BrushColor)
	if err != nil {
		return app.Brush{}, fmt.Errorf("brush color %q: %w", prefs.BrushColor, err)
	}
	return app.Brush{Color: stroke, Size: prefs.BrushSize}, nil
}

// offerBrush replaces any brush the loop has not picked up yet.
func offerBrush(ch chan app.Brush, b app.Brush) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func sessionConfig(prefs store.Preferences, screen pointer.Screen) (app.SessionConfig, error) {
	brush, err := brushFor(prefs)
	if err != nil {
		return app.SessionConfig{}, err
	}

	cfg := app.DefaultSessionConfig(screen)
	cfg.BrushColor = brush.Color
	cfg.BrushSize = brush.Size
	cfg.SmoothingAlpha = prefs.SmoothingAlpha
	cfg.ClickCooldown = prefs.Cooldown()
	return cfg, nil
}

func (e *env) preferences(c *cli.Context) (store.Preferences, error) {
	s, err := e.openStore(c)
	if err != nil {
		return store.Preferences{}, err
	}
	stored, err := s.Settings().LoadPreferences(store.DefaultPreferences())
	if err != nil {
		return store.Preferences{}, fmt.Errorf("loading preferences: %w", err)
	}
	return resolvePreferences(stored, preferenceOverrides(c))
}

// newRunner wires a pointer loop from the command line. extra is applied to
// the runner config before the runner is built.
func (e *env) newRunner(c *cli.Context, extra func(*app.Config)) (*app.Runner, error) {
	prefs, err := e.preferences(c)
	if err != nil {
		return nil, err
	}

	width, height := input.ScreenSize()
	scfg, err := sessionConfig(prefs, pointer.Screen{Width: width, Height: height})
	if err != nil {
		return nil, err
	}
	scfg.Logger = e.logger.Named("session")

	driver, err := e.driver(c)
	if err != nil {
		return nil, err
	}

	cfg := app.Config{
		Camera:   capture.NewCamera(cameraConfig(c)),
		Detector: app.NewDetector(detector.DefaultConfig(), e.logger),
		Store:    e.store,
		Logger:   e.logger,
	}
	if extra != nil {
		extra(&cfg)
	}

	e.logger.Infow("starting pointer", "screen", fmt.Sprintf("%dx%d", width, height), "preferences", prefs)
	return app.NewRunner(cfg, app.NewSession(scfg, driver)), nil
}

// driver picks the pointer output: a dry-run logger, a plugin, or robotgo.
func (e *env) driver(c *cli.Context) (input.Driver, error) {
	if c.Bool(flagDryRun) {
		return input.NewLogDriver(e.logger.Named("dry-run")), nil
	}

	name := c.String(flagDriver)
	if name == "" {
		return input.NewRobotDriver(), nil
	}

	manager := plugin.NewManager(c.String(flagPlugins))
	if err := manager.Discover(); err != nil {
		return nil, err
	}
	p, err := manager.Pointer(name)
	if err != nil {
		return nil, fmt.Errorf("pointer plugin in %s: %w", manager.PluginDir(), err)
	}

	d := plugin.NewDriver(p, plugin.NewExecutor(plugin.DefaultTimeout), e.logger.Named("plugin"))
	e.closers = append(e.closers, d)
	e.logger.Infow("Using pointer plugin", "name", p.Manifest.Name, "version", p.Manifest.Version)
	return d, nil
}

// withEnv runs fn with a fresh env and closes it afterwards.
func withEnv(c *cli.Context, fn func(*env) error) (err error) {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, e.Close()) }()
	return fn(e)
}

func cameraTestAction(c *cli.Context) error {
	return withEnv(c, func(e *env) error {
		ctx, stop := signalContext(c)
		defer stop()

		cam := capture.NewCamera(cameraConfig(c))
		return app.CameraTest(ctx, cam, app.NewWindowDisplay("Camera Test"), nil)
	})
}

func handTestAction(c *cli.Context) error {
	return withEnv(c, func(e *env) error {
		ctx, stop := signalContext(c)
		defer stop()

		det := app.NewDetector(detector.DefaultConfig(), e.logger)
		defer det.Close()

		cam := capture.NewCamera(cameraConfig(c))
		return app.HandTest(ctx, cam, det, app.NewWindowDisplay("Hand Detection Test"))
	})
}

func runAction(c *cli.Context) error {
	return withEnv(c, func(e *env) error {
		return e.runPointer(c)
	})
}

func (e *env) runPointer(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	if c.Bool(flagHeadless) {
		t := tray.New()
		runner, err := e.newRunner(c, func(cfg *app.Config) {
			cfg.Commands = t.Commands()
			cfg.Publisher = t
		})
		if err != nil {
			return err
		}
		printBanner()
		return runWithTray(ctx, app.New(runner, e.logger), t)
	}

	runner, err := e.newRunner(c, func(cfg *app.Config) {
		cfg.Display = app.NewWindowDisplay("AirPointer")
	})
	if err != nil {
		return err
	}
	printBanner()
	return runner.Run(ctx)
}

// runWithTray runs the loop in the background while the tray owns the main
// goroutine. The tray goes away when the loop ends.
func runWithTray(ctx context.Context, a *app.App, t *tray.Tray) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	go func() {
		<-a.Done()
		t.Quit()
	}()
	t.Run()
	return a.Stop()
}

func serveAction(c *cli.Context) error {
	return withEnv(c, func(e *env) error {
		ctx, stop := signalContext(c)
		defer stop()

		s, err := e.openStore(c)
		if err != nil {
			return err
		}
		prefs, err := e.preferences(c)
		if err != nil {
			return err
		}

		feed := server.NewFeed(nil)
		brushes := make(chan app.Brush, 1)
		srv := server.New(server.Config{
			StaticDir:   c.String(flagStatic),
			Store:       s,
			Preferences: prefs,
			OnSettings: func(p store.Preferences) {
				b, err := brushFor(p)
				if err != nil {
					e.logger.Warnw("ignoring brush update", "error", err)
					return
				}
				offerBrush(brushes, b)
			},
			Feed:   feed,
			Logger: e.logger.Named("http"),
		})

		if c.Bool(flagAPIOnly) {
			return srv.ListenAndServe(ctx, c.String(flagAddr))
		}

		runner, err := e.newRunner(c, func(cfg *app.Config) {
			cfg.Publisher = feed
			cfg.Brushes = brushes
		})
		if err != nil {
			return err
		}

		a := app.New(runner, e.logger)
		if err := a.Start(ctx); err != nil {
			return err
		}

		// The server stops with the loop, and the loop with the server.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			<-a.Done()
			cancel()
		}()

		err = srv.ListenAndServe(ctx, c.String(flagAddr))
		return multierr.Append(err, a.Stop())
	})
}
