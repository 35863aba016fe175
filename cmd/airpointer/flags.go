package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	flagDB       = "db"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"

	flagCamera = "camera"
	flagMirror = "mirror"

	flagColor    = "color"
	flagBrush    = "brush"
	flagAlpha    = "alpha"
	flagCooldown = "cooldown-ms"
	flagDryRun   = "dry-run"
	flagHeadless = "headless"
	flagDriver   = "driver-plugin"
	flagPlugins  = "plugin-dir"

	flagAddr    = "addr"
	flagStatic  = "static"
	flagAPIOnly = "api-only"
)

// preferenceFlags maps flags to the settings keys they override.
var preferenceFlags = map[string]string{
	flagColor:    "brush_color",
	flagBrush:    "brush_size",
	flagAlpha:    "smoothing_alpha",
	flagCooldown: "click_cooldown_ms",
}

func envVars(flag string) []string {
	return []string{envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))}
}

// dataPath returns name inside ~/.airpointer, or name itself when there is
// no home directory.
func dataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".airpointer", name)
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagDB,
			Value:   dataPath("airpointer.db"),
			Usage:   "SQLite database `FILE` for settings, sessions and drawings",
			EnvVars: envVars(flagDB),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Value:   "info",
			Usage:   "log level: debug, info, warn or error",
			EnvVars: envVars(flagLogLevel),
		},
		&cli.StringFlag{
			Name:    flagLogFile,
			Usage:   "also write JSON logs to `FILE`, rotated",
			EnvVars: envVars(flagLogFile),
		},
	}
}

func cameraFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    flagCamera,
			Usage:   "camera device `ID`",
			EnvVars: envVars(flagCamera),
		},
		&cli.BoolFlag{
			Name:    flagMirror,
			Value:   true,
			Usage:   "flip the camera image horizontally",
			EnvVars: envVars(flagMirror),
		},
	}
}

func runFlags() []cli.Flag {
	return append(cameraFlags(),
		&cli.StringFlag{
			Name:    flagColor,
			Usage:   "brush color as hex, e.g. #00ff00",
			EnvVars: envVars(flagColor),
		},
		&cli.Float64Flag{
			Name:    flagBrush,
			Usage:   "brush size in pixels",
			EnvVars: envVars(flagBrush),
		},
		&cli.Float64Flag{
			Name:    flagAlpha,
			Usage:   "cursor smoothing factor in (0, 1]",
			EnvVars: envVars(flagAlpha),
		},
		&cli.IntFlag{
			Name:    flagCooldown,
			Usage:   "minimum milliseconds between clicks",
			EnvVars: envVars(flagCooldown),
		},
		&cli.BoolFlag{
			Name:    flagDryRun,
			Usage:   "log pointer events instead of moving the real cursor",
			EnvVars: envVars(flagDryRun),
		},
		&cli.StringFlag{
			Name:    flagDriver,
			Usage:   "send pointer events through the plugin `NAME` instead of robotgo",
			EnvVars: envVars(flagDriver),
		},
		&cli.StringFlag{
			Name:    flagPlugins,
			Value:   dataPath("plugins"),
			Usage:   "directory searched for pointer plugins",
			EnvVars: envVars(flagPlugins),
		},
		&cli.BoolFlag{
			Name:    flagHeadless,
			Usage:   "no preview window; control the loop from the system tray",
			EnvVars: envVars(flagHeadless),
		},
	)
}

// preferenceOverrides collects the preference flags set on the command
// line or through the environment, keyed by setting name.
func preferenceOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range preferenceFlags {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}
	return overrides
}
