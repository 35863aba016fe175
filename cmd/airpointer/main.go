// Command airpointer turns hand gestures seen by a webcam into pointer
// movement, clicks, scrolling and on-screen drawing.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const envPrefix = "AIRPOINTER_"

func main() {
	// A .env file is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "airpointer: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "airpointer",
		Usage: "control the mouse and draw on screen with hand gestures",
		Flags: append(globalFlags(), runFlags()...),
		Commands: []*cli.Command{
			{
				Name:   "menu",
				Usage:  "interactive menu (default)",
				Flags:  runFlags(),
				Action: menuAction,
			},
			{
				Name:   "camera-test",
				Usage:  "preview the camera with its frame rate and motion level",
				Flags:  cameraFlags(),
				Action: cameraTestAction,
			},
			{
				Name:   "hand-test",
				Usage:  "show the detected hand landmarks",
				Flags:  cameraFlags(),
				Action: handTestAction,
			},
			{
				Name:   "run",
				Usage:  "launch the gesture pointer",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:  "serve",
				Usage: "run the gesture pointer headless with the HTTP API and live view",
				Flags: append(runFlags(),
					&cli.StringFlag{
						Name:    flagAddr,
						Value:   ":8080",
						Usage:   "HTTP listen address",
						EnvVars: envVars(flagAddr),
					},
					&cli.StringFlag{
						Name:    flagStatic,
						Usage:   "serve static files from `DIR`",
						EnvVars: envVars(flagStatic),
					},
					&cli.BoolFlag{
						Name:    flagAPIOnly,
						Usage:   "serve the API without opening the camera",
						EnvVars: envVars(flagAPIOnly),
					},
				),
				Action: serveAction,
			},
		},
		Action: menuAction,
	}
}

// printBanner lists the gestures and keys of the pointer loop.
func printBanner() {
	title := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgYellow, color.Bold).SprintFunc()

	title.Println("AirPointer - hand gesture pointer")
	fmt.Println()
	fmt.Println("Pointer mode:")
	fmt.Printf("  %s  move the cursor\n", key("index finger"))
	fmt.Printf("  %s  click\n", key("pinch       "))
	fmt.Printf("  %s  scroll\n", key("two fingers "))
	fmt.Println("Draw mode:")
	fmt.Printf("  %s  draw\n", key("index finger"))
	fmt.Printf("  %s  lift the pen\n", key("open palm   "))
	fmt.Println()
	fmt.Printf("Keys: %s toggle modes, %s clear, %s save, %s quit\n", key("d"), key("c"), key("s"), key("q"))
	fmt.Println()
}
