package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const (
	menuCamera = "camera"
	menuHand   = "hand"
	menuRun    = "run"
	menuExit   = "exit"
)

// menuAction shows the numbered menu and comes back to it after each
// choice until the user exits.
func menuAction(c *cli.Context) error {
	actions := map[string]cli.ActionFunc{
		menuCamera: cameraTestAction,
		menuHand:   handTestAction,
		menuRun:    runAction,
	}

	for {
		choice, err := askMenu()
		if errors.Is(err, huh.ErrUserAborted) || choice == menuExit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := actions[choice](c); err != nil {
			color.New(color.FgRed).Printf("Error: %v\n", err)
		}
		fmt.Println()
	}
}

func askMenu() (string, error) {
	choice := menuRun
	err := huh.NewSelect[string]().
		Title("AirPointer").
		Description("Choose an option").
		Options(
			huh.NewOption("1. Test camera", menuCamera),
			huh.NewOption("2. Test hand detection", menuHand),
			huh.NewOption("3. Launch AirPointer", menuRun),
			huh.NewOption("4. Exit", menuExit),
		).
		Value(&choice).
		Run()
	return choice, err
}
