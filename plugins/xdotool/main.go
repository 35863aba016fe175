// Package main provides a pointer plugin for X11 desktops.
// It moves the cursor, clicks and scrolls through xdotool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Ticks  int    `json:"ticks"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// X11 wheel buttons.
const (
	buttonWheelUp   = "4"
	buttonWheelDown = "5"
)

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	args, err := commandFor(req)
	if err == nil {
		err = run(args)
	}
	writeResponse(err)
}

// commandFor returns the xdotool arguments for req. A zero-tick scroll
// needs no command and returns nil.
func commandFor(req Request) ([]string, error) {
	switch req.Action {
	case "move":
		return []string{"mousemove", strconv.Itoa(req.X), strconv.Itoa(req.Y)}, nil
	case "click":
		return []string{"click", "1"}, nil
	case "scroll":
		if req.Ticks == 0 {
			return nil, nil
		}
		button, n := buttonWheelUp, req.Ticks
		if n < 0 {
			button, n = buttonWheelDown, -n
		}
		return []string{"click", "--repeat", strconv.Itoa(n), button}, nil
	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return nil
	}
	output, err := exec.Command("xdotool", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeResponse writes a success response, or an error response for err.
func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
