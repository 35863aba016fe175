// Package main provides a pointer plugin for Wayland desktops, where
// applications cannot move the cursor directly. It drives ydotool, which
// injects events through uinput.
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

// leftClick is ydotool's code for a left button press and release.
const leftClick = "0xC0"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	args, err := commandFor(req)
	if err == nil && len(args) > 0 {
		if output, runErr := exec.Command("ydotool", args...).CombinedOutput(); runErr != nil {
			err = fmt.Errorf("%w: %s", runErr, string(output))
		}
	}
	writeResponse(err)
}

// commandFor returns the ydotool arguments for req. ydotool's wheel axis
// points down, so scroll ticks are negated.
func commandFor(req Request) ([]string, error) {
	switch req.Action {
	case "move":
		return []string{"mousemove", "--absolute", "-x", strconv.Itoa(req.X), "-y", strconv.Itoa(req.Y)}, nil
	case "click":
		return []string{"click", leftClick}, nil
	case "scroll":
		if req.Ticks == 0 {
			return nil, nil
		}
		return []string{"mousemove", "--wheel", "-x", "0", "-y", strconv.Itoa(-req.Ticks)}, nil
	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
