// Package plugin runs external pointer plugins: executables that move the
// cursor, click and scroll on systems robotgo cannot drive.
package plugin

import "slices"

// Actions every pointer plugin must accept.
const (
	ActionMove   = "move"
	ActionClick  = "click"
	ActionScroll = "scroll"
)

// PointerActions lists the actions a driver plugin must declare.
var PointerActions = []string{ActionMove, ActionClick, ActionScroll}

// Manifest describes a plugin's metadata and capabilities. It is read from
// the plugin.json file in the plugin's directory.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Supports reports whether the manifest declares action.
func (m Manifest) Supports(action string) bool {
	return slices.Contains(m.Actions, action)
}

// Request is sent to the plugin on stdin, one per invocation. X and Y are
// screen pixels for move; Ticks is whole wheel ticks for scroll, positive
// scrolling up.
type Request struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Ticks  int    `json:"ticks,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
