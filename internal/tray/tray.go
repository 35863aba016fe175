// Package tray provides a system tray menu for airpointer. Menu clicks are
// turned into app commands for the pointer loop.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/app"
	"github.com/ayusman/airpointer/internal/detector"
)

// Tray represents the system tray application.
type Tray struct {
	commands   chan app.Command
	onSettings func()
	onQuit     func()
	mu         sync.RWMutex

	mode   app.Mode
	action string

	// Menu items stored for later updates
	menuMode   *systray.MenuItem
	menuAction *systray.MenuItem
}

// New creates a new Tray in pointer mode.
func New() *Tray {
	return &Tray{
		commands: make(chan app.Command, 8),
		mode:     app.PointerMode,
		action:   app.ActionNoHand,
	}
}

// Commands returns the channel the pointer loop should read menu commands
// from.
func (t *Tray) Commands() <-chan app.Command {
	return t.commands
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirPointer")
	systray.SetTooltip("AirPointer hand-gesture pointer")

	t.mu.Lock()
	t.menuMode = systray.AddMenuItem(ModeTitle(t.mode), "Toggle between pointer and draw mode")
	t.menuAction = systray.AddMenuItem(t.action, "Last action")
	t.mu.Unlock()
	t.menuAction.Disable()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear Canvas", "Erase the drawing canvas")
	menuSave := systray.AddMenuItem("Save Drawing", "Save the canvas to the database")
	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirPointer")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuMode.ClickedCh:
				t.send(app.ToggleMode)
			case <-menuClear.ClickedCh:
				t.send(app.ClearCanvas)
			case <-menuSave.ClickedCh:
				t.send(app.SaveDrawing)
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// send queues cmd for the pointer loop. It reports false when the loop has
// fallen behind and the command was dropped.
func (t *Tray) send(cmd app.Command) bool {
	select {
	case t.commands <- cmd:
		return true
	default:
		return false
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit asks the pointer loop to stop and runs the quit callback.
func (t *Tray) handleQuit() {
	t.send(app.Quit)

	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Publish implements app.Publisher so the menu follows the pointer loop.
func (t *Tray) Publish(_ *gocv.Mat, _ *detector.HandLandmarks, status app.Status) {
	t.SetStatus(status)
}

// SetStatus updates the mode and last action shown in the menu.
func (t *Tray) SetStatus(status app.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if status.Mode != t.mode {
		t.mode = status.Mode
		if t.menuMode != nil {
			t.menuMode.SetTitle(ModeTitle(t.mode))
		}
	}
	if status.Action != t.action {
		t.action = status.Action
		if t.menuAction != nil {
			t.menuAction.SetTitle(t.action)
		}
	}
}

// Mode returns the mode last reported through SetStatus.
func (t *Tray) Mode() app.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Action returns the action last reported through SetStatus.
func (t *Tray) Action() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.action
}

// ModeTitle is the menu label of the mode toggle.
func ModeTitle(mode app.Mode) string {
	if mode == app.DrawMode {
		return "✎ Draw Mode"
	}
	return "● Pointer Mode"
}
