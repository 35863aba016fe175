package input

import (
	"github.com/go-vgo/robotgo"
)

// RobotDriver injects real pointer events through robotgo.
type RobotDriver struct {
	ticks TickAccumulator
}

// NewRobotDriver creates a RobotDriver.
func NewRobotDriver() *RobotDriver {
	return &RobotDriver{}
}

// MoveTo moves the system cursor.
func (d *RobotDriver) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

// Click issues a left click.
func (d *RobotDriver) Click() {
	robotgo.Click("left")
}

// Scroll emits whole wheel ticks, carrying fractions over to later calls.
func (d *RobotDriver) Scroll(amount float64) {
	if ticks := d.ticks.Add(amount); ticks != 0 {
		robotgo.Scroll(0, ticks)
	}
}

// ScreenSize returns the main display size in pixels.
func ScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}
