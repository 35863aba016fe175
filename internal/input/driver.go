// Package input delivers pointer actions to the operating system.
package input

import (
	"math"

	"go.uber.org/zap"
)

// Driver performs fire-and-forget pointer actions in screen pixels.
type Driver interface {
	// MoveTo places the cursor at an absolute screen position.
	MoveTo(x, y int)
	// Click presses and releases the primary button at the cursor.
	Click()
	// Scroll scrolls vertically; positive amounts scroll up. Amounts are in
	// wheel ticks and may be fractional.
	Scroll(amount float64)
}

// TickAccumulator turns fractional scroll amounts into whole wheel ticks,
// carrying the remainder to the next call.
type TickAccumulator struct {
	carry float64
}

// Add folds amount into the carry and returns the whole ticks to emit.
func (a *TickAccumulator) Add(amount float64) int {
	a.carry += amount
	ticks := math.Trunc(a.carry)
	a.carry -= ticks
	return int(ticks)
}

// LogDriver logs actions instead of performing them.
type LogDriver struct {
	logger *zap.SugaredLogger
	ticks  TickAccumulator
}

// NewLogDriver creates a LogDriver. A nil logger discards everything.
func NewLogDriver(logger *zap.SugaredLogger) *LogDriver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LogDriver{logger: logger}
}

// MoveTo logs the cursor position at debug level.
func (d *LogDriver) MoveTo(x, y int) {
	d.logger.Debugw("move cursor", "x", x, "y", y)
}

// Click logs a click.
func (d *LogDriver) Click() {
	d.logger.Info("click")
}

// Scroll logs the whole ticks a real driver would emit.
func (d *LogDriver) Scroll(amount float64) {
	if ticks := d.ticks.Add(amount); ticks != 0 {
		d.logger.Infow("scroll", "ticks", ticks, "amount", amount)
	}
}
