package gesture

// Debouncer gates a per-frame condition on its run length. The run counter
// grows while the condition holds and resets the moment it does not; there
// are no grace frames.
type Debouncer struct {
	frames int
	count  int
	active bool
}

// NewDebouncer returns a Debouncer that opens after frames consecutive true
// observations. Zero or negative frames opens on the first one.
func NewDebouncer(frames int) *Debouncer {
	return &Debouncer{frames: frames}
}

// Trigger observes one frame and reports true exactly once per run: on the
// frame the run length reaches the threshold. The condition must lapse for
// at least one frame before Trigger can fire again.
func (d *Debouncer) Trigger(cond bool) bool {
	if !d.observe(cond) {
		return false
	}
	if d.active {
		return false
	}
	d.active = true
	return true
}

// Level observes one frame and reports true on every frame of a run once
// the run length has reached the threshold.
func (d *Debouncer) Level(cond bool) bool {
	if !d.observe(cond) {
		return false
	}
	d.active = true
	return true
}

// Reset clears the run as if the condition had lapsed.
func (d *Debouncer) Reset() {
	d.count = 0
	d.active = false
}

// Count returns the current run length, saturated at the threshold.
func (d *Debouncer) Count() int {
	return d.count
}

// Active reports whether the current run has already opened the gate.
func (d *Debouncer) Active() bool {
	return d.active
}

// observe advances the run and reports whether it has reached the threshold.
func (d *Debouncer) observe(cond bool) bool {
	if !cond {
		d.Reset()
		return false
	}
	if d.count < d.frames {
		d.count++
	}
	return d.count >= d.frames
}
