package input

import "image"

// Action is one recorded driver call.
type Action struct {
	Kind   string // "move", "click" or "scroll"
	Point  image.Point
	Amount float64
}

// Recorder is a Driver that remembers every call, for tests and replays.
type Recorder struct {
	Actions []Action
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// MoveTo records a move.
func (r *Recorder) MoveTo(x, y int) {
	r.Actions = append(r.Actions, Action{Kind: "move", Point: image.Pt(x, y)})
}

// Click records a click.
func (r *Recorder) Click() {
	r.Actions = append(r.Actions, Action{Kind: "click"})
}

// Scroll records a scroll of the exact amount.
func (r *Recorder) Scroll(amount float64) {
	r.Actions = append(r.Actions, Action{Kind: "scroll", Amount: amount})
}

// Count returns how many actions of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, a := range r.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent action of the given kind.
func (r *Recorder) Last(kind string) (Action, bool) {
	for i := len(r.Actions) - 1; i >= 0; i-- {
		if r.Actions[i].Kind == kind {
			return r.Actions[i], true
		}
	}
	return Action{}, false
}

// Reset forgets all recorded actions.
func (r *Recorder) Reset() {
	r.Actions = nil
}
