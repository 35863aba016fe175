package gesture

import "testing"

func TestDebouncer_Trigger(t *testing.T) {
	t.Run("fires once after threshold", func(t *testing.T) {
		d := NewDebouncer(3)

		var fired []int
		for frame := 1; frame <= 6; frame++ {
			if d.Trigger(true) {
				fired = append(fired, frame)
			}
		}

		if len(fired) != 1 || fired[0] != 3 {
			t.Errorf("fired on frames %v, want [3]", fired)
		}
		if !d.Active() {
			t.Error("expected debouncer to stay active while held")
		}
	})

	t.Run("lapse resets run and re-arms", func(t *testing.T) {
		d := NewDebouncer(2)

		d.Trigger(true)
		if !d.Trigger(true) {
			t.Fatal("expected fire on second frame")
		}

		if d.Trigger(false) {
			t.Error("false condition must not fire")
		}
		if d.Count() != 0 || d.Active() {
			t.Errorf("after lapse: count=%d active=%v, want 0 false", d.Count(), d.Active())
		}

		if d.Trigger(true) {
			t.Error("first frame of new run must not fire")
		}
		if !d.Trigger(true) {
			t.Error("expected re-fire after release")
		}
	})

	t.Run("interrupted run never fires", func(t *testing.T) {
		d := NewDebouncer(3)
		pattern := []bool{true, true, false, true, true, false, true}

		for i, cond := range pattern {
			if d.Trigger(cond) {
				t.Errorf("unexpected fire at frame %d", i+1)
			}
		}
	})

	t.Run("zero frames fires immediately", func(t *testing.T) {
		d := NewDebouncer(0)
		if !d.Trigger(true) {
			t.Error("expected immediate fire")
		}
		if d.Trigger(true) {
			t.Error("expected single fire while held")
		}
	})
}

func TestDebouncer_Level(t *testing.T) {
	d := NewDebouncer(2)

	got := []bool{
		d.Level(true),
		d.Level(true),
		d.Level(true),
		d.Level(false),
		d.Level(true),
	}
	want := []bool{false, true, true, false, false}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: Level() = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestDebouncer_CountSaturates(t *testing.T) {
	d := NewDebouncer(7)
	for i := 0; i < 100; i++ {
		d.Trigger(true)
	}
	if d.Count() != 7 {
		t.Errorf("Count() = %d, want 7", d.Count())
	}
}
