package utils

import (
	"testing"
)

func TestPointerTrackerInitialState(t *testing.T) {
	pt := NewPointerTracker()
	if pt.State() != DragStateNone {
		t.Errorf("Expected initial state to be DragStateNone, got %v", pt.State())
	}

	p := pt.Step(PointerSample{X: 10, Y: 20})
	if p.Pressed || p.JustPressed || p.JustReleased {
		t.Errorf("hover should not press: %+v", p)
	}
	if p.X != 10 || p.Y != 20 {
		t.Errorf("hover position: (%v, %v)", p.X, p.Y)
	}
}

func TestPointerTrackerMouseDrag(t *testing.T) {
	pt := NewPointerTracker()

	steps := []struct {
		sample       PointerSample
		state        DragState
		justPressed  bool
		justReleased bool
		dx, dy       float64
	}{
		{PointerSample{X: 100, Y: 200, Down: true}, DragStateStarted, true, false, 0, 0},
		{PointerSample{X: 110, Y: 195, Down: true}, DragStateDragging, false, false, 10, -5},
		{PointerSample{X: 150, Y: 280, Down: true}, DragStateDragging, false, false, 40, 85},
		{PointerSample{X: 150, Y: 280}, DragStateEnded, false, true, 0, 0},
		{PointerSample{X: 160, Y: 290}, DragStateNone, false, false, 0, 0},
	}

	for i, st := range steps {
		p := pt.Step(st.sample)
		if pt.State() != st.state {
			t.Errorf("step %d: state %v, want %v", i, pt.State(), st.state)
		}
		if p.JustPressed != st.justPressed || p.JustReleased != st.justReleased {
			t.Errorf("step %d: pressed=%v released=%v", i, p.JustPressed, p.JustReleased)
		}
		if p.DX != st.dx || p.DY != st.dy {
			t.Errorf("step %d: delta (%v, %v), want (%v, %v)", i, p.DX, p.DY, st.dx, st.dy)
		}
		if st.state == DragStateDragging && (p.StartX != 100 || p.StartY != 200) {
			t.Errorf("step %d: start (%v, %v)", i, p.StartX, p.StartY)
		}
	}
}

// TestPointerTrackerTouchRelease 触摸释放帧没有坐标，沿用最后触摸位置
func TestPointerTrackerTouchRelease(t *testing.T) {
	pt := NewPointerTracker()
	pt.Step(PointerSample{X: 40, Y: 50, Down: true, Touch: true})
	pt.Step(PointerSample{X: 42, Y: 52, Down: true, Touch: true})

	p := pt.Step(PointerSample{Touch: true})
	if !p.JustReleased {
		t.Fatal("expected release")
	}
	if p.X != 42 || p.Y != 52 || !p.Touch {
		t.Errorf("release should keep last touch position, got %+v", p)
	}
}

func TestPointerTrackerReset(t *testing.T) {
	pt := NewPointerTracker()
	pt.Step(PointerSample{X: 1, Y: 1, Down: true})
	pt.Reset()
	if pt.State() != DragStateNone {
		t.Errorf("state after reset: %v", pt.State())
	}
	if p := pt.Step(PointerSample{X: 5, Y: 5, Down: true}); !p.JustPressed {
		t.Error("press after reset should start a new drag")
	}
}
