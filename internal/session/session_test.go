package session

import (
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/regionshot/internal/geometry"
)

func testMonitors() []geometry.MonitorShot {
	return []geometry.MonitorShot{
		{ID: "m1", X: 0, Y: 0, Width: 1920, Height: 1080, ScaleFactor: 1},
		{ID: "m2", X: 1920, Y: 0, Width: 1920, Height: 1080, ScaleFactor: 2},
	}
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(testMonitors(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func pressEsc() key.Event {
	return key.Event{Code: key.CodeEscape, Direction: key.DirPress}
}

func pressEnter() key.Event {
	return key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress}
}

func drag(s *Session, x0, y0, x1, y1 float64) {
	s.PointerDown(x0, y0)
	s.PointerMove(x1, y1)
	s.PointerUp(x1, y1)
}

func TestNewRequiresMonitors(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty monitor list")
	}
}

func TestDragCommitsNormalizedRect(t *testing.T) {
	s := newTestSession(t)
	// Drag up-left so the corners arrive reversed.
	drag(s, 500, 400, 200, 100)
	if s.State() != StateAdjusting {
		t.Fatalf("state = %v, want StateAdjusting", s.State())
	}
	r, ok := s.Selection()
	if !ok {
		t.Fatalf("no selection after commit")
	}
	want := geometry.Rect{X: 200, Y: 100, Width: 300, Height: 300}
	if r != want {
		t.Fatalf("selection = %+v, want %+v", r, want)
	}
}

func TestMicroDragNeverCommits(t *testing.T) {
	s := newTestSession(t)
	cases := []struct{ dx, dy float64 }{
		{0, 0},
		{10, 10},
		{10, 300},
		{300, 10},
	}
	for _, tc := range cases {
		drag(s, 100, 100, 100+tc.dx, 100+tc.dy)
		if s.State() != StateIdle {
			t.Fatalf("drag of %vx%v committed, state = %v", tc.dx, tc.dy, s.State())
		}
		if _, ok := s.Selection(); ok {
			t.Fatalf("drag of %vx%v left a selection", tc.dx, tc.dy)
		}
	}
	// Just over the threshold commits.
	drag(s, 100, 100, 111, 111)
	if s.State() != StateAdjusting {
		t.Fatalf("11x11 drag did not commit")
	}
}

func TestEscapeDiscardsThenCancels(t *testing.T) {
	cancelled := 0
	s := newTestSession(t, WithCancelFunc(func() { cancelled++ }))
	drag(s, 100, 100, 400, 400)

	s.KeyDown(pressEsc())
	if s.State() != StateIdle {
		t.Fatalf("first Escape: state = %v, want StateIdle", s.State())
	}
	if cancelled != 0 {
		t.Fatalf("first Escape cancelled the session")
	}

	s.KeyDown(pressEsc())
	if cancelled != 1 {
		t.Fatalf("second Escape: cancel fired %d times, want 1", cancelled)
	}
	if !s.Finished() {
		t.Fatalf("session not finished after cancel")
	}

	// Input after cancel is ignored, the signal fires once.
	s.KeyDown(pressEsc())
	s.PointerDown(100, 100)
	if cancelled != 1 {
		t.Fatalf("cancel fired again after finish")
	}
}

func TestEnterConfirmsInGlobalCoordinates(t *testing.T) {
	monitors := []geometry.MonitorShot{
		{ID: "left", X: -1440, Y: 0, Width: 1440, Height: 900, ScaleFactor: 1},
		{ID: "right", X: 0, Y: 0, Width: 2560, Height: 1440, ScaleFactor: 1},
	}
	var got geometry.Rect
	confirms := 0
	s, err := New(monitors, WithConfirmFunc(func(r geometry.Rect) {
		got = r
		confirms++
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Overlay origin is the union min (-1440, 0); a drag at overlay x=100
	// lands at global x=-1340.
	drag(s, 100, 50, 300, 250)
	s.KeyDown(pressEnter())

	if confirms != 1 {
		t.Fatalf("confirm fired %d times, want 1", confirms)
	}
	want := geometry.Rect{X: -1340, Y: 50, Width: 200, Height: 200}
	if got != want {
		t.Fatalf("confirmed rect = %+v, want %+v", got, want)
	}

	s.KeyDown(pressEnter())
	if confirms != 1 {
		t.Fatalf("confirm fired again after finish")
	}
}

func TestEnterWithoutSelectionDoesNothing(t *testing.T) {
	s := newTestSession(t, WithConfirmFunc(func(geometry.Rect) {
		t.Fatalf("confirm fired with no selection")
	}))
	s.KeyDown(pressEnter())
	if s.Finished() {
		t.Fatalf("session finished without a selection")
	}
}

func TestCornerHandleWinsOverEdge(t *testing.T) {
	s := newTestSession(t)
	drag(s, 100, 100, 300, 120)
	// The rect is 200x20, so the top-left corner (100,100) and the left edge
	// midpoint (100,110) are both within radius of a press at (103,105).
	s.PointerDown(103, 105)
	h := s.ActiveHandle()
	if h == nil {
		t.Fatalf("no handle hit")
	}
	if h.Kind != HandleCorner || h.Index != CornerTopLeft {
		t.Fatalf("active handle = %+v, want top-left corner", *h)
	}
	s.PointerUp(103, 105)
}

func TestHandleHitRadius(t *testing.T) {
	s := newTestSession(t)
	drag(s, 100, 100, 400, 400)

	// 9px away grabs the handle.
	s.PointerDown(400+9, 400)
	if s.ActiveHandle() == nil {
		t.Fatalf("press 9px from corner missed the handle")
	}
	s.PointerUp(400+9, 400)

	// 11px away starts a fresh selection instead.
	s.PointerDown(400+11, 411)
	if s.ActiveHandle() != nil {
		t.Fatalf("press 11px from corner grabbed a handle")
	}
	if s.State() != StateSelecting {
		t.Fatalf("press outside rect did not start a new selection")
	}
}

func TestEdgeDragMovesOneAxisOnly(t *testing.T) {
	s := newTestSession(t)
	drag(s, 100, 100, 400, 300)

	// Grab the top edge midpoint (250, 100) and drag it diagonally; only the
	// top side may move.
	s.PointerDown(250, 100)
	s.PointerMove(500, 150)
	s.PointerUp(500, 150)

	r, _ := s.Selection()
	want := geometry.Rect{X: 100, Y: 150, Width: 300, Height: 150}
	if r != want {
		t.Fatalf("after top-edge drag: %+v, want %+v", r, want)
	}
	if s.State() != StateAdjusting {
		t.Fatalf("edge drag left state %v", s.State())
	}
}

func TestCornerDragFlipsThroughAnchor(t *testing.T) {
	s := newTestSession(t)
	drag(s, 100, 100, 400, 300)

	// Drag the bottom-right corner past the top-left anchor.
	s.PointerDown(400, 300)
	s.PointerMove(50, 40)
	s.PointerUp(50, 40)

	r, _ := s.Selection()
	want := geometry.Rect{X: 50, Y: 40, Width: 50, Height: 60}
	if r != want {
		t.Fatalf("after flip drag: %+v, want %+v", r, want)
	}
}

func TestPressOutsideRectStartsNewSelection(t *testing.T) {
	s := newTestSession(t)
	drag(s, 100, 100, 400, 300)
	drag(s, 600, 600, 900, 900)
	r, _ := s.Selection()
	want := geometry.Rect{X: 600, Y: 600, Width: 300, Height: 300}
	if r != want {
		t.Fatalf("replacement selection = %+v, want %+v", r, want)
	}
}

func TestDoubleClickInsideRectConfirms(t *testing.T) {
	now := time.Unix(1000, 0)
	confirms := 0
	s := newTestSession(t,
		WithClock(func() time.Time { return now }),
		WithConfirmFunc(func(geometry.Rect) { confirms++ }),
	)
	drag(s, 100, 100, 400, 400)

	s.PointerDown(250, 250)
	s.PointerUp(250, 250)
	now = now.Add(200 * time.Millisecond)
	s.PointerDown(250, 250)
	if confirms != 1 {
		t.Fatalf("double-click inside rect fired %d confirms, want 1", confirms)
	}
}

func TestSlowSecondClickDoesNotConfirm(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newTestSession(t, WithClock(func() time.Time { return now }),
		WithConfirmFunc(func(geometry.Rect) {
			t.Fatalf("slow second click confirmed")
		}))
	drag(s, 100, 100, 400, 400)

	s.PointerDown(250, 250)
	s.PointerUp(250, 250)
	now = now.Add(600 * time.Millisecond)
	s.PointerDown(250, 250)
	if s.Finished() {
		t.Fatalf("session finished on slow clicks")
	}
}

func TestNeedsRepaint(t *testing.T) {
	s := newTestSession(t)
	if !s.NeedsRepaint() {
		t.Fatalf("fresh session should paint once")
	}
	if s.NeedsRepaint() {
		t.Fatalf("idle session should not repaint")
	}

	s.PointerDown(100, 100)
	s.PointerMove(200, 200)
	if !s.NeedsRepaint() {
		t.Fatalf("active drag should always repaint")
	}
	if !s.NeedsRepaint() {
		t.Fatalf("active drag should repaint every tick")
	}

	s.PointerUp(300, 300)
	if !s.NeedsRepaint() {
		t.Fatalf("commit should mark dirty")
	}
	if s.NeedsRepaint() {
		t.Fatalf("settled rect should not repaint")
	}
}

func TestHandlePointsLayout(t *testing.T) {
	r := geometry.Rect{X: 10, Y: 20, Width: 100, Height: 60}
	pts := HandlePoints(r)
	if len(pts) != 8 {
		t.Fatalf("got %d handle points, want 8", len(pts))
	}
	checks := map[Handle][2]float64{
		{HandleCorner, CornerTopLeft}:     {10, 20},
		{HandleCorner, CornerBottomRight}: {110, 80},
		{HandleEdge, EdgeTop}:             {60, 20},
		{HandleEdge, EdgeLeft}:            {10, 50},
	}
	for _, p := range pts {
		want, ok := checks[p.Handle]
		if !ok {
			continue
		}
		if p.X != want[0] || p.Y != want[1] {
			t.Fatalf("handle %+v at (%v, %v), want (%v, %v)", p.Handle, p.X, p.Y, want[0], want[1])
		}
	}
}
