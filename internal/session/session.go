// Package session owns the interaction state of a region selection: the
// current selection rectangle, the active resize handle, and the transitions
// driven by pointer and keyboard input. All coordinates entering the session
// are overlay-local logical pixels; confirmed selections leave it in global
// coordinates. The session is host-agnostic and signals confirmation and
// cancellation through registered callbacks.
package session

import (
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/regionshot/internal/geometry"
)

// State is the single tagged interaction state. Exactly one holds at any
// instant; a selection rectangle exists only in StateSelecting and
// StateAdjusting.
type State int

const (
	// StateIdle has no selection; the next pointer press starts one.
	StateIdle State = iota
	// StateSelecting is the first drag defining a new rectangle.
	StateSelecting
	// StateAdjusting has a committed rectangle with handles active.
	StateAdjusting
)

// HandleKind distinguishes corner handles from edge-midpoint handles.
type HandleKind int

const (
	HandleCorner HandleKind = iota
	HandleEdge
)

// Corner and edge indices, clockwise from top-left and top respectively.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

const (
	EdgeTop = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Handle identifies which of the 8 resize handles is being dragged.
type Handle struct {
	Kind  HandleKind
	Index int
}

const (
	// HandleHitRadius is the pointer distance in logical pixels within
	// which a handle accepts a press.
	HandleHitRadius = 10
	// minCommitSize rejects micro-drags: a selection must exceed this in
	// both dimensions to survive pointer release.
	minCommitSize = 10
	// doubleClickWindow is the maximum gap between two presses inside the
	// committed rect that counts as a confirmation double-click.
	doubleClickWindow = 400 * time.Millisecond
)

// Session holds the mutable interaction state for one selection surface.
// It is owned and mutated by the UI event goroutine only; the renderer
// observes it between events on the same goroutine.
type Session struct {
	monitors []geometry.MonitorShot
	bounds   geometry.Bounds

	state  State
	rect   geometry.Rect
	active *Handle

	// anchor is the fixed corner of the in-progress drag: the press point
	// while selecting, or the opposite corner while corner-dragging.
	anchorX, anchorY float64
	// cur tracks the pointer while selecting.
	curX, curY float64
	// edge drags pin the three sides not being moved.
	fixX0, fixX1 float64
	fixY0, fixY1 float64

	dirty bool
	now   func() time.Time

	lastPress       time.Time
	lastPressInRect bool

	confirmFn func(geometry.Rect)
	cancelFn  func()
	finished  bool
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithConfirmFunc registers the callback receiving the confirmed selection
// in global logical coordinates.
func WithConfirmFunc(fn func(geometry.Rect)) Option {
	return func(s *Session) { s.confirmFn = fn }
}

// WithCancelFunc registers the callback invoked when the user cancels with
// no active selection.
func WithCancelFunc(fn func()) Option {
	return func(s *Session) { s.cancelFn = fn }
}

// WithClock overrides the time source, used by tests to drive the
// double-click window.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a Session for the given monitor layout. The monitor list must
// be non-empty; an empty list cannot produce usable bounds and the session
// must not start.
func New(monitors []geometry.MonitorShot, opts ...Option) (*Session, error) {
	bounds, err := geometry.ComputeBounds(monitors)
	if err != nil {
		return nil, err
	}
	s := &Session{
		monitors: monitors,
		bounds:   bounds,
		now:      time.Now,
		dirty:    true,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Bounds returns the union bounding box of the session's monitors.
func (s *Session) Bounds() geometry.Bounds { return s.bounds }

// Monitors returns the monitor layout the session was created with.
func (s *Session) Monitors() []geometry.MonitorShot { return s.monitors }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Selection returns the current rectangle in overlay-local coordinates and
// whether one exists. In StateIdle no rectangle exists.
func (s *Session) Selection() (geometry.Rect, bool) {
	switch s.state {
	case StateSelecting:
		return geometry.RectFromCorners(s.anchorX, s.anchorY, s.curX, s.curY), true
	case StateAdjusting:
		return s.rect, true
	}
	return geometry.Rect{}, false
}

// ActiveHandle reports the handle currently being dragged, or nil.
func (s *Session) ActiveHandle() *Handle { return s.active }

// Finished reports whether a confirm or cancel signal has already fired.
// Once finished the session accepts no further input.
func (s *Session) Finished() bool { return s.finished }

// NeedsRepaint reports whether the renderer should paint this tick and
// clears the dirty flag. While a drag is in progress it always reports true
// so the user sees continuous feedback.
func (s *Session) NeedsRepaint() bool {
	d := s.dirty
	s.dirty = false
	if s.state == StateSelecting || s.active != nil {
		return true
	}
	return d
}

func (s *Session) markDirty() { s.dirty = true }

// PointerDown handles a primary-button press at overlay-local (x, y).
func (s *Session) PointerDown(x, y float64) {
	if s.finished {
		return
	}
	switch s.state {
	case StateAdjusting:
		if h := s.hitHandle(x, y); h != nil {
			s.beginHandleDrag(*h)
			s.markDirty()
			return
		}
		if s.rectContains(x, y) {
			// First press arms the double-click confirm; the second press
			// inside the window fires it.
			now := s.now()
			if s.lastPressInRect && now.Sub(s.lastPress) <= doubleClickWindow {
				s.confirm()
				return
			}
			s.lastPress = now
			s.lastPressInRect = true
			return
		}
		s.lastPressInRect = false
		s.beginSelection(x, y)
	case StateIdle:
		s.beginSelection(x, y)
	case StateSelecting:
		// A second press mid-drag restarts the selection at the new point.
		s.beginSelection(x, y)
	}
	s.markDirty()
}

// PointerMove handles pointer motion at overlay-local (x, y).
func (s *Session) PointerMove(x, y float64) {
	if s.finished {
		return
	}
	switch {
	case s.state == StateSelecting:
		s.curX, s.curY = x, y
		s.markDirty()
	case s.state == StateAdjusting && s.active != nil:
		s.dragHandle(x, y)
		s.markDirty()
	}
}

// PointerUp handles the primary-button release at overlay-local (x, y).
func (s *Session) PointerUp(x, y float64) {
	if s.finished {
		return
	}
	switch {
	case s.state == StateSelecting:
		rect := geometry.RectFromCorners(s.anchorX, s.anchorY, x, y)
		if rect.Width > minCommitSize && rect.Height > minCommitSize {
			s.rect = rect
			s.state = StateAdjusting
		} else {
			// Micro-drags never commit.
			s.state = StateIdle
		}
		s.markDirty()
	case s.state == StateAdjusting && s.active != nil:
		s.dragHandle(x, y)
		s.active = nil
		s.markDirty()
	}
}

// KeyDown handles a key press. Escape discards an active selection before it
// cancels the session; Enter confirms a committed selection.
func (s *Session) KeyDown(e key.Event) {
	if s.finished || e.Direction != key.DirPress {
		return
	}
	switch e.Code {
	case key.CodeEscape:
		switch s.state {
		case StateAdjusting, StateSelecting:
			s.state = StateIdle
			s.active = nil
			s.markDirty()
		case StateIdle:
			s.cancel()
		}
	case key.CodeReturnEnter:
		if s.state == StateAdjusting {
			s.confirm()
		}
	}
}

func (s *Session) beginSelection(x, y float64) {
	s.state = StateSelecting
	s.active = nil
	s.anchorX, s.anchorY = x, y
	s.curX, s.curY = x, y
}

func (s *Session) rectContains(x, y float64) bool {
	return x >= s.rect.X && x <= s.rect.X+s.rect.Width &&
		y >= s.rect.Y && y <= s.rect.Y+s.rect.Height
}

func (s *Session) confirm() {
	if s.finished {
		return
	}
	s.finished = true
	if s.confirmFn != nil {
		s.confirmFn(s.bounds.ToGlobal(s.rect))
	}
}

func (s *Session) cancel() {
	if s.finished {
		return
	}
	s.finished = true
	if s.cancelFn != nil {
		s.cancelFn()
	}
}
