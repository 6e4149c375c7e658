package session

import (
	"math"

	"github.com/example/regionshot/internal/geometry"
)

// HandlePoint is the center of one resize handle in overlay-local
// coordinates, exposed so the renderer draws handles exactly where the
// session hit-tests them.
type HandlePoint struct {
	Handle Handle
	X, Y   float64
}

// HandlePoints returns the 8 handle centers for r: four corners followed by
// four edge midpoints, in index order.
func HandlePoints(r geometry.Rect) []HandlePoint {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	cx, cy := r.Center()
	return []HandlePoint{
		{Handle{HandleCorner, CornerTopLeft}, x0, y0},
		{Handle{HandleCorner, CornerTopRight}, x1, y0},
		{Handle{HandleCorner, CornerBottomRight}, x1, y1},
		{Handle{HandleCorner, CornerBottomLeft}, x0, y1},
		{Handle{HandleEdge, EdgeTop}, cx, y0},
		{Handle{HandleEdge, EdgeRight}, x1, cy},
		{Handle{HandleEdge, EdgeBottom}, cx, y1},
		{Handle{HandleEdge, EdgeLeft}, x0, cy},
	}
}

// hitHandle returns the handle under (x, y), or nil. Corners are tested
// before edges so a press near a corner always resizes both axes.
func (s *Session) hitHandle(x, y float64) *Handle {
	points := HandlePoints(s.rect)
	for _, p := range points {
		if p.Handle.Kind != HandleCorner {
			continue
		}
		if math.Hypot(x-p.X, y-p.Y) <= HandleHitRadius {
			h := p.Handle
			return &h
		}
	}
	for _, p := range points {
		if p.Handle.Kind != HandleEdge {
			continue
		}
		if math.Hypot(x-p.X, y-p.Y) <= HandleHitRadius {
			h := p.Handle
			return &h
		}
	}
	return nil
}

// beginHandleDrag records the sides of the rect that stay fixed for the
// duration of the drag. Corner drags pin the opposite corner; edge drags pin
// the other three sides.
func (s *Session) beginHandleDrag(h Handle) {
	s.active = &h
	r := s.rect
	s.fixX0, s.fixY0 = r.X, r.Y
	s.fixX1, s.fixY1 = r.X+r.Width, r.Y+r.Height
	if h.Kind == HandleCorner {
		switch h.Index {
		case CornerTopLeft:
			s.anchorX, s.anchorY = s.fixX1, s.fixY1
		case CornerTopRight:
			s.anchorX, s.anchorY = s.fixX0, s.fixY1
		case CornerBottomRight:
			s.anchorX, s.anchorY = s.fixX0, s.fixY0
		case CornerBottomLeft:
			s.anchorX, s.anchorY = s.fixX1, s.fixY0
		}
	}
}

// dragHandle recomputes the rect for the pointer at (x, y). RectFromCorners
// renormalizes, so dragging a handle through its opposite side flips the
// rect instead of producing negative extents.
func (s *Session) dragHandle(x, y float64) {
	h := s.active
	if h == nil {
		return
	}
	if h.Kind == HandleCorner {
		s.rect = geometry.RectFromCorners(s.anchorX, s.anchorY, x, y)
		return
	}
	switch h.Index {
	case EdgeTop:
		s.rect = geometry.RectFromCorners(s.fixX0, y, s.fixX1, s.fixY1)
	case EdgeBottom:
		s.rect = geometry.RectFromCorners(s.fixX0, s.fixY0, s.fixX1, y)
	case EdgeLeft:
		s.rect = geometry.RectFromCorners(x, s.fixY0, s.fixX1, s.fixY1)
	case EdgeRight:
		s.rect = geometry.RectFromCorners(s.fixX0, s.fixY0, x, s.fixY1)
	}
}
