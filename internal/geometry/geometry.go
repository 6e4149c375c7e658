// Package geometry translates between the coordinate spaces involved in a
// multi-monitor selection: the global logical space shared by all monitors,
// the overlay-local space of the selection surface, and each monitor's own
// device-pixel space.
package geometry

import (
	"errors"
	"math"
)

var errNoMonitors = errors.New("no monitors available")

// MonitorShot describes one display together with the path of its
// full-resolution screenshot. X, Y, Width and Height are global logical
// coordinates; ScaleFactor maps logical to device pixels for this monitor
// only. Records are immutable for the lifetime of a selection session.
type MonitorShot struct {
	ID             string
	X              float64
	Y              float64
	Width          float64
	Height         float64
	ScaleFactor    float64
	ScreenshotPath string
}

// Contains reports whether the global point (x, y) lies inside the monitor.
func (m MonitorShot) Contains(x, y float64) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Rect is an axis-aligned rectangle with non-negative width and height.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromCorners builds a normalized Rect from two free-form corner points.
func RectFromCorners(x0, y0, x1, y1 float64) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Bounds is the axis-aligned union of all monitor rectangles in global
// space. The overlay canvas covers exactly this region; overlay-local
// coordinates are global coordinates minus (MinX, MinY).
type Bounds struct {
	MinX   float64
	MinY   float64
	Width  float64
	Height float64
}

// ToOverlay converts a global point into overlay-local coordinates.
func (b Bounds) ToOverlay(x, y float64) (float64, float64) {
	return x - b.MinX, y - b.MinY
}

// ToGlobal converts an overlay-local rectangle into global coordinates.
func (b Bounds) ToGlobal(r Rect) Rect {
	return r.Translate(b.MinX, b.MinY)
}

// ComputeBounds folds the monitor list into its union bounding box. An empty
// list is a fatal precondition violation for a selection session, so it is
// reported as an error rather than producing an empty overlay.
func ComputeBounds(monitors []MonitorShot) (Bounds, error) {
	if len(monitors) == 0 {
		return Bounds{}, errNoMonitors
	}
	minX, minY := monitors[0].X, monitors[0].Y
	maxX, maxY := monitors[0].X+monitors[0].Width, monitors[0].Y+monitors[0].Height
	for _, m := range monitors[1:] {
		minX = math.Min(minX, m.X)
		minY = math.Min(minY, m.Y)
		maxX = math.Max(maxX, m.X+m.Width)
		maxY = math.Max(maxY, m.Y+m.Height)
	}
	return Bounds{MinX: minX, MinY: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

// ResolveTargetMonitor finds the monitor containing the global point
// (x, y). The first containing monitor in list order wins. When no monitor
// contains the point, which can happen if a selection is dragged slightly
// outside every display, the first monitor is returned as a deliberate
// simplification.
func ResolveTargetMonitor(x, y float64, monitors []MonitorShot) (MonitorShot, error) {
	if len(monitors) == 0 {
		return MonitorShot{}, errNoMonitors
	}
	for _, m := range monitors {
		if m.Contains(x, y) {
			return m, nil
		}
	}
	return monitors[0], nil
}

// DeviceRect is an integer rectangle in a monitor's device-pixel space.
type DeviceRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MapToDevicePixels converts a selection in global logical coordinates into
// the monitor's own device-pixel space. The selection is first translated to
// monitor-local logical coordinates, then clamped to the monitor, and only
// then scaled. Scaling before clamping yields wrong device bounds whenever
// the selection overhangs a monitor edge. Each edge is rounded as a
// position rather than rounding the width and height as sizes; rounding
// x and width independently can push the far edge one pixel past the
// monitor when the pointer delivers fractional coordinates.
func MapToDevicePixels(sel Rect, m MonitorShot) DeviceRect {
	localX := clamp(sel.X-m.X, 0, m.Width)
	localY := clamp(sel.Y-m.Y, 0, m.Height)
	width := clamp(sel.Width, 0, m.Width-localX)
	height := clamp(sel.Height, 0, m.Height-localY)
	x0 := int(math.Round(localX * m.ScaleFactor))
	y0 := int(math.Round(localY * m.ScaleFactor))
	x1 := int(math.Round((localX + width) * m.ScaleFactor))
	y1 := int(math.Round((localY + height) * m.ScaleFactor))
	return DeviceRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
