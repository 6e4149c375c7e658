// Package capture lists the monitor layout and produces the per-monitor
// screenshots a selection session starts from.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
}

var backend platformBackend = newBackend()

// portalScreenshotFn is a seam for tests.
var portalScreenshotFn = portalScreenshot

var errNoMonitors = errors.New("no monitors available")

// MonitorInfo describes an individual monitor in the display layout. Rect is
// in device pixels, as reported by the display server.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	monitors, err := backend.ListMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

// FindMonitor resolves a monitor selector against the provided list. An
// empty selector picks the first monitor, "primary" the primary one, a
// number (optionally "#"-prefixed) selects by index, anything else matches
// the monitor name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	if selector == "" {
		return monitors[0], nil
	}
	sel := strings.TrimSpace(selector)
	lower := strings.ToLower(sel)
	if lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if strings.HasPrefix(lower, "#") {
		lower = lower[1:]
	}
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// CaptureDesktop takes one screenshot of the whole virtual desktop.
func CaptureDesktop() (*image.RGBA, error) {
	return portalScreenshotFn(false)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// portalScreenshot and loadPNG are implemented in platform-specific files.
