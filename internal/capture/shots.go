package capture

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/example/regionshot/internal/geometry"
)

// ScaleResolver maps a monitor to its logical scale factor. Returning a
// value <= 0 means "use 1.0".
type ScaleResolver func(MonitorInfo) float64

// timeNow is a seam for tests.
var timeNow = time.Now

// CaptureMonitorShots takes one desktop screenshot, slices it per monitor
// and writes each slice to dir as a PNG. The returned records carry logical
// coordinates: device pixels from the display server divided by each
// monitor's scale factor. An empty dir means a fresh temp directory.
func CaptureMonitorShots(dir string, scaleFor ScaleResolver) ([]geometry.MonitorShot, error) {
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	shot, err := CaptureDesktop()
	if err != nil {
		return nil, fmt.Errorf("desktop screenshot: %w", err)
	}

	if dir == "" {
		dir, err = os.MkdirTemp("", "regionshot-")
		if err != nil {
			return nil, fmt.Errorf("temp dir: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	stamp := timeNow().Format("20060102_150405")
	shots := make([]geometry.MonitorShot, 0, len(monitors))
	for _, m := range monitors {
		crop, err := cropToRect(shot, m.Rect)
		if err != nil {
			removeShots(shots)
			return nil, fmt.Errorf("monitor %s: %w", monitorID(m), err)
		}
		path := filepath.Join(dir, fmt.Sprintf("monitor_%d_%s.png", m.Index, stamp))
		if err := writePNG(path, crop); err != nil {
			removeShots(shots)
			return nil, fmt.Errorf("monitor %s: %w", monitorID(m), err)
		}
		scale := 1.0
		if scaleFor != nil {
			if s := scaleFor(m); s > 0 {
				scale = s
			}
		}
		shots = append(shots, geometry.MonitorShot{
			ID:             monitorID(m),
			X:              float64(m.Rect.Min.X) / scale,
			Y:              float64(m.Rect.Min.Y) / scale,
			Width:          float64(m.Rect.Dx()) / scale,
			Height:         float64(m.Rect.Dy()) / scale,
			ScaleFactor:    scale,
			ScreenshotPath: path,
		})
	}
	return shots, nil
}

// CaptureMonitor screenshots a single monitor, chosen by selector, and
// writes it to dir. Returns the written file path. An empty dir means a
// fresh temp directory.
func CaptureMonitor(dir, selector string) (string, error) {
	monitors, err := ListMonitors()
	if err != nil {
		return "", err
	}
	m, err := FindMonitor(monitors, selector)
	if err != nil {
		return "", err
	}
	shot, err := CaptureDesktop()
	if err != nil {
		return "", fmt.Errorf("desktop screenshot: %w", err)
	}
	crop, err := cropToRect(shot, m.Rect)
	if err != nil {
		return "", fmt.Errorf("monitor %s: %w", monitorID(m), err)
	}

	if dir == "" {
		dir, err = os.MkdirTemp("", "regionshot-")
		if err != nil {
			return "", fmt.Errorf("temp dir: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("monitor_%d_%s.png", m.Index, timeNow().Format("20060102_150405")))
	if err := writePNG(path, crop); err != nil {
		return "", fmt.Errorf("monitor %s: %w", monitorID(m), err)
	}
	return path, nil
}

func monitorID(m MonitorInfo) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("monitor-%d", m.Index)
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// removeShots discards the files written before a later monitor failed.
func removeShots(shots []geometry.MonitorShot) {
	for _, s := range shots {
		if err := os.Remove(s.ScreenshotPath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove %s: %v", s.ScreenshotPath, err)
		}
	}
}
