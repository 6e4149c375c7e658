package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type fakeBackend struct {
	monitors    []MonitorInfo
	monitorsErr error
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	if f.monitorsErr != nil {
		return nil, f.monitorsErr
	}
	return f.monitors, nil
}

func twoMonitorLayout() []MonitorInfo {
	return []MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080), Primary: true},
		{Index: 1, Name: "HDMI-1", Rect: image.Rect(1920, 0, 5760, 2160)},
	}
}

func desktopImage(bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 64 {
		for x := bounds.Min.X; x < bounds.Max.X; x += 64 {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestCaptureMonitorShots(t *testing.T) {
	originalBackend := backend
	prevPortal := portalScreenshotFn
	backend = fakeBackend{monitors: twoMonitorLayout()}
	portalScreenshotFn = func(bool) (*image.RGBA, error) {
		return desktopImage(image.Rect(0, 0, 5760, 2160)), nil
	}
	t.Cleanup(func() {
		backend = originalBackend
		portalScreenshotFn = prevPortal
	})

	dir := t.TempDir()
	scaleFor := func(m MonitorInfo) float64 {
		if m.Name == "HDMI-1" {
			return 2
		}
		return 1
	}

	shots, err := CaptureMonitorShots(dir, scaleFor)
	if err != nil {
		t.Fatalf("CaptureMonitorShots: %v", err)
	}
	if len(shots) != 2 {
		t.Fatalf("got %d shots, want 2", len(shots))
	}

	first := shots[0]
	if first.ID != "eDP-1" || first.X != 0 || first.Width != 1920 || first.ScaleFactor != 1 {
		t.Fatalf("unexpected first shot: %+v", first)
	}

	// The HiDPI monitor's device rect is halved into logical coordinates.
	second := shots[1]
	if second.ID != "HDMI-1" {
		t.Fatalf("unexpected second shot id: %s", second.ID)
	}
	if second.X != 960 || second.Width != 1920 || second.Height != 1080 || second.ScaleFactor != 2 {
		t.Fatalf("unexpected second shot geometry: %+v", second)
	}

	for _, s := range shots {
		f, err := os.Open(s.ScreenshotPath)
		if err != nil {
			t.Fatalf("open shot %s: %v", s.ScreenshotPath, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode shot %s: %v", s.ScreenshotPath, err)
		}
		if filepath.Dir(s.ScreenshotPath) != dir {
			t.Fatalf("shot written outside dir: %s", s.ScreenshotPath)
		}
		// Each slice keeps its monitor's device resolution.
		wantW := int(s.Width * s.ScaleFactor)
		if img.Bounds().Dx() != wantW {
			t.Fatalf("shot %s width %d, want %d", s.ID, img.Bounds().Dx(), wantW)
		}
	}
}

func TestCaptureMonitorShotsNoMonitors(t *testing.T) {
	originalBackend := backend
	backend = fakeBackend{}
	t.Cleanup(func() { backend = originalBackend })

	if _, err := CaptureMonitorShots(t.TempDir(), nil); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}

func TestCaptureMonitorShotsScreenshotError(t *testing.T) {
	originalBackend := backend
	prevPortal := portalScreenshotFn
	backend = fakeBackend{monitors: twoMonitorLayout()}
	portalErr := errors.New("portal unavailable")
	portalScreenshotFn = func(bool) (*image.RGBA, error) { return nil, portalErr }
	t.Cleanup(func() {
		backend = originalBackend
		portalScreenshotFn = prevPortal
	})

	if _, err := CaptureMonitorShots(t.TempDir(), nil); !errors.Is(err, portalErr) {
		t.Fatalf("expected wrapped portal error, got %v", err)
	}
}

func TestCaptureMonitor(t *testing.T) {
	originalBackend := backend
	prevPortal := portalScreenshotFn
	backend = fakeBackend{monitors: twoMonitorLayout()}
	portalScreenshotFn = func(bool) (*image.RGBA, error) {
		return desktopImage(image.Rect(0, 0, 5760, 2160)), nil
	}
	t.Cleanup(func() {
		backend = originalBackend
		portalScreenshotFn = prevPortal
	})

	dir := t.TempDir()
	path, err := CaptureMonitor(dir, "hdmi")
	if err != nil {
		t.Fatalf("CaptureMonitor: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("shot written outside dir: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open shot: %v", err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode shot: %v", err)
	}
	if img.Bounds().Dx() != 3840 || img.Bounds().Dy() != 2160 {
		t.Fatalf("shot size %v, want 3840x2160", img.Bounds().Size())
	}

	if _, err := CaptureMonitor(dir, "DP-3"); err == nil {
		t.Fatalf("expected error for unknown selector")
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := twoMonitorLayout()
	cases := []struct {
		selector string
		want     string
		wantErr  bool
	}{
		{"", "eDP-1", false},
		{"primary", "eDP-1", false},
		{"1", "HDMI-1", false},
		{"#1", "HDMI-1", false},
		{"hdmi", "HDMI-1", false},
		{"9", "", true},
		{"DP-3", "", true},
	}
	for _, tc := range cases {
		got, err := FindMonitor(monitors, tc.selector)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("selector %q: expected error", tc.selector)
			}
			continue
		}
		if err != nil {
			t.Fatalf("selector %q: %v", tc.selector, err)
		}
		if got.Name != tc.want {
			t.Fatalf("selector %q: got %s, want %s", tc.selector, got.Name, tc.want)
		}
	}

	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors for empty list, got %v", err)
	}
}
