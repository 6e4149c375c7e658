package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/config"
	"github.com/example/regionshot/internal/geometry"
)

func TestSelectRunCaptureError(t *testing.T) {
	original := captureMonitorShotsFn
	sentinel := errors.New("boom")
	captureMonitorShotsFn = func(string, capture.ScaleResolver) ([]geometry.MonitorShot, error) {
		return nil, sentinel
	}
	t.Cleanup(func() { captureMonitorShotsFn = original })

	cmd := &selectCmd{root: &root{program: "regionshot", config: config.New()}}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if want := "failed to capture monitors"; !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to contain %q, got %v", want, err)
		}
	}
}

func TestParseCropRequiresSource(t *testing.T) {
	_, err := parseCropCmd([]string{"-width", "10", "-height", "10"}, &root{program: "regionshot"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "either -in or -monitor is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseCropRejectsSourceAndMonitor(t *testing.T) {
	_, err := parseCropCmd([]string{"-in", "shot.png", "-monitor", "primary", "-width", "10", "-height", "10"}, &root{program: "regionshot"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "mutually exclusive"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseCropRejectsNonPositiveSize(t *testing.T) {
	_, err := parseCropCmd([]string{"-in", "shot.png", "-width", "0", "-height", "10"}, &root{program: "regionshot"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "must be positive"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseMonitorsRejectsArgs(t *testing.T) {
	_, err := parseMonitorsCmd([]string{"extra"}, &root{program: "regionshot"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSurfaceScalePicksDensestMonitor(t *testing.T) {
	shots := []geometry.MonitorShot{
		{ID: "eDP-1", ScaleFactor: 1},
		{ID: "HDMI-1", ScaleFactor: 2},
	}
	if got := surfaceScale(shots); got != 2 {
		t.Fatalf("surfaceScale = %g, want 2", got)
	}
	if got := surfaceScale(nil); got != 1 {
		t.Fatalf("surfaceScale with no monitors = %g, want 1", got)
	}
}
