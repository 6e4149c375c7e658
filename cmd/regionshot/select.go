package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/cleanup"
	"github.com/example/regionshot/internal/clipboard"
	"github.com/example/regionshot/internal/crop"
	"github.com/example/regionshot/internal/dispatch"
	"github.com/example/regionshot/internal/geometry"
	"github.com/example/regionshot/internal/overlay"
	"github.com/example/regionshot/internal/session"
)

// Test seam for the capture pipeline.
var captureMonitorShotsFn = capture.CaptureMonitorShots

type selectCmd struct {
	*root
	fs        *flag.FlagSet
	saveDir   string
	shotsDir  string
	copyImage bool
}

func parseSelectCmd(args []string, r *root) (*selectCmd, error) {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	cmd := &selectCmd{root: r, fs: fs}
	fs.StringVar(&cmd.saveDir, "save-dir", "", "directory for the cropped region (default: config save_dir, else the screenshot directory)")
	fs.StringVar(&cmd.shotsDir, "shots-dir", "", "directory for intermediate monitor screenshots (default: a temp directory)")
	fs.BoolVar(&cmd.copyImage, "to-clipboard", false, "copy the cropped region to the clipboard")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *selectCmd) Run() error {
	cfg := c.config
	saveDir := c.saveDir
	if saveDir == "" {
		saveDir = cfg.SaveDir
	}

	shots, err := captureMonitorShotsFn(c.shotsDir, func(m capture.MonitorInfo) float64 {
		return cfg.EffectiveScale(m.Name)
	})
	if err != nil {
		return fmt.Errorf("failed to capture monitors: %w", err)
	}

	// The dispatcher closes over the session callbacks and the surface, so
	// it is assigned after both exist. Nothing fires before Run starts the
	// event loop.
	var dispatcher *dispatch.Dispatcher

	sess, err := session.New(shots,
		session.WithConfirmFunc(func(r geometry.Rect) { dispatcher.Confirm(r) }),
		session.WithCancelFunc(func() { dispatcher.Cancel() }),
	)
	if err != nil {
		removeShots(shots)
		return fmt.Errorf("start selection session: %w", err)
	}

	scale := surfaceScale(shots)
	backdrop, err := overlay.BuildBackdrop(shots, sess.Bounds(), scale)
	if err != nil {
		removeShots(shots)
		return fmt.Errorf("build backdrop: %w", err)
	}

	renderer := overlay.NewRenderer(c.activeTheme, backdrop)
	surface := overlay.NewSurface(sess, renderer, scale,
		overlay.WithOnClose(func() { dispatcher.Cancel() }))
	dispatcher = dispatch.New(shots, crop.New(), surface,
		dispatch.WithDestinationDir(saveDir))

	surface.Run()

	res := <-dispatcher.Done()
	if res.Cancelled {
		fmt.Fprintln(os.Stderr, "selection cancelled")
		return nil
	}
	if res.Err != nil {
		return res.Err
	}

	fmt.Fprintln(os.Stdout, res.Path)
	c.notifyCapture(res.Path)

	if c.copyImage {
		if err := copyImageFile(res.Path); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.notifyCopy(res.Path)
	}
	return nil
}

func (c *selectCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

// surfaceScale picks the buffer scale for the selection window. The densest
// monitor wins so its pixels render 1:1.
func surfaceScale(shots []geometry.MonitorShot) float64 {
	scale := 1.0
	for _, s := range shots {
		if s.ScaleFactor > scale {
			scale = s.ScaleFactor
		}
	}
	return scale
}

func removeShots(shots []geometry.MonitorShot) {
	paths := make([]string, 0, len(shots))
	for _, s := range shots {
		paths = append(paths, s.ScreenshotPath)
	}
	cleanup.RemoveAll(paths)
}

func copyImageFile(path string) error {
	img, err := loadImageFile(path)
	if err != nil {
		return err
	}
	return clipboard.WriteImage(img)
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
