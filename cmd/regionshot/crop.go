package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/example/regionshot/internal/capture"
	"github.com/example/regionshot/internal/cleanup"
	"github.com/example/regionshot/internal/crop"
)

type cropCmd struct {
	*root
	fs        *flag.FlagSet
	source    string
	monitor   string
	outDir    string
	x, y      int
	w, h      int
	copyImage bool
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	cmd := &cropCmd{root: r, fs: fs}
	fs.StringVar(&cmd.source, "in", "", "source screenshot to crop")
	fs.StringVar(&cmd.monitor, "monitor", "", "capture this monitor and crop from it (#<index>, primary, or a name substring)")
	fs.StringVar(&cmd.outDir, "out-dir", "", "directory for the cropped region (default: the source directory)")
	fs.IntVar(&cmd.x, "x", 0, "region left edge in source pixels")
	fs.IntVar(&cmd.y, "y", 0, "region top edge in source pixels")
	fs.IntVar(&cmd.w, "width", 0, "region width in source pixels")
	fs.IntVar(&cmd.h, "height", 0, "region height in source pixels")
	fs.BoolVar(&cmd.copyImage, "to-clipboard", false, "copy the cropped region to the clipboard")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.source == "" && cmd.monitor == "" {
		return nil, fmt.Errorf("either -in or -monitor is required")
	}
	if cmd.source != "" && cmd.monitor != "" {
		return nil, fmt.Errorf("-in and -monitor are mutually exclusive")
	}
	if cmd.w <= 0 || cmd.h <= 0 {
		return nil, fmt.Errorf("-width and -height must be positive")
	}
	return cmd, nil
}

func (c *cropCmd) Run() error {
	source := c.source
	if source == "" {
		// Live capture: the intermediate monitor shot is temporary.
		path, err := capture.CaptureMonitor("", c.monitor)
		if err != nil {
			return fmt.Errorf("failed to capture monitor: %w", err)
		}
		source = path
		defer func() {
			if err := cleanup.Remove(path); err != nil {
				log.Printf("remove %s: %v", path, err)
			}
		}()
	}

	svc := crop.New()
	path, err := svc.Crop(crop.Request{
		SourceImagePath: source,
		X:               c.x,
		Y:               c.y,
		Width:           c.w,
		Height:          c.h,
		DestinationDir:  c.outDir,
	})
	if err != nil {
		return fmt.Errorf("failed to crop %s: %w", source, err)
	}

	fmt.Fprintln(os.Stdout, path)
	c.notifyCapture(path)

	if c.copyImage {
		if err := copyImageFile(path); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		c.notifyCopy(path)
	}
	return nil
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
