package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/regionshot/internal/capture"
)

type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	cmd := &monitorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *monitorsCmd) Run() error {
	monitors, err := capture.ListMonitors()
	if err != nil {
		return err
	}
	if len(monitors) == 0 {
		fmt.Fprintln(os.Stdout, "no monitors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available monitors (* marks the primary monitor):")
	for _, mon := range monitors {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		size := mon.Rect.Size()
		fmt.Fprintf(os.Stdout, "%s #%d %s %dx%d at %d,%d (scale %g)\n",
			marker, mon.Index, mon.Name, size.X, size.Y,
			mon.Rect.Min.X, mon.Rect.Min.Y, c.config.EffectiveScale(mon.Name))
	}
	fmt.Fprintln(os.Stdout, "selectors: #<index>, primary, name substring")
	return nil
}

func (c *monitorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
