// Package dispatch turns a confirmed selection into a cropped screenshot
// and tears the selection session down afterwards: temp screenshots are
// removed, the selection surface is closed, and the outcome is delivered on
// a completion channel regardless of which way the session ended.
package dispatch

import (
	"fmt"
	"log"
	"sync"

	"github.com/example/regionshot/internal/cleanup"
	"github.com/example/regionshot/internal/crop"
	"github.com/example/regionshot/internal/geometry"
)

// Cropper cuts a device rect out of a saved screenshot.
type Cropper interface {
	Crop(req crop.Request) (string, error)
}

// Surface is the selection window the dispatcher closes when the session
// ends.
type Surface interface {
	Close()
}

// Result is the outcome of a selection session: a cropped file path, an
// error, or a plain cancellation.
type Result struct {
	Path      string
	Err       error
	Cancelled bool
}

// Dispatcher finishes a selection session exactly once. Confirm and Cancel
// may race; whichever arrives first wins and the other becomes a no-op.
type Dispatcher struct {
	monitors []geometry.MonitorShot
	cropper  Cropper
	surface  Surface

	destDir   string
	removeAll func([]string)
	restore   func()

	once sync.Once
	done chan Result
}

// Option modifies a Dispatcher during creation.
type Option func(*Dispatcher)

// WithDestinationDir sets where cropped files are written.
func WithDestinationDir(dir string) Option {
	return func(d *Dispatcher) { d.destDir = dir }
}

// WithRestoreFunc registers a hook run during teardown, after cropping but
// before the surface closes. Used to bring the caller's window back.
func WithRestoreFunc(fn func()) Option {
	return func(d *Dispatcher) { d.restore = fn }
}

// WithCleanupFunc overrides temp-file removal, used by tests.
func WithCleanupFunc(fn func([]string)) Option {
	return func(d *Dispatcher) { d.removeAll = fn }
}

// New creates a Dispatcher for one session over the given monitor shots.
func New(monitors []geometry.MonitorShot, cropper Cropper, surface Surface, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		monitors:  monitors,
		cropper:   cropper,
		surface:   surface,
		removeAll: cleanup.RemoveAll,
		done:      make(chan Result, 1),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Done returns the completion channel. Exactly one Result is ever sent.
func (d *Dispatcher) Done() <-chan Result { return d.done }

// Confirm crops the selection, given in global logical coordinates, out of
// the target monitor's screenshot. A failed crop still tears the session
// down; the error travels on the completion channel.
func (d *Dispatcher) Confirm(sel geometry.Rect) {
	d.once.Do(func() {
		var res Result
		cx, cy := sel.Center()
		mon, err := geometry.ResolveTargetMonitor(cx, cy, d.monitors)
		if err != nil {
			res.Err = fmt.Errorf("resolve monitor: %w", err)
		} else {
			dr := geometry.MapToDevicePixels(sel, mon)
			path, err := d.cropper.Crop(crop.Request{
				SourceImagePath: mon.ScreenshotPath,
				X:               dr.X,
				Y:               dr.Y,
				Width:           dr.Width,
				Height:          dr.Height,
				DestinationDir:  d.destDir,
			})
			if err != nil {
				log.Printf("dispatch: crop monitor %s: %v", mon.ID, err)
				res.Err = fmt.Errorf("crop region: %w", err)
			} else {
				res.Path = path
			}
		}
		d.teardown(res)
	})
}

// Cancel tears the session down without cropping.
func (d *Dispatcher) Cancel() {
	d.once.Do(func() {
		d.teardown(Result{Cancelled: true})
	})
}

func (d *Dispatcher) teardown(res Result) {
	paths := make([]string, 0, len(d.monitors))
	for _, m := range d.monitors {
		paths = append(paths, m.ScreenshotPath)
	}
	d.removeAll(paths)
	if d.restore != nil {
		d.restore()
	}
	d.done <- res
	if d.surface != nil {
		d.surface.Close()
	}
}
