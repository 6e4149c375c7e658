package overlay

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/regionshot/internal/session"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the surface responsive.
const frameDropThreshold = 10

// Surface runs the fullscreen selection window and feeds its input events
// into a session. The window covers the union bounds of all monitors; the
// driver gives no control over decorations or stacking, so fullscreen
// coverage is achieved by sizing the window to the whole virtual desktop.
type Surface struct {
	sess     *session.Session
	renderer *Renderer
	scale    float64

	onClose   func()
	closeOnce sync.Once

	winMu sync.Mutex
	win   screen.Window
}

// SurfaceOption modifies a Surface during creation.
type SurfaceOption func(*Surface)

// WithOnClose registers a callback invoked once when the surface shuts down,
// whether by request or by the window being destroyed externally.
func WithOnClose(fn func()) SurfaceOption {
	return func(s *Surface) { s.onClose = fn }
}

// NewSurface creates the selection surface. scale converts the session's
// logical coordinates to buffer pixels.
func NewSurface(sess *session.Session, renderer *Renderer, scale float64, opts ...SurfaceOption) *Surface {
	s := &Surface{sess: sess, renderer: renderer, scale: scale}
	for _, o := range opts {
		o(s)
	}
	return s
}

// closeEvent asks the event loop to shut down.
type closeEvent struct{}

// Close requests the surface to shut down. Safe to call from any goroutine
// and before or after the window exists.
func (s *Surface) Close() {
	s.winMu.Lock()
	w := s.win
	s.winMu.Unlock()
	if w != nil {
		w.Send(closeEvent{})
	}
}

func (s *Surface) setWindow(w screen.Window) {
	s.winMu.Lock()
	s.win = w
	s.winMu.Unlock()
}

func (s *Surface) notifyClose() {
	s.closeOnce.Do(func() {
		s.setWindow(nil)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Run executes the surface event loop using shiny's driver. It blocks until
// the surface closes and must be called from the main goroutine.
func (s *Surface) Run() { driver.Main(s.main) }

func (s *Surface) main(scr screen.Screen) {
	bounds := s.sess.Bounds()
	width := int(bounds.Width * s.scale)
	height := int(bounds.Height * s.scale)
	w, err := scr.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "regionshot"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer s.notifyClose()

	s.setWindow(w)

	paintCh := make(chan frameState, 1)
	p := &painter{draw: func(ctx context.Context, st frameState) {
		s.drawFrame(ctx, scr, w, st)
	}}
	paintDone := make(chan struct{})
	go func() {
		defer close(paintDone)
		p.run(paintCh)
	}()
	defer func() {
		close(paintCh)
		<-paintDone
	}()

	w.Send(paint.Event{})

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case closeEvent:
			p.cancelInflight()
			return
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				p.cancelInflight()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			p.preempt()
			st := s.snapshot(width, height)
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			lx := float64(e.X) / s.scale
			ly := float64(e.Y) / s.scale
			switch e.Direction {
			case mouse.DirPress:
				if e.Button == mouse.ButtonLeft {
					s.sess.PointerDown(lx, ly)
				}
			case mouse.DirRelease:
				if e.Button == mouse.ButtonLeft {
					s.sess.PointerUp(lx, ly)
				}
			case mouse.DirNone:
				s.sess.PointerMove(lx, ly)
			}
			if s.sess.NeedsRepaint() {
				w.Send(paint.Event{})
			}
		case key.Event:
			s.sess.KeyDown(e)
			if s.sess.NeedsRepaint() {
				w.Send(paint.Event{})
			}
		}
	}
}

// painter serializes frame drawing off the event loop. Each frame draws
// under its own cancelable context so a fresh frame can abandon a stale one.
type painter struct {
	draw func(context.Context, frameState)

	mu        sync.Mutex
	cancel    context.CancelFunc
	dropCount int
}

// run draws frames until the channel closes.
func (p *painter) run(frames <-chan frameState) {
	for st := range frames {
		ctx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		p.draw(ctx, st)
		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.dropCount = 0
		}
		p.mu.Unlock()
	}
}

// cancelInflight abandons the frame currently drawing, if any.
func (p *painter) cancelInflight() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}

// preempt cancels an in-flight frame to make room for a fresher one, but
// lets a draw run to completion once frameDropThreshold frames in a row have
// been abandoned so the surface never starves.
func (p *painter) preempt() {
	p.mu.Lock()
	if p.cancel != nil && p.dropCount < frameDropThreshold {
		p.cancel()
		p.dropCount++
	}
	p.mu.Unlock()
}

// snapshot captures everything a frame needs so the paint goroutine never
// touches live session state.
func (s *Surface) snapshot(width, height int) frameState {
	st := frameState{width: width, height: height, scale: s.scale}
	if r, ok := s.sess.Selection(); ok {
		rc := r
		st.selection = &rc
		if s.sess.State() == session.StateAdjusting {
			st.handles = session.HandlePoints(r)
		}
	}
	return st
}

func (s *Surface) drawFrame(ctx context.Context, scr screen.Screen, w screen.Window, st frameState) {
	b, err := scr.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	s.renderer.Render(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
