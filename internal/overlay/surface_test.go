package overlay

import (
	"context"
	"testing"
	"time"
)

func TestPainterStopsWhenFrameChannelCloses(t *testing.T) {
	drawn := 0
	p := &painter{draw: func(context.Context, frameState) { drawn++ }}
	frames := make(chan frameState, 1)
	done := make(chan struct{})
	go func() {
		p.run(frames)
		close(done)
	}()

	frames <- frameState{width: 10, height: 10}
	close(frames)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("paint loop still running after frame channel closed")
	}
	if drawn != 1 {
		t.Fatalf("drew %d frames, want 1", drawn)
	}
}

func TestPainterPreemptCancelsInflightFrame(t *testing.T) {
	started := make(chan struct{})
	p := &painter{draw: func(ctx context.Context, st frameState) {
		started <- struct{}{}
		<-ctx.Done()
	}}
	frames := make(chan frameState, 1)
	done := make(chan struct{})
	go func() {
		p.run(frames)
		close(done)
	}()

	frames <- frameState{}
	// The cancel func is registered before draw is invoked, so once the draw
	// has started preempt is guaranteed to reach it.
	<-started
	p.preempt()

	close(frames)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("canceled frame did not finish")
	}
	if p.dropCount != 1 {
		t.Fatalf("dropCount = %d, want 1", p.dropCount)
	}
}
