package carousel

import (
	"context"
	"testing"
	"time"

	"cloud-carousel/internal/geometry"
)

type loopHarness struct {
	loop  *Loop
	clock *manualClock
	alt   *textSink
	stop  func()
	errc  chan error
}

func startLoop(t *testing.T, n int, cfg Config, surf Surface) *loopHarness {
	t.Helper()
	h := &loopHarness{clock: &manualClock{}, alt: &textSink{}, errc: make(chan error, 1)}
	cfg.AltText = h.alt
	if surf == nil {
		surf = newRecordingSurface(600, 300)
	}
	ctrl, err := NewController(NewRegistry(testSources(n), cfg, nil, nil), surf, cfg, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	h.loop = NewLoop(ctrl, h.clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { h.errc <- h.loop.Run(ctx) }()
	h.stop = func() {
		cancel()
		select {
		case err := <-h.errc:
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	}
	t.Cleanup(func() {
		select {
		case <-h.loop.done:
		default:
			h.stop()
		}
	})
	// Wait for Run to finish its setup.
	if !h.loop.Do(func(*Controller) {}) {
		t.Fatal("loop not running")
	}
	return h
}

func (h *loopHarness) state(t *testing.T) (front int, dest float64, idle bool) {
	t.Helper()
	if !h.loop.Do(func(c *Controller) {
		front, dest, idle = c.Front(), c.Destination(), c.Idle()
	}) {
		t.Fatal("loop stopped")
	}
	return
}

func mustFire(t *testing.T, ch chan time.Time) {
	t.Helper()
	if err := fire(ch); err != nil {
		t.Fatal(err)
	}
}

// settleLoop fires frame ticks until the controller is idle.
func (h *loopHarness) settleLoop(t *testing.T, frames *manualTicker) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if _, _, idle := h.state(t); idle {
			return
		}
		mustFire(t, frames.ch)
	}
	t.Fatal("loop did not converge")
}

func TestLoopStartShowsFrontText(t *testing.T) {
	surf := newRecordingSurface(600, 300)
	h := startLoop(t, 3, DefaultConfig(), surf)

	if h.alt.Text() != "alt 0" {
		t.Errorf("alt text = %q, want alt 0", h.alt.Text())
	}
	h.loop.Do(func(*Controller) {
		if surf.shows != 1 || surf.placed != 3 {
			t.Errorf("initial layout: shows=%d placed=%d, want 1/3", surf.shows, surf.placed)
		}
	})
	if n := h.clock.tickerCount(); n != 1 {
		t.Errorf("%d tickers with autorotate off, want only the frame ticker", n)
	}
	if d := h.clock.ticker(0).d; d != 16*time.Millisecond {
		t.Errorf("frame interval = %v, want 16ms", d)
	}
}

func TestLoopAutoRotateOncePerConvergence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotate = AutoRotateRight
	h := startLoop(t, 5, cfg, nil)

	frames, auto := h.clock.ticker(0), h.clock.ticker(1)
	if auto.d != 1500*time.Millisecond {
		t.Fatalf("autorotate interval = %v, want 1500ms", auto.d)
	}
	_, start, _ := h.state(t)
	step := geometry.Spacing(5)

	mustFire(t, auto.ch)
	front, dest, _ := h.state(t)
	if front != 4 || dest != start+step {
		t.Fatalf("after first interval: front=%d dest=%f, want 4/%f", front, dest, start+step)
	}

	// The ease has not converged: further intervals are ignored.
	mustFire(t, frames.ch)
	mustFire(t, auto.ch)
	mustFire(t, auto.ch)
	if _, d, _ := h.state(t); d != start+step {
		t.Fatalf("rotation queued before convergence: dest=%f", d)
	}

	h.settleLoop(t, frames)
	mustFire(t, auto.ch)
	if _, d, _ := h.state(t); d != start+2*step {
		t.Errorf("after convergence: dest=%f, want %f", d, start+2*step)
	}
}

func TestLoopUserRotateResetsAutoRotate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotate = AutoRotateLeft
	h := startLoop(t, 5, cfg, nil)
	first := h.clock.ticker(1)

	h.loop.Rotate(1)
	front, _, _ := h.state(t)
	if front != 4 {
		t.Errorf("front = %d, want 4", front)
	}
	if !first.stopped {
		t.Error("old autorotate ticker not stopped")
	}
	if n := h.clock.tickerCount(); n != 3 {
		t.Errorf("ticker count = %d, want a fresh autorotate ticker", n)
	}

	h.loop.PointerOver(-1)
	h.state(t)
	if n := h.clock.tickerCount(); n != 4 {
		t.Errorf("pointer-over did not restart autorotation (tickers=%d)", n)
	}
}

func TestLoopWheel(t *testing.T) {
	h := startLoop(t, 5, DefaultConfig(), nil)
	h.loop.Wheel(2)
	if front, _, _ := h.state(t); front != 0 {
		t.Errorf("wheel rotated with the wheel disabled: front=%d", front)
	}

	cfg := DefaultConfig()
	cfg.MouseWheel = true
	h = startLoop(t, 5, cfg, nil)
	h.loop.Wheel(-2)
	if front, _, _ := h.state(t); front != 2 {
		t.Errorf("wheel -2: front=%d, want 2", front)
	}
}

func TestLoopClickBringsToFront(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BringToFront = true
	h := startLoop(t, 5, cfg, nil)
	_, start, _ := h.state(t)

	h.loop.Click(2)
	front, dest, _ := h.state(t)
	if front != 2 {
		t.Errorf("front = %d, want 2", front)
	}
	if want := start - 2*geometry.Spacing(5); dest != want {
		t.Errorf("dest = %f, want two steps back (%f)", dest, want)
	}
	if h.alt.Text() != "alt 2" {
		t.Errorf("alt text = %q", h.alt.Text())
	}

	cfg.BringToFront = false
	h = startLoop(t, 5, cfg, nil)
	h.loop.Click(3)
	if front, _, _ := h.state(t); front != 0 {
		t.Error("click rotated with bring-to-front disabled")
	}
	if h.alt.Text() != "alt 3" {
		t.Errorf("click text = %q, want alt 3", h.alt.Text())
	}
}

func TestLoopHoverTextRestores(t *testing.T) {
	h := startLoop(t, 4, DefaultConfig(), nil)

	h.loop.PointerOver(3)
	h.state(t)
	if h.alt.Text() != "alt 3" {
		t.Fatalf("hover text = %q, want alt 3", h.alt.Text())
	}

	h.loop.PointerOut()
	h.state(t)
	tm := h.clock.timer(-1)
	if tm.d != time.Second {
		t.Errorf("restore delay = %v, want 1s", tm.d)
	}
	if h.alt.Text() != "alt 3" {
		t.Fatal("text restored before the delay")
	}
	mustFire(t, tm.ch)
	h.state(t)
	if h.alt.Text() != "alt 0" {
		t.Errorf("restored text = %q, want alt 0", h.alt.Text())
	}

	// Hovering again cancels a pending restore.
	h.loop.PointerOut()
	h.loop.PointerOver(1)
	h.state(t)
	if !h.clock.timer(-1).stopped {
		t.Error("pending restore not cancelled by hover")
	}
}

func TestLoopPauseResume(t *testing.T) {
	h := startLoop(t, 3, DefaultConfig(), nil)
	frames := h.clock.ticker(0)

	h.loop.Rotate(1)
	h.loop.Pause()
	_, _, idle := h.state(t)
	mustFire(t, frames.ch)
	var rot, start float64
	h.loop.Do(func(c *Controller) { rot, start = c.Rotation(), c.start })
	if idle || rot != start {
		t.Errorf("paused loop moved: rotation=%f start=%f", rot, start)
	}

	h.loop.TogglePause()
	mustFire(t, frames.ch)
	h.loop.Do(func(c *Controller) { rot = c.Rotation() })
	if rot == start {
		t.Error("resumed loop did not move")
	}
}

func TestLoopHitTest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.XRadius, cfg.YRadius = 200, 50
	h := startLoop(t, 5, cfg, nil)

	// Front item: 100x80 at x = 300-50, y = 50+50.
	idx, ok := h.loop.HitTest(300, 120)
	if !ok || idx != 0 {
		t.Errorf("HitTest on front item = %d,%v", idx, ok)
	}
	if _, ok := h.loop.HitTest(5, 295); ok {
		t.Error("HitTest on empty corner hit an item")
	}
}

type pacedSurface struct {
	*recordingSurface
	signal chan struct{}
}

func (p pacedSurface) FrameSignal() <-chan struct{} { return p.signal }

func TestLoopUsesSurfaceFrameSignal(t *testing.T) {
	surf := pacedSurface{newRecordingSurface(600, 300), make(chan struct{})}
	h := startLoop(t, 3, DefaultConfig(), surf)
	if n := h.clock.tickerCount(); n != 0 {
		t.Fatalf("frame ticker created for a paced surface (%d tickers)", n)
	}

	h.loop.Rotate(1)
	h.state(t)
	select {
	case surf.signal <- struct{}{}:
	case <-time.After(2 * time.Second):
		t.Fatal("loop not reading the frame signal")
	}
	var rot, start float64
	h.loop.Do(func(c *Controller) { rot, start = c.Rotation(), c.start })
	if rot == start {
		t.Error("frame signal did not tick")
	}
}

func TestLoopStops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRotate = AutoRotateRight
	h := startLoop(t, 2, cfg, nil)
	frames, auto := h.clock.ticker(0), h.clock.ticker(1)
	h.stop()

	if !frames.stopped || !auto.stopped {
		t.Error("timers left running after Run returned")
	}
	if h.loop.Do(func(*Controller) {}) {
		t.Error("Do ran on a stopped loop")
	}
	h.loop.Rotate(1) // must not block
	if _, ok := h.loop.HitTest(0, 0); ok {
		t.Error("HitTest on stopped loop reported a hit")
	}
}

func TestIndependentLoops(t *testing.T) {
	a := startLoop(t, 3, DefaultConfig(), nil)
	b := startLoop(t, 4, DefaultConfig(), nil)
	a.loop.Rotate(1)
	if front, _, _ := b.state(t); front != 0 {
		t.Errorf("rotating one carousel moved another: front=%d", front)
	}
	if front, _, _ := a.state(t); front != 2 {
		t.Errorf("front = %d, want 2", front)
	}
}
