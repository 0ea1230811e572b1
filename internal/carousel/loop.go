package carousel

import (
	"context"
	"log/slog"
	"time"
)

// Loop is the single goroutine that owns a Controller. Every method other
// than Run posts a command to it, so they are safe to call from input
// goroutines.
type Loop struct {
	ctrl  *Controller
	clock Clock
	log   *slog.Logger

	frames      <-chan struct{} // surface-paced frames, or nil
	frameTicker Ticker          // timer-paced frames, or nil

	auto     Ticker // autorotation, nil when stopped
	textBack Timer  // hover text restore, nil when idle

	cmds chan func()
	done chan struct{}
}

// NewLoop picks the frame source once: the surface's own signal if it is a
// FrameSignaler, a ticker at the configured frame interval otherwise.
func NewLoop(ctrl *Controller, clock Clock, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		ctrl:  ctrl,
		clock: clock,
		log:   logger,
		cmds:  make(chan func()),
		done:  make(chan struct{}),
	}
	if fs, ok := ctrl.surface.(FrameSignaler); ok {
		l.frames = fs.FrameSignal()
		logger.Debug("frame source selected", "source", "surface")
	} else {
		logger.Debug("frame source selected", "source", "ticker", "interval", ctrl.cfg.FrameInterval)
	}
	return l
}

// Run shows the initial layout and text, then ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	if l.frames == nil {
		l.frameTicker = l.clock.NewTicker(l.ctrl.cfg.FrameInterval)
	}
	defer l.stopTimers()

	l.ctrl.ShowFrontText()
	l.ctrl.Refresh()
	l.resetAutoRotate()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.frames:
			l.ctrl.Tick()
		case <-chanOf(l.frameTicker):
			l.ctrl.Tick()
		case <-chanOf(l.auto):
			if l.ctrl.AutoRotate() {
				l.log.Debug("autorotate", "front", l.ctrl.Front())
			}
		case <-timerChan(l.textBack):
			l.textBack = nil
			l.ctrl.ShowFrontText()
		case cmd := <-l.cmds:
			cmd()
		}
	}
}

// post runs fn on the loop goroutine. It is dropped once Run has returned.
func (l *Loop) post(fn func()) {
	select {
	case l.cmds <- fn:
	case <-l.done:
	}
}

// Do runs fn with the controller on the loop goroutine and waits for it.
// It returns false if the loop has stopped.
func (l *Loop) Do(fn func(*Controller)) bool {
	ran := make(chan struct{})
	l.post(func() {
		fn(l.ctrl)
		close(ran)
	})
	select {
	case <-ran:
		return true
	case <-l.done:
		return false
	}
}

// Rotate is a user rotation: it rotates and restarts the autorotate timer.
func (l *Loop) Rotate(direction int) {
	l.post(func() {
		l.ctrl.Rotate(direction)
		l.resetAutoRotate()
	})
}

// Wheel rotates by the wheel delta when the mouse wheel is enabled.
func (l *Loop) Wheel(delta int) {
	l.post(func() {
		if !l.ctrl.cfg.MouseWheel || delta == 0 {
			return
		}
		l.ctrl.Rotate(delta)
		l.resetAutoRotate()
	})
}

// Click handles a click on item i (negative for empty space): it shows the
// item's text and, when enabled, brings it to the front.
func (l *Loop) Click(i int) {
	l.post(func() {
		l.resetAutoRotate()
		if i < 0 {
			return
		}
		l.cancelTextBack()
		l.ctrl.ShowItemText(i)
		if l.ctrl.cfg.BringToFront {
			l.ctrl.BringToFront(i)
		}
	})
}

// PointerOver handles the pointer entering item i (negative for the empty
// container): autorotation restarts and the item's text is shown.
func (l *Loop) PointerOver(i int) {
	l.post(func() {
		l.resetAutoRotate()
		if i < 0 {
			return
		}
		l.cancelTextBack()
		l.ctrl.ShowItemText(i)
	})
}

// PointerOut handles the pointer leaving the items: the front item's text
// comes back after the configured delay.
func (l *Loop) PointerOut() {
	l.post(func() {
		l.cancelTextBack()
		l.textBack = l.clock.NewTimer(l.ctrl.cfg.FrontTextDelay)
		l.resetAutoRotate()
	})
}

// Pause stops animation.
func (l *Loop) Pause() { l.post(l.ctrl.Pause) }

// Resume restarts animation.
func (l *Loop) Resume() { l.post(l.ctrl.Resume) }

// TogglePause flips between paused and running.
func (l *Loop) TogglePause() {
	l.post(func() {
		if l.ctrl.Paused() {
			l.ctrl.Resume()
		} else {
			l.ctrl.Pause()
		}
	})
}

// BringToFront rotates item i to the front.
func (l *Loop) BringToFront(i int) {
	l.post(func() {
		l.ctrl.BringToFront(i)
		l.resetAutoRotate()
	})
}

// HitTest returns the item under (x, y), evaluated on the loop goroutine.
func (l *Loop) HitTest(x, y int) (int, bool) {
	idx, ok := -1, false
	l.Do(func(c *Controller) {
		idx, ok = c.Registry().HitTest(x, y)
	})
	return idx, ok
}

func (l *Loop) resetAutoRotate() {
	if l.auto != nil {
		l.auto.Stop()
		l.auto = nil
	}
	if l.ctrl.cfg.AutoRotate == AutoRotateOff {
		return
	}
	l.auto = l.clock.NewTicker(l.ctrl.cfg.AutoRotateDelay)
}

func (l *Loop) cancelTextBack() {
	if l.textBack != nil {
		l.textBack.Stop()
		l.textBack = nil
	}
}

func (l *Loop) stopTimers() {
	if l.frameTicker != nil {
		l.frameTicker.Stop()
	}
	if l.auto != nil {
		l.auto.Stop()
	}
	l.cancelTextBack()
}

// chanOf returns the ticker's channel, or nil (never ready) without one.
func chanOf(t Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}

func timerChan(t Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}
