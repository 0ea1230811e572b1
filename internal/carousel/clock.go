package carousel

import "time"

// Ticker is a restartable periodic signal.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer fires once.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Clock creates the timers a Loop runs on. Tests swap in a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
	NewTimer(d time.Duration) Timer
}

// FrameSignaler is implemented by surfaces that pace their own refresh.
// A Loop on such a surface ticks once per signal instead of on a timer.
type FrameSignaler interface {
	FrameSignal() <-chan struct{}
}

// SystemClock is the wall-clock Clock.
type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

func (SystemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

type systemTimer struct{ t *time.Timer }

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }
