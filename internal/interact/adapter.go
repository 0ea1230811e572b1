package interact

import "log/slog"

// Target receives the commands an Adapter derives from input.
// *carousel.Loop implements it.
type Target interface {
	Rotate(direction int)
	Wheel(delta int)
	TogglePause()
	Click(i int)
	PointerOver(i int)
	PointerOut()
	HitTest(x, y int) (int, bool)
}

// Adapter turns raw pointer, wheel and key events into carousel commands.
// It tracks which item the pointer is over so enter and leave are reported
// once. An Adapter is used from a single goroutine.
type Adapter struct {
	target Target
	log    *slog.Logger
	hover  int // -1 when not over an item
}

// NewAdapter returns an Adapter driving target.
func NewAdapter(target Target, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{target: target, log: logger, hover: -1}
}

// Hovered returns the item under the pointer, or -1.
func (a *Adapter) Hovered() int { return a.hover }

// Handle dispatches one event. It returns false when the event asks to quit.
func (a *Adapter) Handle(ev Event) bool {
	switch ev.Type {
	case EventWheel:
		if ev.Delta != 0 {
			a.target.Wheel(ev.Delta)
		}
	case EventClick:
		i, ok := a.target.HitTest(ev.X, ev.Y)
		if !ok {
			i = -1
		}
		a.log.Debug("click", "x", ev.X, "y", ev.Y, "item", i)
		a.target.Click(i)
	case EventMove:
		i, ok := a.target.HitTest(ev.X, ev.Y)
		if !ok {
			i = -1
		}
		a.moveTo(i)
	case EventLeave:
		a.moveTo(-1)
	case EventKey:
		switch ev.Key {
		case KeyLeft:
			a.target.Rotate(-1)
		case KeyRight:
			a.target.Rotate(1)
		case KeyPause:
			a.target.TogglePause()
		case KeyQuit:
			return false
		}
	}
	return true
}

func (a *Adapter) moveTo(i int) {
	if i == a.hover {
		return
	}
	prev := a.hover
	a.hover = i
	switch {
	case i >= 0:
		a.target.PointerOver(i)
	case prev >= 0:
		a.target.PointerOut()
	}
}
