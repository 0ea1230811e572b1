package term

import (
	"cloud-carousel/internal/interact"

	"github.com/gdamore/tcell/v2"
)

// Translate converts a tcell event to an interact.Event. Mouse cell
// coordinates become surface pixels. The second result is false for events
// the carousel ignores.
func (s *Surface) Translate(ev tcell.Event) (interact.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev)
	case *tcell.EventMouse:
		return s.translateMouse(ev)
	}
	return interact.Event{}, false
}

func translateKey(ev *tcell.EventKey) (interact.Event, bool) {
	key := interact.KeyNone
	switch ev.Key() {
	case tcell.KeyLeft:
		key = interact.KeyLeft
	case tcell.KeyRight:
		key = interact.KeyRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		key = interact.KeyQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'h':
			key = interact.KeyLeft
		case 'l':
			key = interact.KeyRight
		case ' ', 'p':
			key = interact.KeyPause
		case 'q':
			key = interact.KeyQuit
		}
	}
	if key == interact.KeyNone {
		return interact.Event{}, false
	}
	return interact.Event{Type: interact.EventKey, Key: key}, true
}

func (s *Surface) translateMouse(ev *tcell.EventMouse) (interact.Event, bool) {
	cx, cy := ev.Position()
	x, y := cx, cy*2
	btn := ev.Buttons()
	prev := s.buttons
	s.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	switch {
	case btn&tcell.WheelUp != 0:
		return interact.Event{Type: interact.EventWheel, X: x, Y: y, Delta: 1}, true
	case btn&tcell.WheelDown != 0:
		return interact.Event{Type: interact.EventWheel, X: x, Y: y, Delta: -1}, true
	case btn&tcell.Button1 != 0:
		// Held buttons repeat; only the press is a click.
		if prev&tcell.Button1 != 0 {
			return interact.Event{}, false
		}
		return interact.Event{Type: interact.EventClick, X: x, Y: y}, true
	}
	if cy >= s.rows {
		return interact.Event{Type: interact.EventLeave}, true
	}
	return interact.Event{Type: interact.EventMove, X: x, Y: y}, true
}
