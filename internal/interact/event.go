package interact

// EventType distinguishes input event categories
type EventType uint8

const (
	EventWheel EventType = iota
	EventClick
	EventMove
	EventLeave // pointer left the display
	EventKey
)

// Key names a keyboard command.
type Key uint8

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyPause
	KeyQuit
)

// Event is a display-independent input event. Coordinates are in surface
// pixels.
type Event struct {
	Type  EventType
	X, Y  int
	Delta int // wheel steps, positive rotates right
	Key   Key
}
