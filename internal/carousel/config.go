package carousel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadAutoRotate is returned for an unknown autorotate mode name.
var ErrBadAutoRotate = errors.New("carousel: unknown autorotate mode")

// AutoRotate selects the autorotation direction.
type AutoRotate int

const (
	AutoRotateOff AutoRotate = iota
	AutoRotateLeft
	AutoRotateRight
)

// ParseAutoRotate accepts "off" (or "no", ""), "left" and "right".
func ParseAutoRotate(s string) (AutoRotate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "no":
		return AutoRotateOff, nil
	case "left":
		return AutoRotateLeft, nil
	case "right":
		return AutoRotateRight, nil
	}
	return AutoRotateOff, fmt.Errorf("%w: %q", ErrBadAutoRotate, s)
}

// Direction is the rotate step issued by each autorotation.
func (a AutoRotate) Direction() int {
	switch a {
	case AutoRotateLeft:
		return -1
	case AutoRotateRight:
		return 1
	}
	return 0
}

func (a AutoRotate) String() string {
	switch a {
	case AutoRotateLeft:
		return "left"
	case AutoRotateRight:
		return "right"
	}
	return "off"
}

// TextSink receives the alt or title text of the item being shown.
type TextSink interface {
	SetText(text string)
}

// Config is resolved once when a Controller is created.
type Config struct {
	ReflectionHeight  float64 // 0 disables reflections
	ReflectionOpacity float64
	ReflectionGap     float64

	MinScale float64 // scale of the rearmost item
	// ItemScale multiplies every image's natural size. Zero means 1.
	ItemScale float64

	// Radii of the ellipse. Zero derives them from the surface size.
	XRadius float64
	YRadius float64
	// Offsets added to the derived centre.
	XPos float64
	YPos float64

	AltText   TextSink
	TitleText TextSink

	AutoRotate      AutoRotate
	AutoRotateDelay time.Duration
	// FrontTextDelay is how long hover text stays after the pointer leaves.
	FrontTextDelay time.Duration

	Speed         float64 // fraction of the remaining angle covered per tick
	FrameInterval time.Duration

	MouseWheel   bool
	BringToFront bool
}

// DefaultConfig returns the stock carousel settings.
func DefaultConfig() Config {
	return Config{
		ReflectionOpacity: 0.5,
		MinScale:          0.5,
		AutoRotateDelay:   1500 * time.Millisecond,
		FrontTextDelay:    time.Second,
		Speed:             0.2,
		FrameInterval:     16 * time.Millisecond,
	}
}

// Scaled returns a copy with every pixel length multiplied by k, for a
// surface k times the size of the intended output.
func (c Config) Scaled(k float64) Config {
	c.ItemScale = c.itemScale() * k
	c.ReflectionHeight *= k
	c.ReflectionGap *= k
	c.XRadius *= k
	c.YRadius *= k
	c.XPos *= k
	c.YPos *= k
	return c
}

func (c Config) itemScale() float64 {
	if c.ItemScale == 0 {
		return 1
	}
	return c.ItemScale
}

func (c Config) validate() error {
	switch {
	case c.Speed <= 0 || c.Speed > 1:
		return fmt.Errorf("carousel: speed %.3f outside (0, 1]", c.Speed)
	case c.MinScale < 0 || c.MinScale > 1:
		return fmt.Errorf("carousel: min scale %.3f outside [0, 1]", c.MinScale)
	case c.ItemScale < 0:
		return fmt.Errorf("carousel: negative item scale %.3f", c.ItemScale)
	case c.ReflectionHeight < 0:
		return fmt.Errorf("carousel: negative reflection height %.1f", c.ReflectionHeight)
	case c.ReflectionOpacity < 0 || c.ReflectionOpacity > 1:
		return fmt.Errorf("carousel: reflection opacity %.3f outside [0, 1]", c.ReflectionOpacity)
	case c.AutoRotate != AutoRotateOff && c.AutoRotateDelay <= 0:
		return fmt.Errorf("carousel: autorotate %s needs a positive delay", c.AutoRotate)
	case c.FrameInterval <= 0:
		return fmt.Errorf("carousel: frame interval must be positive")
	}
	return nil
}
