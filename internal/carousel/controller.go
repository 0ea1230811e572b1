package carousel

import (
	"image"
	"log/slog"
	"math"

	"cloud-carousel/internal/geometry"
)

// Surface is the display the controller writes item state to.
type Surface interface {
	Bounds() image.Rectangle
	// Hide and Show bracket a placement pass; nothing placed in between
	// may be observed until Show.
	Hide()
	Show()
	Place(it *Item)
}

// Controller owns the rotation state of one carousel. It is not safe for
// concurrent use; a Loop (or one goroutine) drives it.
type Controller struct {
	cfg     Config
	items   *Registry
	surface Surface
	log     *slog.Logger
	params  geometry.Params

	start       float64
	rotation    float64
	steps       int // destination = start + steps*spacing
	front       int
	paused      bool
	autoRotated bool // an autorotation is still easing in

	onRotate func(direction int)
}

// NewController validates cfg and binds the registry to the surface.
// Nothing is written to the surface until the first Refresh or Tick.
func NewController(items *Registry, surface Surface, cfg Config, logger *slog.Logger) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := surface.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	p := geometry.Params{
		MinScale:         cfg.MinScale,
		XRadius:          cfg.XRadius,
		YRadius:          cfg.YRadius,
		XCentre:          float64(b.Min.X) + w/2 + cfg.XPos,
		YCentre:          float64(b.Min.Y) + h/6 + cfg.YPos,
		ReflectionHeight: cfg.ReflectionHeight,
		ReflectionGap:    cfg.ReflectionGap,
	}
	if p.XRadius == 0 {
		p.XRadius = w / 2.3
	}
	if p.YRadius == 0 {
		p.YRadius = h / 6
	}

	// Item 0 starts at the top of the arc, facing the viewer.
	start := math.Pi / 2
	return &Controller{
		cfg:         cfg,
		items:       items,
		surface:     surface,
		log:         logger,
		params:      p,
		start:       start,
		rotation:    start,
	}, nil
}

// OnRotate registers fn to be called after every rotate command.
func (c *Controller) OnRotate(fn func(direction int)) {
	c.onRotate = fn
}

// Rotate moves the carousel by direction items. The front item and its
// text change now; the movement happens over the following ticks.
func (c *Controller) Rotate(direction int) {
	n := c.items.Len()
	if n == 0 {
		return
	}
	c.front = geometry.Mod(c.front-direction, n)
	c.steps += direction
	c.ShowFrontText()
	c.Resume()
	if c.onRotate != nil {
		c.onRotate(direction)
	}
}

// BringToFront rotates item i to the front along the shorter arc.
func (c *Controller) BringToFront(i int) {
	n := c.items.Len()
	if i < 0 || i >= n {
		return
	}
	c.Rotate(-geometry.ShortestDistance(c.front, i, n))
}

// AutoRotate is the autorotation timer callback. It rotates one step in
// the configured direction unless the previous autorotation has not yet
// reached its destination. It reports whether a rotation was issued.
func (c *Controller) AutoRotate() bool {
	dir := c.cfg.AutoRotate.Direction()
	if dir == 0 || c.autoRotated {
		return false
	}
	c.autoRotated = true
	c.Rotate(dir)
	return true
}

// Pause stops animation without touching the angles.
func (c *Controller) Pause() { c.paused = true }

// Resume restarts animation.
func (c *Controller) Resume() { c.paused = false }

// Paused reports whether animation is paused.
func (c *Controller) Paused() bool { return c.paused }

// Front returns the index of the front item.
func (c *Controller) Front() int { return c.front }

// Rotation returns the current rotation angle.
func (c *Controller) Rotation() float64 { return c.rotation }

// Destination returns the angle the rotation is easing toward. It is kept
// as a whole number of item steps so opposite rotations cancel exactly.
func (c *Controller) Destination() float64 {
	return c.start + float64(c.steps)*geometry.Spacing(c.items.Len())
}

// Idle reports whether the rotation has reached its destination.
func (c *Controller) Idle() bool { return c.rotation == c.Destination() }

// Registry returns the items driven by the controller.
func (c *Controller) Registry() *Registry { return c.items }

// Params returns the resolved layout constants.
func (c *Controller) Params() geometry.Params { return c.params }

// Tick advances one frame. It eases the rotation toward the destination,
// snapping once the remaining angle is below geometry.Epsilon, and
// places every item. It reports whether anything was placed.
func (c *Controller) Tick() bool {
	if c.paused || c.items.Len() == 0 {
		return false
	}
	dest := c.Destination()
	if c.rotation == dest {
		// Opposite rotations can cancel before any tick.
		c.autoRotated = false
		return false
	}

	change := dest - c.rotation
	c.rotation += change * c.cfg.Speed
	// Full speed lands in one step.
	if math.Abs(change) < geometry.Epsilon || c.cfg.Speed == 1 || c.rotation == dest {
		c.rotation = dest
		c.autoRotated = false
	}

	c.place()
	return true
}

// Refresh places every item at the current rotation without advancing it.
func (c *Controller) Refresh() {
	if c.items.Len() == 0 {
		return
	}
	c.place()
}

func (c *Controller) place() {
	n := c.items.Len()
	k := c.cfg.itemScale()

	c.surface.Hide()
	defer c.surface.Show()

	for i, it := range c.items.Items() {
		p := geometry.Place(c.rotation, i, n, float64(it.Width)*k, float64(it.Height)*k, c.params)
		it.Box = Box{
			X: round(p.X),
			Y: round(p.Y),
			W: round(p.Width),
			H: round(p.Height),
			Z: p.Z,
		}
		if it.Reflection != nil {
			it.Reflection.Box = Box{
				X: it.Box.X,
				Y: it.Box.Y + it.Box.H + round(c.params.ReflectionGap*p.Scale),
				W: it.Box.W,
				H: round(p.ReflectionHeight),
				Z: p.Z,
			}
		}
		c.surface.Place(it)
	}
}

// ShowFrontText sends the front item's text to the text sinks.
func (c *Controller) ShowFrontText() {
	n := c.items.Len()
	if n == 0 {
		return
	}
	c.ShowItemText(geometry.Mod(c.front, n))
}

// ShowItemText sends item i's text to the text sinks.
func (c *Controller) ShowItemText(i int) {
	if i < 0 || i >= c.items.Len() {
		return
	}
	it := c.items.At(i)
	if c.cfg.AltText != nil {
		c.cfg.AltText.SetText(it.Alt)
	}
	if c.cfg.TitleText != nil {
		c.cfg.TitleText.SetText(it.Title)
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
