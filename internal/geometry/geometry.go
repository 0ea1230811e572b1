package geometry

import "math"

// Epsilon is the remaining angle below which an eased rotation snaps to
// its destination.
const Epsilon = 0.001

// Params holds the layout constants shared by every item of one carousel.
type Params struct {
	MinScale float64

	XRadius float64
	YRadius float64
	XCentre float64
	YCentre float64

	ReflectionHeight float64
	ReflectionGap    float64
}

// Placement is the computed on-screen state of one item for one rotation.
type Placement struct {
	Phase float64 // item angle on the ellipse, radians
	Scale float64 // in [MinScale, 1]

	X, Y          float64
	Width, Height float64
	Z             int // stacking order, larger is in front

	ReflectionTop    float64
	ReflectionHeight float64
}

// Spacing returns the angular distance between neighbouring items.
// Zero items have no spacing.
func Spacing(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 2 * math.Pi / float64(n)
}

// Phase returns the angle of item i out of n for the carousel rotation.
func Phase(rotation float64, i, n int) float64 {
	return rotation + float64(i)*Spacing(n)
}

// ScaleFactor maps a phase angle to a scale: 1 at the top of the arc
// (sin = 1), minScale at the bottom (sin = -1).
func ScaleFactor(phase, minScale float64) float64 {
	return minScale + (1-minScale)*0.5*(math.Sin(phase)+1)
}

// Place computes the placement of item i out of n whose natural size is
// w × h.
func Place(rotation float64, i, n int, w, h float64, p Params) Placement {
	phase := Phase(rotation, i, n)
	sin, cos := math.Sincos(phase)
	scale := ScaleFactor(phase, p.MinScale)

	height := h * scale
	y := p.YCentre + sin*p.YRadius*scale

	return Placement{
		Phase:            phase,
		Scale:            scale,
		X:                p.XCentre + (cos*p.XRadius-w/2)*scale,
		Y:                y,
		Width:            w * scale,
		Height:           height,
		Z:                int(math.Floor(scale * 100)),
		ReflectionTop:    y + height + p.ReflectionGap*scale,
		ReflectionHeight: p.ReflectionHeight * scale,
	}
}

// Size is the natural size of one item.
type Size struct {
	W, H float64
}

// Layout places every item for the rotation. It returns nil for no items.
func Layout(rotation float64, sizes []Size, p Params) []Placement {
	if len(sizes) == 0 {
		return nil
	}
	out := make([]Placement, len(sizes))
	for i, s := range sizes {
		out[i] = Place(rotation, i, len(sizes), s.W, s.H, p)
	}
	return out
}

// Mod returns a mod n in [0, n). n must be positive.
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// ShortestDistance returns the signed step count d congruent to to-from
// (mod n) with |d| <= n/2. A tie at exactly n/2 resolves to the positive
// direction.
func ShortestDistance(from, to, n int) int {
	if n <= 0 {
		return 0
	}
	d := Mod(to-from, n)
	if 2*d > n {
		d -= n
	}
	return d
}
