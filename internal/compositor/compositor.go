package compositor

import (
	"image"
	"image/color"
	"sort"

	"cloud-carousel/internal/carousel"

	"golang.org/x/image/draw"
)

// Options tune a Surface.
type Options struct {
	Background color.Color
	// Scaler resizes item images into their boxes. CatmullRom gives the
	// best output; ApproxBiLinear is cheaper for live display.
	Scaler draw.Scaler
}

// Surface is an offscreen carousel display. Each Hide/Show pass repaints
// the whole frame from the items placed in between.
type Surface struct {
	bounds image.Rectangle
	bg     *image.Uniform
	scaler draw.Scaler

	canvas  *image.RGBA
	pending []*carousel.Item
	hidden  bool
	frames  int

	alt   *TextLine
	title *TextLine
}

// New creates a w × h surface.
func New(w, h int, opts Options) *Surface {
	if opts.Background == nil {
		opts.Background = color.Black
	}
	if opts.Scaler == nil {
		opts.Scaler = draw.CatmullRom
	}
	s := &Surface{
		bounds: image.Rect(0, 0, w, h),
		bg:     image.NewUniform(opts.Background),
		scaler: opts.Scaler,
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
		alt:    &TextLine{},
		title:  &TextLine{},
	}
	draw.Draw(s.canvas, s.bounds, s.bg, image.Point{}, draw.Src)
	return s
}

// Bounds returns the frame rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.bounds }

// CanDraw reports raster support, so reflections are generated.
func (s *Surface) CanDraw() bool { return true }

// Hide starts a placement pass.
func (s *Surface) Hide() {
	s.hidden = true
	s.pending = s.pending[:0]
}

// Place queues an item for the current pass.
func (s *Surface) Place(it *carousel.Item) {
	s.pending = append(s.pending, it)
}

// Show paints the queued items back to front and ends the pass.
func (s *Surface) Show() {
	s.paint()
	s.hidden = false
	s.frames++
}

// Hidden reports whether a placement pass is in progress.
func (s *Surface) Hidden() bool { return s.hidden }

// Frames returns the number of completed passes.
func (s *Surface) Frames() int { return s.frames }

// Frame returns the last painted frame. It is reused by the next pass.
func (s *Surface) Frame() *image.RGBA { return s.canvas }

// Snapshot returns a copy of the last painted frame.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.canvas.Rect)
	copy(out.Pix, s.canvas.Pix)
	return out
}

// AltSink and TitleSink are text sinks drawn at the bottom of each frame.
func (s *Surface) AltSink() carousel.TextSink   { return s.alt }
func (s *Surface) TitleSink() carousel.TextSink { return s.title }

func (s *Surface) paint() {
	draw.Draw(s.canvas, s.bounds, s.bg, image.Point{}, draw.Src)

	// Stable so equal stacking orders keep ring order.
	items := append([]*carousel.Item(nil), s.pending...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Box.Z < items[j].Box.Z })

	for _, it := range items {
		if r := it.Reflection; r != nil {
			s.blit(r.Image, r.Box)
		}
		s.blit(it.Image, it.Box)
	}

	s.drawText()
}

func (s *Surface) blit(img *image.NRGBA, box carousel.Box) {
	if img == nil || box.W <= 0 || box.H <= 0 {
		return
	}
	dst := box.Rect()
	if !dst.Overlaps(s.bounds) {
		return
	}
	s.scaler.Scale(s.canvas, dst, img, img.Bounds(), draw.Over, nil)
}
