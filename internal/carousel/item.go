package carousel

import (
	"image"
	"log/slog"
	"math"

	"cloud-carousel/internal/reflection"
)

// Box is the on-screen rectangle and stacking order of a visual.
type Box struct {
	X, Y int
	W, H int
	Z    int
}

// Contains reports whether (x, y) falls inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Rect returns the box as an image rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Reflection is the mirrored copy drawn under its parent item. Its box is
// updated together with the parent's on every placement pass.
type Reflection struct {
	Image *image.NRGBA
	Box   Box
}

// Item is one carousel image and its current visual state.
type Item struct {
	Index  int
	Src    string
	Alt    string
	Title  string
	Image  *image.NRGBA
	Width  int // natural size
	Height int

	Box        Box
	Reflection *Reflection
}

// Source is a ready image handed to NewRegistry.
type Source struct {
	Src   string
	Alt   string
	Title string
	Image *image.NRGBA
}

// Registry owns the items of one carousel.
type Registry struct {
	items []*Item
}

// NewRegistry builds one item per source with a decoded, non-empty image.
// Other sources are left out. When cfg asks for reflections and gen is not
// nil, each item gets a reflection; a failed reflection leaves the item
// without one.
func NewRegistry(sources []Source, cfg Config, gen reflection.Generator, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{}
	// Reflections are built at source resolution and scaled with the item.
	reflHeight := int(math.Round(cfg.ReflectionHeight / cfg.itemScale()))
	for _, s := range sources {
		if s.Image == nil || s.Image.Bounds().Empty() {
			logger.Warn("image not ready, leaving it out", "src", s.Src)
			continue
		}
		b := s.Image.Bounds()
		it := &Item{
			Index:  len(r.items),
			Src:    s.Src,
			Alt:    s.Alt,
			Title:  s.Title,
			Image:  s.Image,
			Width:  b.Dx(),
			Height: b.Dy(),
		}
		if reflHeight > 0 && gen != nil {
			img, err := gen.Reflect(s.Image, reflHeight, cfg.ReflectionOpacity)
			if err != nil {
				logger.Debug("reflection skipped", "src", s.Src, "err", err)
			} else {
				it.Reflection = &Reflection{Image: img}
			}
		}
		r.items = append(r.items, it)
	}
	return r
}

// Len returns the item count.
func (r *Registry) Len() int {
	return len(r.items)
}

// At returns item i.
func (r *Registry) At(i int) *Item {
	return r.items[i]
}

// Items returns all items in ring order.
func (r *Registry) Items() []*Item {
	return r.items
}

// HitTest returns the index of the frontmost item whose box or reflection
// box contains (x, y).
func (r *Registry) HitTest(x, y int) (int, bool) {
	best, bestZ := -1, math.MinInt
	for i, it := range r.items {
		hit := it.Box.Contains(x, y)
		if !hit && it.Reflection != nil {
			hit = it.Reflection.Box.Contains(x, y)
		}
		if hit && it.Box.Z > bestZ {
			best, bestZ = i, it.Box.Z
		}
	}
	return best, best >= 0
}
