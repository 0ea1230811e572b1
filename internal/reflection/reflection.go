package reflection

import (
	"errors"
	"fmt"
	"image"
)

// ErrEmpty is returned when the source or requested height has no pixels.
var ErrEmpty = errors.New("reflection: empty image")

// Generator builds a reflection asset for one source image.
type Generator interface {
	Reflect(src *image.NRGBA, height int, opacity float64) (*image.NRGBA, error)
}

// Drawable is implemented by display surfaces that can paint raster images.
// Surfaces that cannot (or report false) get no reflections.
type Drawable interface {
	CanDraw() bool
}

// Detect picks the generator for a display surface. It is called once per
// carousel; a nil Generator means reflections are skipped.
func Detect(surface any) Generator {
	if d, ok := surface.(Drawable); ok && d.CanDraw() {
		return Gradient{}
	}
	return nil
}

// Gradient mirrors the source vertically and fades it with a linear alpha
// gradient from opacity (top) to fully transparent (bottom).
type Gradient struct{}

// Reflect returns a source-width × height image. Row 0 is the bottom row of
// src; rows past the top of src stay transparent.
func (Gradient) Reflect(src *image.NRGBA, height int, opacity float64) (*image.NRGBA, error) {
	if src == nil || height <= 0 {
		return nil, ErrEmpty
	}
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmpty
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("reflection: opacity %.2f outside [0, 1]", opacity)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, height))
	rows := height
	if h < rows {
		rows = h
	}
	for y := 0; y < rows; y++ {
		// Linear fade sampled at the pixel centre.
		fade := opacity * (1 - (float64(y)+0.5)/float64(height))
		si := src.PixOffset(sb.Min.X, sb.Max.Y-1-y)
		di := dst.PixOffset(0, y)
		copy(dst.Pix[di:di+w*4], src.Pix[si:si+w*4])
		for x := 0; x < w; x++ {
			i := di + x*4 + 3
			dst.Pix[i] = uint8(float64(dst.Pix[i])*fade + 0.5)
		}
	}
	return dst, nil
}
