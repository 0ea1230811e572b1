package imagesrc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned for images that decode to a zero width or height.
var ErrEmpty = errors.New("imagesrc: image has no pixels")

// Load reads an image file in any registered format and returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imagesrc: read %s: %w", path, err)
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("imagesrc: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes raw image bytes (png, jpeg, gif, bmp, webp or tga).
func Decode(raw []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmpty
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA with its origin moved to (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	// draw.Src converts through the NRGBA color model, so opaque formats
	// (YCbCr, Gray) come out with alpha 255.
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
