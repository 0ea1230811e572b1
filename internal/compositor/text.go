package compositor

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextLine is a text sink painted onto frames.
type TextLine struct {
	text string
}

// SetText replaces the line's text.
func (l *TextLine) SetText(text string) { l.text = text }

// Text returns the current text.
func (l *TextLine) Text() string { return l.text }

const lineHeight = 16

var textColor = image.NewUniform(color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})

// drawText centres the title above the alt text at the bottom of the frame.
func (s *Surface) drawText() {
	y := s.bounds.Max.Y - 6
	for _, line := range []*TextLine{s.alt, s.title} {
		if line.text == "" {
			continue
		}
		face := basicfont.Face7x13
		w := font.MeasureString(face, line.text).Round()
		x := s.bounds.Min.X + (s.bounds.Dx()-w)/2
		d := &font.Drawer{
			Dst:  s.canvas,
			Src:  textColor,
			Face: face,
			Dot:  fixed.P(x, y),
		}
		d.DrawString(line.text)
		y -= lineHeight
	}
}
