// Package term shows a carousel in a terminal. Every cell holds two
// vertically stacked pixels drawn with an upper half block.
package term

import (
	"image"
	"image/color"

	"cloud-carousel/internal/carousel"
	"cloud-carousel/internal/compositor"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// StatusRows is the number of text lines below the image area.
const StatusRows = 2

const halfBlock = '▀'

// Options configures a terminal Surface.
type Options struct {
	Background color.Color
}

// Surface is a carousel.Surface drawing to a tcell screen. Place, Hide and
// Show must be called from one goroutine; Translate may run on another.
type Surface struct {
	screen tcell.Screen
	comp   *compositor.Surface
	cols   int
	rows   int // image rows in cells

	alt   StatusLine
	title StatusLine
	bg    tcell.Color

	buttons tcell.ButtonMask // touched by Translate only
}

// New sizes a Surface to the current screen.
func New(screen tcell.Screen, opts Options) *Surface {
	if opts.Background == nil {
		opts.Background = color.Black
	}
	cols, h := screen.Size()
	rows := h - StatusRows
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Surface{
		screen: screen,
		comp: compositor.New(cols, rows*2, compositor.Options{
			Background: opts.Background,
			Scaler:     draw.ApproxBiLinear,
		}),
		cols: cols,
		rows: rows,
		bg:   toColor(opts.Background),
	}
}

// Bounds is the pixel area: one pixel per column, two per image row.
func (s *Surface) Bounds() image.Rectangle { return s.comp.Bounds() }

// CanDraw reports that reflections can be shown.
func (s *Surface) CanDraw() bool { return true }

func (s *Surface) Hide() { s.comp.Hide() }

func (s *Surface) Place(it *carousel.Item) { s.comp.Place(it) }

// Show paints the pass into cells and flushes the screen.
func (s *Surface) Show() {
	s.comp.Show()
	frame := s.comp.Frame()
	for cy := 0; cy < s.rows; cy++ {
		for cx := 0; cx < s.cols; cx++ {
			top := frame.RGBAAt(cx, cy*2)
			bottom := frame.RGBAAt(cx, cy*2+1)
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			s.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	s.drawStatus(s.rows, s.alt.text, tcell.ColorWhite)
	s.drawStatus(s.rows+1, s.title.text, tcell.ColorSilver)
	s.screen.Show()
}

// AltSink and TitleSink return the status lines.
func (s *Surface) AltSink() carousel.TextSink   { return &s.alt }
func (s *Surface) TitleSink() carousel.TextSink { return &s.title }

// drawStatus writes text centred on row y and clears the rest of the row.
func (s *Surface) drawStatus(y int, text string, fg tcell.Color) {
	style := tcell.StyleDefault.Foreground(fg).Background(s.bg)
	runes := []rune(text)
	if len(runes) > s.cols {
		runes = runes[:s.cols]
	}
	start := (s.cols - len(runes)) / 2
	for x := 0; x < s.cols; x++ {
		r := ' '
		if i := x - start; i >= 0 && i < len(runes) {
			r = runes[i]
		}
		s.screen.SetContent(x, y, r, nil, style)
	}
}

// StatusLine is a TextSink shown under the images.
type StatusLine struct {
	text string
}

func (l *StatusLine) SetText(text string) { l.text = text }

// Text returns the current line.
func (l *StatusLine) Text() string { return l.text }

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func toColor(c color.Color) tcell.Color {
	return rgb(color.RGBAModel.Convert(c).(color.RGBA))
}
