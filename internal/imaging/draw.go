package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// WatermarkColor is the default text color for Watermark.
var WatermarkColor = color.NRGBA{R: 27, G: 36, B: 192, A: 255}

// Annotation is one "key: value" watermark line.
type Annotation struct {
	Key   string
	Value string
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, apperrors.InvalidArgument("invalid color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// CornerColor returns a distinct, saturated hue for each corner index so the
// operator can tell the clicked corners apart.
func CornerColor(i int) color.Color {
	hue := float64(((i%4)+4)%4) * 90
	r, g, b := colorful.Hsv(hue, 0.9, 0.95).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func (b *Buffer) contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width() && p.Y < b.Height()
}

func (b *Buffer) drawable() drawTarget {
	if b.gray != nil {
		return b.gray
	}
	return b.nrgba
}

type drawTarget interface {
	image.Image
	Set(x, y int, c color.Color)
}

// DrawLine draws a one-pixel Bresenham line between two in-bounds points.
func (b *Buffer) DrawLine(p0, p1 Point, c color.Color) error {
	if !b.contains(p0) || !b.contains(p1) {
		return apperrors.InvalidArgument("line %s-%s outside %dx%d buffer", p0, p1, b.Width(), b.Height())
	}
	dst := b.drawable()

	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return nil
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawPoint draws a filled disc of the given radius centred on p. The centre
// must be inside the buffer; the disc is clipped at the border.
func (b *Buffer) DrawPoint(p Point, radius int, c color.Color) error {
	if !b.contains(p) {
		return apperrors.InvalidArgument("point %s outside %dx%d buffer", p, b.Width(), b.Height())
	}
	if radius < 0 {
		return apperrors.InvalidArgument("radius %d must not be negative", radius)
	}
	dst := b.drawable()
	r2 := radius * radius
	for y := p.Y - radius; y <= p.Y+radius; y++ {
		for x := p.X - radius; x <= p.X+radius; x++ {
			ddx, ddy := x-p.X, y-p.Y
			if ddx*ddx+ddy*ddy > r2 || !b.contains(Point{x, y}) {
				continue
			}
			dst.Set(x, y, c)
		}
	}
	return nil
}

// Watermark writes one "key: value" line per annotation into the bottom-left
// corner, stacking upwards. Gray buffers are converted to Color first.
func (b *Buffer) Watermark(lines []Annotation) {
	b.ToColor()

	face := basicfont.Face7x13
	lineHeight := int(math.Round(float64(face.Metrics().Height.Ceil()) * 1.1))
	x := int(math.Round(float64(b.Width()) * 0.05))
	y := b.Height() - int(math.Round(float64(b.Height())*0.05))

	d := &font.Drawer{
		Dst:  b.nrgba,
		Src:  image.NewUniform(WatermarkColor),
		Face: face,
	}
	for _, l := range lines {
		d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
		d.DrawString(l.Key + ": " + l.Value)
		y -= lineHeight
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
