package imaging

import (
	"fmt"
	"math"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// Point represents a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Corner indexes into a Quad.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

var cornerNames = [...]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func (c Corner) String() string {
	if c < 0 || int(c) >= len(cornerNames) {
		return fmt.Sprintf("corner(%d)", int(c))
	}
	return cornerNames[c]
}

// Quad is a four-point polygon in the fixed order top-left, top-right,
// bottom-right, bottom-left. The order carries meaning: it decides which
// source corner lands on which output corner.
type Quad [4]Point

// NewQuad validates that exactly four non-negative points were given.
func NewQuad(points []Point) (Quad, error) {
	var q Quad
	if len(points) != 4 {
		return q, apperrors.InvalidArgument("a quad needs exactly 4 points, got %d", len(points))
	}
	copy(q[:], points)
	return q, q.Validate()
}

// Validate checks that every corner has non-negative coordinates.
func (q Quad) Validate() error {
	for i, p := range q {
		if p.X < 0 || p.Y < 0 {
			return apperrors.InvalidArgument("%s corner %s has a negative coordinate", Corner(i), p)
		}
	}
	return nil
}

// Scale multiplies every coordinate by factor and rounds to the nearest pixel.
// Capture uses it with 1/displayFactor to map display clicks back to the source.
func (q Quad) Scale(factor float64) Quad {
	var out Quad
	for i, p := range q {
		out[i] = Point{
			X: int(math.Round(float64(p.X) * factor)),
			Y: int(math.Round(float64(p.Y) * factor)),
		}
	}
	return out
}

// OutputSize returns the width and height a perspective transform of q
// produces: the longer of each pair of opposite edges, measured along its axis.
func (q Quad) OutputSize() (w, h int) {
	tl, tr, br, bl := q[TopLeft], q[TopRight], q[BottomRight], q[BottomLeft]
	w = max(tr.X-tl.X, br.X-bl.X)
	h = max(br.Y-tr.Y, bl.Y-tl.Y)
	return w, h
}

// Points returns the corners as a slice.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}
