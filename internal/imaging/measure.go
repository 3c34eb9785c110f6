package imaging

import (
	"math"
)

// EdgeMeasure describes one side of a quad.
type EdgeMeasure struct {
	Name         string  `json:"name"`
	LengthPixels float64 `json:"length_pixels"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// QuadMetrics summarizes the shape of a quad for the operator.
type QuadMetrics struct {
	Edges        [4]EdgeMeasure `json:"edges"`
	OutputWidth  int            `json:"output_width"`
	OutputHeight int            `json:"output_height"`
	AreaPixels   float64        `json:"area_pixels"`
	Convex       bool           `json:"convex"`
}

var edgeNames = [4]string{"top", "right", "bottom", "left"}

// MeasureQuad reports edge lengths and angles, the perspective output size,
// the enclosed area and whether the corners form a convex polygon in order.
// A non-convex quad usually means two corners were clicked in the wrong order.
func MeasureQuad(q Quad) QuadMetrics {
	var m QuadMetrics
	m.OutputWidth, m.OutputHeight = q.OutputSize()

	var area float64
	sign := 0
	m.Convex = true
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		dx, dy := b.X-a.X, b.Y-a.Y

		// Angle in degrees, 0 = horizontal right, 90 = down.
		angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
		m.Edges[i] = EdgeMeasure{
			Name:         edgeNames[i],
			LengthPixels: math.Round(math.Hypot(float64(dx), float64(dy))*100) / 100,
			AngleDegrees: math.Round(angle*10) / 10,
		}

		area += float64(a.X*b.Y - b.X*a.Y)

		cross := dx*(c.Y-b.Y) - dy*(c.X-b.X)
		switch {
		case cross == 0:
			m.Convex = false
		case sign == 0:
			sign = cross
		case (cross > 0) != (sign > 0):
			m.Convex = false
		}
	}
	m.AreaPixels = math.Abs(area) / 2
	return m
}
