package imaging

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// homography maps output coordinates back into the source image:
//
//	sx = (h[0]*x + h[1]*y + h[2]) / (h[6]*x + h[7]*y + 1)
//	sy = (h[3]*x + h[4]*y + h[5]) / (h[6]*x + h[7]*y + 1)
type homography [8]float64

func (h homography) apply(x, y float64) (float64, float64, bool) {
	d := h[6]*x + h[7]*y + 1
	if d == 0 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / d, (h[3]*x + h[4]*y + h[5]) / d, true
}

// solveHomography finds the projective map taking each dst corner to the
// matching src corner.
func solveHomography(dst, src [4][2]float64) (homography, error) {
	var h homography

	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := dst[i][0], dst[i][1]
		u, v := src[i][0], src[i][1]

		// u = h0*x + h1*y + h2 - h6*x*u - h7*y*u
		A.SetRow(i*2, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		B.SetVec(i*2, u)

		// v = h3*x + h4*y + h5 - h6*x*v - h7*y*v
		A.SetRow(i*2+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		B.SetVec(i*2+1, v)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return h, err
	}
	for i := range h {
		h[i] = params.AtVec(i)
		if math.IsNaN(h[i]) || math.IsInf(h[i], 0) {
			return h, apperrors.InvalidArgument("perspective transform is not finite")
		}
	}

	// A rank-deficient map squashes the output onto a line.
	m := mat.NewDense(3, 3, []float64{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1})
	if math.Abs(mat.Det(m)) < 1e-12 {
		return h, apperrors.InvalidArgument("perspective transform is singular")
	}
	return h, nil
}

// PerspectiveTransform warps the region bounded by q onto an axis-aligned
// rectangle. The output size comes from Quad.OutputSize; a quad whose width or
// height is not positive, or whose corners admit no projective map, fails with
// InvalidArgument. A one pixel wide or high output follows the quad's left or
// top edge. Output pixels are sampled bilinearly from the source, with
// coordinates clamped to the source border.
func (b *Buffer) PerspectiveTransform(q Quad) error {
	if err := q.Validate(); err != nil {
		return err
	}
	w, h := q.OutputSize()
	if w <= 0 || h <= 0 {
		return apperrors.InvalidArgument("degenerate quad %v produces a %dx%d output", q, w, h)
	}

	mapPoint, err := quadMapping(q, w, h)
	if err != nil {
		return err
	}

	srcPix, srcStride, ch := b.planes()
	sw, sh := b.Width(), b.Height()

	var out []uint8
	var outStride int
	var result image.Image
	if ch == 1 {
		g := image.NewGray(image.Rect(0, 0, w, h))
		out, outStride, result = g.Pix, g.Stride, g
	} else {
		c := image.NewNRGBA(image.Rect(0, 0, w, h))
		out, outStride, result = c.Pix, c.Stride, c
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy, ok := mapPoint(float64(x), float64(y))
			if !ok {
				continue
			}
			sampleBilinear(srcPix, srcStride, ch, sw, sh, sx, sy, out[y*outStride+x*ch:y*outStride+x*ch+ch])
		}
	}

	if g, ok := result.(*image.Gray); ok {
		b.gray = g
	} else {
		b.nrgba = result.(*image.NRGBA)
	}
	return nil
}

// sampleBilinear writes the interpolated pixel at (sx, sy) into dst.
func sampleBilinear(pix []uint8, stride, ch, w, h int, sx, sy float64, dst []uint8) {
	sx = math.Max(0, math.Min(sx, float64(w-1)))
	sy = math.Max(0, math.Min(sy, float64(h-1)))

	x0, y0 := int(sx), int(sy)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := sx-float64(x0), sy-float64(y0)

	i00 := y0*stride + x0*ch
	i10 := y0*stride + x1*ch
	i01 := y1*stride + x0*ch
	i11 := y1*stride + x1*ch
	for c := 0; c < ch; c++ {
		top := float64(pix[i00+c])*(1-fx) + float64(pix[i10+c])*fx
		bottom := float64(pix[i01+c])*(1-fx) + float64(pix[i11+c])*fx
		dst[c] = uint8(math.Round(top*(1-fy) + bottom*fy))
	}
}

// String formats the quad as its four corners.
func (q Quad) String() string {
	return q[0].String() + " " + q[1].String() + " " + q[2].String() + " " + q[3].String()
}

// quadMapping returns the map from output pixels to source coordinates. An
// output one pixel wide or high has no invertible homography, so it is
// interpolated along the quad instead.
func quadMapping(q Quad, w, h int) (func(x, y float64) (float64, float64, bool), error) {
	if w == 1 || h == 1 {
		return edgeMapping(q, w, h), nil
	}

	src := [4][2]float64{}
	for i, p := range q {
		src[i] = [2]float64{float64(p.X), float64(p.Y)}
	}
	fw, fh := float64(w-1), float64(h-1)
	dst := [4][2]float64{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}

	hm, err := solveHomography(dst, src)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
			return nil, err
		}
		return nil, &apperrors.AppError{
			Type:    apperrors.ErrorTypeInvalidArgument,
			Message: "degenerate quad " + q.String(),
			Cause:   err,
		}
	}
	return hm.apply, nil
}

// edgeMapping interpolates bilinearly between the quad's corners.
func edgeMapping(q Quad, w, h int) func(x, y float64) (float64, float64, bool) {
	span := func(n int) float64 {
		if n <= 1 {
			return 1
		}
		return float64(n - 1)
	}
	fw, fh := span(w), span(h)
	lerp := func(a, b Point, t float64) (float64, float64) {
		return float64(a.X) + (float64(b.X)-float64(a.X))*t, float64(a.Y) + (float64(b.Y)-float64(a.Y))*t
	}
	return func(x, y float64) (float64, float64, bool) {
		u, v := x/fw, y/fh
		tx, ty := lerp(q[TopLeft], q[TopRight], u)
		bx, by := lerp(q[BottomLeft], q[BottomRight], u)
		return tx + (bx-tx)*v, ty + (by-ty)*v, true
	}
}
