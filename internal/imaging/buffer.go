package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// Mode is the colorspace of a Buffer.
type Mode int

const (
	// Gray buffers hold one 8-bit luma channel.
	Gray Mode = iota
	// Color buffers hold non-premultiplied RGBA.
	Color
)

func (m Mode) String() string {
	if m == Gray {
		return "gray"
	}
	return "color"
}

// Buffer owns a rectangular pixel buffer in either Gray or Color mode.
//
// Exactly one of gray or nrgba is non-nil, and its bounds always start at the
// origin. Processing methods replace the held image in place; use Clone to
// keep an untouched copy.
type Buffer struct {
	gray  *image.Gray
	nrgba *image.NRGBA
}

// FromFile decodes the image at path, applying EXIF orientation.
//
// Images that decode as 8-bit grayscale stay Gray; everything else becomes
// Color. Unreadable or corrupt files fail with an IOFailure.
func FromFile(path string) (*Buffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.IOFailure("failed to open image "+path, err)
	}
	return FromImage(img)
}

// FromImage copies img into a new Buffer.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, apperrors.InvalidArgument("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, apperrors.InvalidArgument("empty image %dx%d", b.Dx(), b.Dy())
	}

	if g, ok := img.(*image.Gray); ok {
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), g, b.Min, draw.Src)
		return &Buffer{gray: dst}, nil
	}
	return &Buffer{nrgba: imaging.Clone(img)}, nil
}

// FromPixels builds a buffer from raw pixel bytes. Gray expects w*h bytes,
// Color expects w*h*4 bytes of RGBA. The slice is copied.
func FromPixels(w, h int, mode Mode, pix []uint8) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, apperrors.InvalidArgument("invalid dimensions %dx%d", w, h)
	}
	channels := 1
	if mode == Color {
		channels = 4
	}
	if len(pix) != w*h*channels {
		return nil, apperrors.InvalidArgument("expected %d bytes for %dx%d %s, got %d",
			w*h*channels, w, h, mode, len(pix))
	}

	if mode == Gray {
		g := image.NewGray(image.Rect(0, 0, w, h))
		copy(g.Pix, pix)
		return &Buffer{gray: g}, nil
	}
	c := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(c.Pix, pix)
	return &Buffer{nrgba: c}, nil
}

// Clone returns an independent deep copy.
func (b *Buffer) Clone() *Buffer {
	if b.gray != nil {
		g := image.NewGray(b.gray.Rect)
		copy(g.Pix, b.gray.Pix)
		return &Buffer{gray: g}
	}
	return &Buffer{nrgba: imaging.Clone(b.nrgba)}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.Image().Bounds().Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.Image().Bounds().Dy() }

// Mode reports the current colorspace.
func (b *Buffer) Mode() Mode {
	if b.gray != nil {
		return Gray
	}
	return Color
}

// IsGray reports whether the buffer holds a single luma channel.
func (b *Buffer) IsGray() bool { return b.gray != nil }

// Image exposes the held image. Callers must not modify it.
func (b *Buffer) Image() image.Image {
	if b.gray != nil {
		return b.gray
	}
	return b.nrgba
}

// GrayAt returns the luma value at (x, y). Color buffers report the BT.601
// luma of the pixel.
func (b *Buffer) GrayAt(x, y int) uint8 {
	if b.gray != nil {
		return b.gray.GrayAt(x, y).Y
	}
	return color.GrayModel.Convert(b.nrgba.At(x, y)).(color.Gray).Y
}

// Grayscale converts a Color buffer to Gray. Gray buffers are left as is.
func (b *Buffer) Grayscale() {
	if b.gray != nil {
		return
	}
	b.gray = grayFromNRGBA(imaging.Grayscale(b.nrgba))
	b.nrgba = nil
}

// ToColor converts a Gray buffer to Color. Color buffers are left as is.
func (b *Buffer) ToColor() {
	if b.nrgba != nil {
		return
	}
	b.nrgba = imaging.Clone(b.gray)
	b.gray = nil
}

// Save encodes the buffer to path. The format follows the file extension.
func (b *Buffer) Save(path string) error {
	if err := imaging.Save(b.Image(), path); err != nil {
		return apperrors.IOFailure("failed to save image "+path, err)
	}
	return nil
}

// replace swaps in the result of an imaging call, keeping the current mode.
func (b *Buffer) replace(img *image.NRGBA) {
	if b.gray != nil {
		b.gray = grayFromNRGBA(img)
		return
	}
	b.nrgba = img
}

func (b *Buffer) requireGray(op string) error {
	if b.gray == nil {
		return apperrors.InvalidArgument("%s requires a grayscale buffer", op)
	}
	return nil
}

// planes returns the raw pixel slice, its stride and channel count.
func (b *Buffer) planes() (pix []uint8, stride, channels int) {
	if b.gray != nil {
		return b.gray.Pix, b.gray.Stride, 1
	}
	return b.nrgba.Pix, b.nrgba.Stride, 4
}

// grayFromNRGBA keeps the red channel of an image whose channels are equal.
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	r := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < r.Dx(); x++ {
			dst.Pix[di+x] = src.Pix[si+x*4]
		}
	}
	return dst
}
