package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// EncodedImage contains a buffer rendered as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropBorder trims round(dim*percent) pixels from every side.
// percent must lie in [0, 0.5] and the result must not be empty.
func (b *Buffer) CropBorder(percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > 0.5 {
		return apperrors.InvalidArgument("crop percent %v outside [0, 0.5]", percent)
	}
	w, h := b.Width(), b.Height()
	dx := int(math.Round(float64(w) * percent))
	dy := int(math.Round(float64(h) * percent))
	if w-2*dx <= 0 || h-2*dy <= 0 {
		return apperrors.InvalidArgument("crop of %v leaves nothing of a %dx%d image", percent, w, h)
	}
	if dx == 0 && dy == 0 {
		return nil
	}

	b.replace(imaging.Crop(b.Image(), image.Rect(dx, dy, w-dx, h-dy)))
	return nil
}

// Scale resizes by factor using linear interpolation. Each new dimension is
// round(dim*factor), never less than one pixel.
func (b *Buffer) Scale(factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return apperrors.InvalidArgument("scale factor %v must be positive", factor)
	}
	nw := max(1, int(math.Round(float64(b.Width())*factor)))
	nh := max(1, int(math.Round(float64(b.Height())*factor)))
	if nw == b.Width() && nh == b.Height() {
		return nil
	}

	b.replace(imaging.Resize(b.Image(), nw, nh, imaging.Linear))
	return nil
}

// ScaleBounded scales the buffer to fit inside xMax by yMax, preserving the
// aspect ratio, and returns the factor it applied. Scaling the result by
// 1/factor restores the original size to within a pixel.
func (b *Buffer) ScaleBounded(xMax, yMax int) (float64, error) {
	if xMax <= 0 || yMax <= 0 {
		return 0, apperrors.InvalidArgument("scale bounds %dx%d must be positive", xMax, yMax)
	}
	factor := math.Min(float64(xMax)/float64(b.Width()), float64(yMax)/float64(b.Height()))
	if err := b.Scale(factor); err != nil {
		return 0, err
	}
	return factor, nil
}

// EncodePNG renders the buffer as a base64 PNG, for transports that cannot
// carry a file path.
func (b *Buffer) EncodePNG() (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image()); err != nil {
		return nil, apperrors.IOFailure("failed to encode image", err)
	}

	return &EncodedImage{
		Width:       b.Width(),
		Height:      b.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Dimensions is the size of a buffer.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   string `json:"mode"`
}

// Dimensions reports the buffer size and colorspace.
func (b *Buffer) Dimensions() Dimensions {
	return Dimensions{Width: b.Width(), Height: b.Height(), Mode: b.Mode().String()}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d %s", d.Width, d.Height, d.Mode)
}
