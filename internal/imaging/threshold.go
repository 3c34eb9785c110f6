package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/blur"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

const (
	black uint8 = 0
	white uint8 = 255
)

// validateKernel rejects window sizes that are even or not larger than one.
func validateKernel(op string, k int) error {
	if k <= 1 || k%2 != 1 {
		return apperrors.InvalidArgument("%s size %d must be odd and greater than 1", op, k)
	}
	return nil
}

// AdaptiveThreshold binarizes a grayscale buffer against a Gaussian-weighted
// local mean over a blockSize window. A pixel turns white when it is brighter
// than its local mean minus c, and black otherwise.
func (b *Buffer) AdaptiveThreshold(blockSize int, c float64) error {
	if err := b.requireGray("adaptive threshold"); err != nil {
		return err
	}
	if err := validateKernel("adaptive block", blockSize); err != nil {
		return err
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return apperrors.InvalidArgument("adaptive constant %v is not a finite number", c)
	}

	// A radius of (k-1)/2 gives bild a kernel exactly k taps wide.
	mean := blur.Gaussian(b.gray, float64((blockSize-1)/2))

	w, h := b.Width(), b.Height()
	for y := 0; y < h; y++ {
		row := b.gray.Pix[y*b.gray.Stride : y*b.gray.Stride+w]
		mrow := mean.Pix[y*mean.Stride:]
		for x := range row {
			if float64(row[x]) > float64(mrow[x*4])-c {
				row[x] = white
			} else {
				row[x] = black
			}
		}
	}
	return nil
}

// Threshold binarizes a grayscale buffer at the cutoff
// 255 - round(percentBlack*255): pixels strictly above it turn white and the
// rest black, so percentBlack 0 blackens everything.
func (b *Buffer) Threshold(percentBlack float64) error {
	if err := b.requireGray("threshold"); err != nil {
		return err
	}
	if math.IsNaN(percentBlack) || percentBlack < 0 || percentBlack > 1 {
		return apperrors.InvalidArgument("threshold percent %v outside [0, 1]", percentBlack)
	}

	cutoff := uint8(255 - int(math.Round(percentBlack*255)))
	for i, v := range b.gray.Pix {
		if v > cutoff {
			b.gray.Pix[i] = white
		} else {
			b.gray.Pix[i] = black
		}
	}
	return nil
}
