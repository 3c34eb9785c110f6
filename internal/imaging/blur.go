package imaging

import (
	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// Blur replaces every pixel with the mean of the kernelSize square around it.
// Pixels beyond the border repeat the nearest edge pixel. Color buffers blur
// each channel independently and keep their alpha.
func (b *Buffer) Blur(kernelSize int) error {
	if err := validateKernel("blur kernel", kernelSize); err != nil {
		return err
	}

	k := convolution.NewKernel(kernelSize, kernelSize)
	for i := range k.Matrix {
		k.Matrix[i] = 1
	}
	// The 0.5 bias rounds the weighted sum instead of truncating it.
	out := convolution.Convolve(b.Image(), k.Normalized(), &convolution.Options{
		Bias:      0.5,
		KeepAlpha: true,
	})
	b.replace(imaging.Clone(out))
	return nil
}
