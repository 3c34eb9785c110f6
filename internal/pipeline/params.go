package pipeline

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// Params tunes the letterform filter.
type Params struct {
	// BlurKernel is the box blur window; odd and greater than 1.
	BlurKernel int `json:"blur_kernel"`
	// AdaptiveBlock is the adaptive threshold window; odd and greater than 1.
	AdaptiveBlock int `json:"adaptive_block"`
	// AdaptiveC is subtracted from the local mean before comparing.
	AdaptiveC float64 `json:"adaptive_c"`
	// ThreshPercent sets the final cutoff at 255 - round(ThreshPercent*255).
	ThreshPercent float64 `json:"thresh_percent"`
	// MinArea is the smallest black region kept, in pixels.
	MinArea int `json:"min_area"`

	CropPercent float64 `json:"crop_percent"`
	WorkWidth   int     `json:"work_width"`
	WorkHeight  int     `json:"work_height"`
}

// DefaultParams returns a middle-of-the-road parameter set. The working
// resolution is fixed so that window sizes mean the same thing whatever the
// camera resolution was.
func DefaultParams() Params {
	return Params{
		BlurKernel:    5,
		AdaptiveBlock: 15,
		AdaptiveC:     2.5,
		ThreshPercent: 0.1,
		MinArea:       10,
		CropPercent:   0.02,
		WorkWidth:     2000,
		WorkHeight:    2000,
	}
}

// Validate reports the first out-of-range field as an InvalidArgument error.
func (p Params) Validate() error {
	if p.BlurKernel <= 1 || p.BlurKernel%2 == 0 {
		return apperrors.InvalidArgument("blur_kernel %d must be odd and greater than 1", p.BlurKernel)
	}
	if p.AdaptiveBlock <= 1 || p.AdaptiveBlock%2 == 0 {
		return apperrors.InvalidArgument("adaptive_block %d must be odd and greater than 1", p.AdaptiveBlock)
	}
	if math.IsNaN(p.AdaptiveC) || math.IsInf(p.AdaptiveC, 0) {
		return apperrors.InvalidArgument("adaptive_c must be a finite number")
	}
	if math.IsNaN(p.ThreshPercent) || p.ThreshPercent < 0 || p.ThreshPercent > 1 {
		return apperrors.InvalidArgument("thresh_percent %v outside [0, 1]", p.ThreshPercent)
	}
	if p.MinArea < 1 {
		return apperrors.InvalidArgument("min_area %d must be at least 1", p.MinArea)
	}
	if math.IsNaN(p.CropPercent) || p.CropPercent < 0 || p.CropPercent > 0.5 {
		return apperrors.InvalidArgument("crop_percent %v outside [0, 0.5]", p.CropPercent)
	}
	if p.WorkWidth <= 0 || p.WorkHeight <= 0 {
		return apperrors.InvalidArgument("working resolution %dx%d must be positive", p.WorkWidth, p.WorkHeight)
	}
	return nil
}

// Annotations lists the tunable parameters as watermark lines.
func (p Params) Annotations() []imaging.Annotation {
	return []imaging.Annotation{
		{Key: "blur_kernel", Value: strconv.Itoa(p.BlurKernel)},
		{Key: "adaptive_block", Value: strconv.Itoa(p.AdaptiveBlock)},
		{Key: "adaptive_c", Value: strconv.FormatFloat(p.AdaptiveC, 'f', 2, 64)},
		{Key: "thresh_percent", Value: strconv.FormatFloat(p.ThreshPercent, 'f', 3, 64)},
		{Key: "min_area", Value: strconv.Itoa(p.MinArea)},
	}
}

func (p Params) String() string {
	return fmt.Sprintf("blur=%d block=%d c=%.2f thresh=%.3f area=%d",
		p.BlurKernel, p.AdaptiveBlock, p.AdaptiveC, p.ThreshPercent, p.MinArea)
}
