package experiment

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/pipeline"
)

// Stat is the mean and spread of one parameter over the good samples.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summary aggregates the good samples of a sweep.
type Summary struct {
	Total         int  `json:"total"`
	Judged        int  `json:"judged"`
	Good          int  `json:"good"`
	BlurKernel    Stat `json:"blur_kernel"`
	AdaptiveBlock Stat `json:"adaptive_block"`
	AdaptiveC     Stat `json:"adaptive_c"`
	ThreshPercent Stat `json:"thresh_percent"`
	MinArea       Stat `json:"min_area"`

	// Recommended is the mean parameter set, with window sizes snapped back
	// onto the sampled ranges.
	Recommended pipeline.Params `json:"recommended"`
}

// Summarize averages each parameter over the samples judged good.
func Summarize(idx *Index, space pipeline.Space) (*Summary, error) {
	sum := &Summary{Total: len(idx.Samples)}

	var blur, block, c, thresh, area []float64
	var base pipeline.Params
	for _, s := range idx.Samples {
		if s.Judged() {
			sum.Judged++
		}
		if !s.IsGood() {
			continue
		}
		if sum.Good == 0 {
			base = s.Params
		}
		sum.Good++
		blur = append(blur, float64(s.Params.BlurKernel))
		block = append(block, float64(s.Params.AdaptiveBlock))
		c = append(c, s.Params.AdaptiveC)
		thresh = append(thresh, s.Params.ThreshPercent)
		area = append(area, float64(s.Params.MinArea))
	}
	if sum.Good == 0 {
		return nil, apperrors.NotFound("no good samples among %d (%d judged)", sum.Total, sum.Judged)
	}

	sum.BlurKernel = describe(blur)
	sum.AdaptiveBlock = describe(block)
	sum.AdaptiveC = describe(c)
	sum.ThreshPercent = describe(thresh)
	sum.MinArea = describe(area)

	rec := base
	rec.BlurKernel = space.BlurKernel.Snap(int(math.Round(sum.BlurKernel.Mean)))
	rec.AdaptiveBlock = space.AdaptiveBlock.Snap(int(math.Round(sum.AdaptiveBlock.Mean)))
	rec.AdaptiveC = sum.AdaptiveC.Mean
	rec.ThreshPercent = sum.ThreshPercent.Mean
	rec.MinArea = space.MinArea.Snap(int(math.Round(sum.MinArea.Mean)))
	sum.Recommended = rec
	return sum, nil
}

func describe(x []float64) Stat {
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) < 2 {
		std = 0
	}
	return Stat{Mean: mean, StdDev: std}
}

func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d good of %d judged (%d samples)\n", s.Good, s.Judged, s.Total)
	row := func(name string, st Stat) {
		fmt.Fprintf(&b, "  %-15s mean %8.3f  sd %7.3f\n", name, st.Mean, st.StdDev)
	}
	row("blur_kernel", s.BlurKernel)
	row("adaptive_block", s.AdaptiveBlock)
	row("adaptive_c", s.AdaptiveC)
	row("thresh_percent", s.ThreshPercent)
	row("min_area", s.MinArea)
	fmt.Fprintf(&b, "recommended: %s", s.Recommended)
	return b.String()
}
