package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/board-vector/internal/imaging"
)

// FilterLetterforms turns a board photo into a black-on-white mask of the
// marks written on it. src is not modified.
//
// Stages, in order:
//  1. grayscale
//  2. perspective transform onto quad
//  3. crop p.CropPercent off every side to drop the board frame
//  4. scale to fit p.WorkWidth x p.WorkHeight
//  5. adaptive threshold, which copes with uneven lighting
//  6. box blur, so broken strokes run together
//  7. fixed threshold, joining what the blur connected
//  8. area threshold, clearing the specks left by step 5
func FilterLetterforms(src *imaging.Buffer, quad imaging.Quad, p Params, log logrus.FieldLogger) (*imaging.Buffer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := quad.Validate(); err != nil {
		return nil, err
	}

	buf := src.Clone()
	buf.Grayscale()

	stages := []struct {
		name string
		run  func() error
	}{
		{"perspective", func() error { return buf.PerspectiveTransform(quad) }},
		{"crop", func() error { return buf.CropBorder(p.CropPercent) }},
		{"scale", func() error {
			_, err := buf.ScaleBounded(p.WorkWidth, p.WorkHeight)
			return err
		}},
		{"adaptive", func() error { return buf.AdaptiveThreshold(p.AdaptiveBlock, p.AdaptiveC) }},
		{"blur", func() error { return buf.Blur(p.BlurKernel) }},
		{"threshold", func() error { return buf.Threshold(p.ThreshPercent) }},
		{"area", func() error { return buf.AreaThreshold(p.MinArea) }},
	}

	for _, s := range stages {
		start := time.Now()
		if err := s.run(); err != nil {
			log.WithFields(logrus.Fields{"stage": s.name, "params": p.String()}).WithError(err).Debug("pipeline stage failed")
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"stage":    s.name,
			"size":     buf.Dimensions().String(),
			"duration": time.Since(start).String(),
		}).Debug("pipeline stage done")
	}
	return buf, nil
}
