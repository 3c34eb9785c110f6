package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/pipeline"
)

// Options configures a sweep.
type Options struct {
	Dir   string
	Count int
	Seed  int64
	// Force replaces an existing sweep in Dir.
	Force bool
	// Watermark writes the parameters onto each output.
	Watermark bool
	Space     pipeline.Space
	// Base supplies the fields the sampler does not vary.
	Base pipeline.Params
}

// Run filters src with Count distinct random parameter sets and writes each
// result as out_<i>.png next to an index. Parameter sets the pipeline rejects
// are logged and skipped.
func Run(ctx context.Context, src *imaging.Buffer, source string, quad imaging.Quad, opts Options, log logrus.FieldLogger) (*Index, error) {
	if opts.Count <= 0 {
		return nil, apperrors.InvalidArgument("sample count %d must be positive", opts.Count)
	}
	if err := quad.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(opts.Dir, IndexFile)); err == nil && !opts.Force {
		return nil, apperrors.InvalidArgument("%s already holds an experiment; use force to replace it", opts.Dir)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, apperrors.IOFailure("failed to create experiment directory", err)
	}
	if opts.Force {
		if err := removeOutputs(opts.Dir); err != nil {
			return nil, err
		}
	}

	params := pipeline.NewSampler(opts.Space, opts.Base, opts.Seed).Sample(opts.Count)
	idx := &Index{Source: source, Quad: quad, Samples: make([]Sample, 0, len(params))}

	for i, p := range params {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Cancelled(err)
		}

		fields := logrus.Fields{"sample": i + 1, "of": len(params), "params": p.String()}
		out, err := pipeline.FilterLetterforms(src, quad, p, log)
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("pipeline rejected parameters")
			continue
		}
		if opts.Watermark {
			out.Watermark(p.Annotations())
		}

		file := fmt.Sprintf("out_%d.png", i)
		if err := out.Save(filepath.Join(opts.Dir, file)); err != nil {
			return nil, err
		}
		idx.Samples = append(idx.Samples, Sample{Index: i, Params: p, File: file})
		log.WithFields(fields).Info("sample written")
	}

	if err := SaveIndex(opts.Dir, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// removeOutputs deletes the images of an earlier sweep so a smaller rerun
// leaves none behind.
func removeOutputs(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "out_*.png"))
	if err != nil {
		return apperrors.IOFailure("failed to list previous outputs", err)
	}
	for _, f := range stale {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return apperrors.IOFailure("failed to remove previous output", err)
		}
	}
	return nil
}
