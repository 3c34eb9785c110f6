package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/board-vector/internal/capture"
	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/experiment"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/ocr"
	"github.com/ironsheep/board-vector/internal/pipeline"
	"github.com/ironsheep/board-vector/internal/server"
)

// === Asset commands ===

func runAdd(args []string) error {
	fs, common := newFlagSet("add", "<photo> <x1,y1,x2,y2,x3,y3,x4,y4>")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}
	q, err := parseQuad(fs.Arg(1))
	if err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	entry, err := store.Add(fs.Arg(0), q)
	if err != nil {
		return err
	}
	fmt.Printf("added %d: %s %s\n", store.Len()-1, entry.Name, entry.Quad)
	return nil
}

func runDelete(args []string) error {
	fs, common := newFlagSet("delete", "<index>")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	i, err := parseIndex(fs.Arg(0))
	if err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	return store.Delete(i)
}

func runList(args []string) error {
	fs, common := newFlagSet("list", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	e, err := common.load()
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tQUAD")
	for i, entry := range store.List() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, entry.Name, entry.Quad)
	}
	return tw.Flush()
}

func runCapture(args []string) error {
	fs, common := newFlagSet("capture", "<photo>...")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}
	lineColor, err := imaging.ParseColor(e.cfg.LineColor)
	if err != nil {
		return err
	}
	opts := capture.Options{
		MaxWidth:  e.cfg.DisplayMaxWidth,
		MaxHeight: e.cfg.DisplayMaxHeight,
		Style: capture.Style{
			CommitKey:    e.cfg.CommitKeyCode(),
			LineColor:    lineColor,
			MarkerRadius: e.cfg.MarkerRadius,
		},
	}

	completed, err := e.runWindowed("board-vector capture", func(ctx context.Context, bridge *events.Bridge) (bool, error) {
		c := capture.NewCapturer(bridge, opts, nil, e.log)
		return c.CaptureQuads(ctx, fs.Args(), func(path string, q imaging.Quad) error {
			entry, err := store.Add(path, q)
			if err != nil {
				return err
			}
			fmt.Printf("added %d: %s %s\n", store.Len()-1, entry.Name, entry.Quad)
			return nil
		})
	})
	if err != nil {
		return err
	}
	if !completed {
		return apperrors.ErrCancelled
	}
	return nil
}

// === Pipeline commands ===

// paramFlags registers one flag per pipeline parameter. Only flags given on
// the command line override the configured values.
func paramFlags(fs *flag.FlagSet) func(p *pipeline.Params) {
	var f pipeline.Params
	fs.IntVar(&f.BlurKernel, "blur", 0, "box blur kernel (odd)")
	fs.IntVar(&f.AdaptiveBlock, "block", 0, "adaptive threshold block size (odd)")
	fs.Float64Var(&f.AdaptiveC, "c", 0, "adaptive threshold offset")
	fs.Float64Var(&f.ThreshPercent, "thresh", 0, "final threshold percent black (0..1)")
	fs.IntVar(&f.MinArea, "min-area", 0, "smallest region kept, in pixels")
	fs.Float64Var(&f.CropPercent, "crop", 0, "border cropped after straightening (0..0.5)")
	fs.IntVar(&f.WorkWidth, "work-width", 0, "working resolution width")
	fs.IntVar(&f.WorkHeight, "work-height", 0, "working resolution height")

	return func(p *pipeline.Params) {
		fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "blur":
				p.BlurKernel = f.BlurKernel
			case "block":
				p.AdaptiveBlock = f.AdaptiveBlock
			case "c":
				p.AdaptiveC = f.AdaptiveC
			case "thresh":
				p.ThreshPercent = f.ThreshPercent
			case "min-area":
				p.MinArea = f.MinArea
			case "crop":
				p.CropPercent = f.CropPercent
			case "work-width":
				p.WorkWidth = f.WorkWidth
			case "work-height":
				p.WorkHeight = f.WorkHeight
			}
		})
	}
}

// sourceFlags select a photo either from the store or by path and quad.
type sourceFlags struct {
	index int
	photo string
	quad  string
}

func addSourceFlags(fs *flag.FlagSet) *sourceFlags {
	s := &sourceFlags{}
	fs.IntVar(&s.index, "index", -1, "asset index")
	fs.StringVar(&s.photo, "photo", "", "photo path, used with -quad instead of -index")
	fs.StringVar(&s.quad, "quad", "", "board corners x1,y1,x2,y2,x3,y3,x4,y4")
	return s
}

func (s *sourceFlags) resolve(e *env) (string, imaging.Quad, error) {
	if s.photo != "" {
		q, err := parseQuad(s.quad)
		return s.photo, q, err
	}
	if s.index < 0 {
		return "", imaging.Quad{}, apperrors.InvalidArgument("-index or -photo with -quad is required")
	}
	store, err := e.openStore()
	if err != nil {
		return "", imaging.Quad{}, err
	}
	return store.Get(s.index)
}

func runFilter(args []string) error {
	fs, common := newFlagSet("filter", "(-index N | -photo P -quad Q) [-out file]")
	src := addSourceFlags(fs)
	applyParams := paramFlags(fs)
	out := fs.String("out", "out.png", "output file")
	watermark := fs.Bool("watermark", false, "write the parameters onto the output")
	if err := parse(fs, args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	path, q, err := src.resolve(e)
	if err != nil {
		return err
	}
	p := e.cfg.Pipeline
	applyParams(&p)

	buf, err := imaging.FromFile(path)
	if err != nil {
		return err
	}
	res, err := pipeline.FilterLetterforms(buf, q, p, e.log)
	if err != nil {
		return err
	}
	if *watermark {
		res.Watermark(p.Annotations())
	}
	if err := res.Save(*out); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"source": path, "out": *out, "params": p.String()}).Info("filtered")
	fmt.Printf("wrote %s (%s)\n", *out, res.Dimensions())
	return nil
}

// === Experiment commands ===

func runExperiment(args []string) error {
	fs, common := newFlagSet("experiment", "(-index N | -photo P -quad Q) [options]")
	src := addSourceFlags(fs)
	dir := fs.String("dir", "", "experiment directory (default from config)")
	count := fs.Int("count", 20, "number of parameter sets")
	seed := fs.Int64("seed", 1, "random seed")
	force := fs.Bool("force", false, "replace an existing experiment")
	watermark := fs.Bool("watermark", true, "write the parameters onto each output")
	auto := fs.Bool("auto", false, "judge outputs by OCR confidence instead of reviewing them")
	threshold := fs.Float64("threshold", 0.6, "OCR confidence that counts as good, with -auto")
	lang := fs.String("lang", ocr.DefaultLanguage, "OCR language, with -auto")
	if err := parse(fs, args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = e.cfg.ExperimentDir
	}
	path, q, err := src.resolve(e)
	if err != nil {
		return err
	}
	buf, err := imaging.FromFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	idx, err := experiment.Run(ctx, buf, path, q, experiment.Options{
		Dir:       *dir,
		Count:     *count,
		Seed:      *seed,
		Force:     *force,
		Watermark: *watermark,
		Space:     pipeline.DefaultSpace(),
		Base:      e.cfg.Pipeline,
	}, e.log)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d samples to %s\n", len(idx.Samples), *dir)

	if !*auto {
		fmt.Printf("run 'board-vector review -dir %s' to judge them\n", *dir)
		return nil
	}

	score := func(b *imaging.Buffer) (float64, error) {
		r, err := ocr.Score(b, *lang)
		if err != nil {
			return 0, err
		}
		return r.Confidence, nil
	}
	if err := experiment.AutoJudge(ctx, *dir, idx, score, *threshold, e.log); err != nil {
		return err
	}
	return printSummary(idx)
}

func runReview(args []string) error {
	fs, common := newFlagSet("review", "[-dir D] [-apply]")
	dir := fs.String("dir", "", "experiment directory (default from config)")
	apply := fs.Bool("apply", false, "save the recommended parameters into the configuration file")
	if err := parse(fs, args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = e.cfg.ExperimentDir
	}
	idx, err := experiment.LoadIndex(*dir)
	if err != nil {
		return err
	}

	completed, err := e.runWindowed("board-vector review "+filepath.Base(*dir), func(ctx context.Context, bridge *events.Bridge) (bool, error) {
		return experiment.Review(ctx, bridge, *dir, idx, e.cfg.DisplayMaxWidth, e.cfg.DisplayMaxHeight, e.log)
	})
	if err != nil {
		return err
	}
	if !completed {
		fmt.Println("review stopped; judgments so far are saved")
	}

	sum, err := experiment.Summarize(idx, pipeline.DefaultSpace())
	if err != nil {
		return err
	}
	fmt.Println(sum)
	if *apply {
		e.cfg.Pipeline = sum.Recommended
		if err := e.cfg.Save(common.config); err != nil {
			return err
		}
		fmt.Printf("saved recommended parameters to %s\n", common.config)
	}
	return nil
}

func printSummary(idx *experiment.Index) error {
	sum, err := experiment.Summarize(idx, pipeline.DefaultSpace())
	if err != nil {
		return err
	}
	fmt.Println(sum)
	return nil
}

// === Tool server ===

func runServe(args []string) error {
	fs, common := newFlagSet("serve", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	e, err := common.load()
	if err != nil {
		return err
	}
	store, err := e.openStore()
	if err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{"version": Version, "built": BuildTime, "commit": GitCommit}).Debug("board-vector server starting")
	srv := server.New(store, e.cfg.Pipeline, Version, e.log)
	return srv.Run()
}
