package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/board-vector/internal/assets"
	"github.com/ironsheep/board-vector/internal/config"
	"github.com/ironsheep/board-vector/internal/display"
	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/logger"
)

const defaultConfigPath = "board-vector.json"

// env is what every command needs once its flags are parsed.
type env struct {
	cfg *config.Config
	log *logrus.Logger
}

// commonFlags are accepted by every command.
type commonFlags struct {
	config   string
	logLevel string
	assetDir string
}

func newFlagSet(name, usage string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: board-vector %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	c := &commonFlags{}
	fs.StringVar(&c.config, "config", defaultConfigPath, "configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&c.assetDir, "assets", "", "asset directory")
	return fs, c
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// load reads the configuration, then applies the environment, then flags.
func (c *commonFlags) load() (*env, error) {
	cfg, err := config.Load(c.config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.assetDir != "" {
		cfg.AssetDir = c.assetDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger.New(cfg.LogLevel)}, nil
}

func (e *env) openStore() (*assets.Store, error) {
	return assets.Open(e.cfg.AssetDir, e.log)
}

// runWindowed opens a display window and runs task against it. Fyne must own
// the main goroutine, so task runs in its own goroutine and quits the app when
// done. Interrupts cancel the task the same way q does.
func (e *env) runWindowed(title string, task func(ctx context.Context, bridge *events.Bridge) (bool, error)) (bool, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.NewWithID("io.github.ironsheep.board-vector")
	win := display.New(a, title)
	bridge := events.NewBridge(win, time.Duration(e.cfg.PollIntervalMS)*time.Millisecond, e.log)

	type outcome struct {
		completed bool
		err       error
	}
	done := make(chan outcome, 1)
	go func() {
		completed, err := task(ctx, bridge)
		done <- outcome{completed, err}
		win.Close()
		a.Quit()
	}()

	a.Run()
	// Closing the window ends the app before the task notices; the closed
	// window reads as a quit key on the next poll.
	res := <-done
	return res.completed, res.err
}

// parseQuad reads "x1,y1,x2,y2,x3,y3,x4,y4", corners clockwise from top-left.
func parseQuad(s string) (imaging.Quad, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 8 {
		return imaging.Quad{}, apperrors.InvalidArgument("quad %q needs 8 comma-separated coordinates", s)
	}
	points := make([]imaging.Point, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return imaging.Quad{}, apperrors.InvalidArgument("quad coordinate %q is not an integer", f)
		}
		if i%2 == 0 {
			points[i/2].X = v
		} else {
			points[i/2].Y = v
		}
	}
	return imaging.NewQuad(points)
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, apperrors.InvalidArgument("index %q must be a non-negative integer", s)
	}
	return i, nil
}
