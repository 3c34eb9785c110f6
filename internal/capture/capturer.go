package capture

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// Options configures a Capturer.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Style     Style
}

// Loader decodes a photo.
type Loader func(path string) (*imaging.Buffer, error)

// Capturer runs capture sessions through a Bridge.
type Capturer struct {
	bridge *events.Bridge
	opts   Options
	load   Loader
	log    logrus.FieldLogger
}

// NewCapturer creates a Capturer. A nil load uses imaging.FromFile.
func NewCapturer(bridge *events.Bridge, opts Options, load Loader, log logrus.FieldLogger) *Capturer {
	if load == nil {
		load = imaging.FromFile
	}
	return &Capturer{bridge: bridge, opts: opts, load: load, log: log}
}

// CaptureQuad runs one session on src and returns the committed quad in
// source coordinates. It must be called from a task running under
// Bridge.Run. Quitting surfaces as a cancellation error.
func (c *Capturer) CaptureQuad(ctx context.Context, src *imaging.Buffer) (imaging.Quad, error) {
	s, err := NewSession(src, c.opts.MaxWidth, c.opts.MaxHeight, c.opts.Style)
	if err != nil {
		return imaging.Quad{}, err
	}

	for {
		if err := c.bridge.Show(s.Display()); err != nil {
			s.Cancel()
			return imaging.Quad{}, err
		}

		switch s.State() {
		case Collecting:
			p, err := c.bridge.Click(ctx)
			if err != nil {
				s.Cancel()
				return imaging.Quad{}, err
			}
			if err := s.Click(p); err != nil {
				return imaging.Quad{}, err
			}
			c.log.WithFields(logrus.Fields{"corner": imaging.Corner(s.Collected() - 1).String(), "at": p.String()}).Debug("corner placed")

		case ReadyToCommit:
			ev, err := c.bridge.Next(ctx)
			if err != nil {
				s.Cancel()
				return imaging.Quad{}, err
			}
			if ev.Click != nil {
				c.log.Debug("corners reset")
				if err := s.Click(*ev.Click); err != nil {
					return imaging.Quad{}, err
				}
				continue
			}
			s.Key(ev.Key)

		default:
			return s.Quad()
		}
	}
}

// CaptureQuads asks for a quad on every photo in turn and hands each
// committed one to onCommit. It returns completed == false when the operator
// quit; the photo being worked on at that point is never committed.
func (c *Capturer) CaptureQuads(ctx context.Context, paths []string, onCommit func(path string, q imaging.Quad) error) (bool, error) {
	return c.bridge.Run(ctx, func(ctx context.Context) error {
		for _, path := range paths {
			src, err := c.load(path)
			if err != nil {
				return err
			}
			q, err := c.CaptureQuad(ctx, src)
			if err != nil {
				return err
			}
			c.log.WithFields(logrus.Fields{"path": path, "quad": q.String()}).Info("quad committed")
			if err := onCommit(path, q); err != nil {
				return err
			}
		}
		return nil
	})
}
