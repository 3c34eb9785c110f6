package events

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// DefaultWait is how long each Poll blocks for input.
const DefaultWait = 10 * time.Millisecond

// Surface is a display that is driven by polling. Show and Poll are only
// ever called from one goroutine at a time.
type Surface interface {
	Show(img image.Image) error
	// Poll waits up to wait for input. An Event with Key == KeyNone and a
	// nil Click means nothing happened.
	Poll(wait time.Duration) (Event, error)
}

// Event is the input observed by one poll: at most one key and one click.
type Event struct {
	Key   KeyCode
	Click *imaging.Point
}

// slot holds at most one pending value. The loop offers into it only while a
// task is parked on it, and the task drains it on receipt.
type slot[T any] struct {
	ch chan T
}

func newSlot[T any]() slot[T] {
	return slot[T]{ch: make(chan T, 1)}
}

func (s slot[T]) offer(v T) bool {
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}

type want uint8

const (
	wantClick want = 1 << iota
	wantKey
)

// Bridge turns a polled Surface into blocking Click and Keypress calls for a
// task running under Run. The task and the poll loop take turns: the loop
// only polls while the task is parked, and the task only runs between
// deliveries.
type Bridge struct {
	surface Surface
	wait    time.Duration
	log     logrus.FieldLogger

	clicks slot[imaging.Point]
	keys   slot[KeyCode]
	parked chan want
}

// NewBridge wraps surface. A wait of zero or less selects DefaultWait.
func NewBridge(surface Surface, wait time.Duration, log logrus.FieldLogger) *Bridge {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Bridge{
		surface: surface,
		wait:    wait,
		log:     log,
		clicks:  newSlot[imaging.Point](),
		keys:    newSlot[KeyCode](),
		parked:  make(chan want),
	}
}

// Show renders buf on the surface.
func (b *Bridge) Show(buf *imaging.Buffer) error {
	if err := b.surface.Show(buf.Image()); err != nil {
		return apperrors.IOFailure("failed to show image", err)
	}
	return nil
}

// Click suspends until the next click.
func (b *Bridge) Click(ctx context.Context) (imaging.Point, error) {
	ev, err := b.park(ctx, wantClick)
	if err != nil {
		return imaging.Point{}, err
	}
	return *ev.Click, nil
}

// Keypress suspends until the next key other than a quit key.
func (b *Bridge) Keypress(ctx context.Context) (KeyCode, error) {
	ev, err := b.park(ctx, wantKey)
	if err != nil {
		return KeyNone, err
	}
	return ev.Key, nil
}

// Next suspends until either a click or a key arrives. Exactly one of the
// returned Event's fields is set.
func (b *Bridge) Next(ctx context.Context) (Event, error) {
	return b.park(ctx, wantClick|wantKey)
}

func (b *Bridge) park(ctx context.Context, w want) (Event, error) {
	select {
	case b.parked <- w:
	case <-ctx.Done():
		return Event{Key: KeyNone}, apperrors.Cancelled(ctx.Err())
	}

	select {
	case p := <-b.clicks.ch:
		return Event{Key: KeyNone, Click: &p}, nil
	case k := <-b.keys.ch:
		return Event{Key: k}, nil
	case <-ctx.Done():
		return Event{Key: KeyNone}, apperrors.Cancelled(ctx.Err())
	}
}

// Run drives task until it returns or the operator quits.
//
// It reports completed == true only when task returned nil. Quitting,
// cancelling ctx, or task returning a cancellation error all report
// (false, nil). Poll failures and other task errors are returned.
//
// Input that arrives while the task is not waiting for that kind of input is
// dropped.
func (b *Bridge) Run(ctx context.Context, task func(ctx context.Context) error) (bool, error) {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- task(taskCtx) }()

	stop := func(reason string) {
		cancel()
		<-done
		b.log.WithField("reason", reason).Info("interactive session cancelled")
	}

	w, finished, err := b.await(done)
	for !finished {
		if ctx.Err() != nil {
			stop("context")
			return false, nil
		}

		ev, perr := b.surface.Poll(b.wait)
		if perr != nil {
			cancel()
			<-done
			return false, apperrors.IOFailure("failed to poll display", perr)
		}
		if ev.Key.IsQuit() {
			stop("quit key " + ev.Key.String())
			return false, nil
		}

		if ev.Click != nil && w&wantClick != 0 {
			b.clicks.offer(*ev.Click)
			if w, finished, err = b.await(done); finished {
				break
			}
		}
		if ev.Key != KeyNone && w&wantKey != 0 {
			b.keys.offer(ev.Key)
			w, finished, err = b.await(done)
		}
	}
	return b.finish(err)
}

// await blocks until the task parks again or exits.
func (b *Bridge) await(done <-chan error) (want, bool, error) {
	select {
	case w := <-b.parked:
		return w, false, nil
	case err := <-done:
		return 0, true, err
	}
}

func (b *Bridge) finish(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrCancelled), errors.Is(err, context.Canceled):
		b.log.WithError(err).Info("interactive session cancelled")
		return false, nil
	default:
		return false, err
	}
}
