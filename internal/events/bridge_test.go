package events

import (
	"context"
	"errors"
	"image"
	"testing"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/imaging"
	"github.com/ironsheep/board-vector/internal/logger"
)

func newTestBridge(events ...Event) (*Bridge, *Script) {
	s := NewScript(events...)
	return NewBridge(s, 0, logger.Discard()), s
}

func TestRun_CollectsClicks(t *testing.T) {
	b, s := newTestBridge(ClickAt(1, 2), Idle(), ClickAt(3, 4), ClickAt(5, 6))

	var got []imaging.Point
	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		for i := 0; i < 3; i++ {
			p, err := b.Click(ctx)
			if err != nil {
				return err
			}
			got = append(got, p)
		}
		return nil
	})
	if err != nil || !completed {
		t.Fatalf("Run = (%v, %v), want (true, nil)", completed, err)
	}
	want := []imaging.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}
	if len(got) != len(want) {
		t.Fatalf("got %d clicks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("click %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if s.Remaining() != 0 {
		t.Errorf("%d events left unpolled", s.Remaining())
	}
}

func TestRun_QuitCancelsTask(t *testing.T) {
	for _, quit := range []KeyCode{'q', KeyEsc} {
		t.Run(quit.String(), func(t *testing.T) {
			b, _ := newTestBridge(ClickAt(1, 1), Press(quit), ClickAt(2, 2))

			var taskErr error
			clicks := 0
			completed, err := b.Run(context.Background(), func(ctx context.Context) error {
				for {
					if _, taskErr = b.Click(ctx); taskErr != nil {
						return taskErr
					}
					clicks++
				}
			})
			if err != nil || completed {
				t.Fatalf("Run = (%v, %v), want (false, nil)", completed, err)
			}
			if clicks != 1 {
				t.Errorf("task saw %d clicks, want 1", clicks)
			}
			if !errors.Is(taskErr, apperrors.ErrCancelled) {
				t.Errorf("task should observe cancellation, got %v", taskErr)
			}
		})
	}
}

func TestRun_DropsUnwantedInput(t *testing.T) {
	// Keys arriving while the task waits for clicks are thrown away, and so
	// are clicks arriving while it waits for a key.
	b, _ := newTestBridge(Press('a'), ClickAt(1, 1), ClickAt(9, 9), Press('b'))

	var p imaging.Point
	var k KeyCode
	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		var err error
		if p, err = b.Click(ctx); err != nil {
			return err
		}
		k, err = b.Keypress(ctx)
		return err
	})
	if err != nil || !completed {
		t.Fatalf("Run = (%v, %v), want (true, nil)", completed, err)
	}
	if p != (imaging.Point{X: 1, Y: 1}) {
		t.Errorf("click: got %s, want (1,1)", p)
	}
	if k != 'b' {
		t.Errorf("key: got %s, want b", k)
	}
}

func TestRun_ClickThenKeyInOneTick(t *testing.T) {
	both := ClickAt(4, 4)
	both.Key = KeyEnter
	b, _ := newTestBridge(both)

	var order []string
	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		for i := 0; i < 2; i++ {
			ev, err := b.Next(ctx)
			if err != nil {
				return err
			}
			if ev.Click != nil {
				order = append(order, "click")
			} else {
				order = append(order, ev.Key.String())
			}
		}
		return nil
	})
	if err != nil || !completed {
		t.Fatalf("Run = (%v, %v), want (true, nil)", completed, err)
	}
	if len(order) != 2 || order[0] != "click" || order[1] != "enter" {
		t.Errorf("delivery order: got %v, want [click enter]", order)
	}
}

func TestRun_KeyDroppedWhenTaskFinishesOnClick(t *testing.T) {
	both := ClickAt(4, 4)
	both.Key = 'x'
	b, s := newTestBridge(both, Press('y'))

	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		_, err := b.Click(ctx)
		return err
	})
	if err != nil || !completed {
		t.Fatalf("Run = (%v, %v), want (true, nil)", completed, err)
	}
	if s.Remaining() != 1 {
		t.Errorf("Run kept polling after the task finished: %d left", s.Remaining())
	}
}

func TestRun_PollErrorIsReturned(t *testing.T) {
	b, _ := newTestBridge(ClickAt(0, 0))

	var taskErr error
	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		for {
			if _, taskErr = b.Click(ctx); taskErr != nil {
				return taskErr
			}
		}
	})
	if completed {
		t.Error("Run should not report completion")
	}
	if !errors.Is(err, ErrScriptEnded) {
		t.Errorf("expected the poll error, got %v", err)
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeIOFailure) {
		t.Errorf("poll errors should be io_failure, got %v", err)
	}
	if !errors.Is(taskErr, apperrors.ErrCancelled) {
		t.Errorf("task should be cancelled, got %v", taskErr)
	}
}

func TestRun_TaskError(t *testing.T) {
	b, _ := newTestBridge()
	boom := apperrors.InvalidArgument("boom")

	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		return boom
	})
	if completed || !errors.Is(err, boom) {
		t.Errorf("Run = (%v, %v), want (false, boom)", completed, err)
	}
}

func TestRun_ParentContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b, _ := newTestBridge(ClickAt(1, 1), Idle(), Idle())

	completed, err := b.Run(ctx, func(taskCtx context.Context) error {
		if _, err := b.Click(taskCtx); err != nil {
			return err
		}
		cancel()
		_, err := b.Click(taskCtx)
		return err
	})
	if completed || err != nil {
		t.Errorf("Run = (%v, %v), want (false, nil)", completed, err)
	}
}

func TestRun_TaskWithoutInput(t *testing.T) {
	b, s := newTestBridge()
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	buf, err := imaging.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	completed, err := b.Run(context.Background(), func(ctx context.Context) error {
		return b.Show(buf)
	})
	if err != nil || !completed {
		t.Fatalf("Run = (%v, %v), want (true, nil)", completed, err)
	}
	if len(s.Shown()) != 1 || s.Shown()[0].Bounds().Dx() != 3 {
		t.Errorf("expected one 3px wide image shown, got %d", len(s.Shown()))
	}
}
