package events

import (
	"errors"
	"image"
	"time"

	"github.com/disintegration/imaging"

	bvimaging "github.com/ironsheep/board-vector/internal/imaging"
)

// ErrScriptEnded is returned by Script.Poll once every event was consumed.
var ErrScriptEnded = errors.New("events: script ended")

// Script is a headless Surface that replays a fixed list of events, one per
// poll. It keeps a copy of everything shown.
type Script struct {
	events []Event
	pos    int
	shown  []*image.NRGBA
}

// NewScript creates a surface replaying events in order.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

// ClickAt is a poll result holding only a click.
func ClickAt(x, y int) Event {
	return Event{Key: KeyNone, Click: &bvimaging.Point{X: x, Y: y}}
}

// Press is a poll result holding only a key.
func Press(k KeyCode) Event {
	return Event{Key: k}
}

// Idle is a poll result with no input.
func Idle() Event {
	return Event{Key: KeyNone}
}

func (s *Script) Show(img image.Image) error {
	s.shown = append(s.shown, imaging.Clone(img))
	return nil
}

func (s *Script) Poll(time.Duration) (Event, error) {
	if s.pos >= len(s.events) {
		return Event{Key: KeyNone}, ErrScriptEnded
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Shown returns copies of every image shown so far, oldest first.
func (s *Script) Shown() []*image.NRGBA {
	return s.shown
}

// Remaining reports how many events were not polled.
func (s *Script) Remaining() int {
	return len(s.events) - s.pos
}
