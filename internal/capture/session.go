package capture

import (
	"fmt"
	"image/color"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
)

// State is the position of a Session in the corner-collection cycle.
type State int

const (
	// Collecting waits for the next corner click.
	Collecting State = iota
	// ReadyToCommit has four corners and waits for the commit key.
	ReadyToCommit
	Committed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case ReadyToCommit:
		return "ready"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Style controls how a Session annotates the display.
type Style struct {
	CommitKey    events.KeyCode
	LineColor    color.Color
	MarkerRadius int
}

// DefaultStyle commits on Enter and draws green lines.
func DefaultStyle() Style {
	return Style{
		CommitKey:    events.KeyEnter,
		LineColor:    color.NRGBA{R: 0, G: 200, B: 83, A: 255},
		MarkerRadius: 4,
	}
}

// Session collects the four corners of one photo. Clicks are in display
// coordinates; Quad maps them back to the source.
type Session struct {
	pristine *imaging.Buffer
	display  *imaging.Buffer
	factor   float64
	srcW     int
	srcH     int
	points   []imaging.Point
	state    State
	style    Style
}

// NewSession prepares src for display within maxW x maxH. src is not
// modified.
func NewSession(src *imaging.Buffer, maxW, maxH int, style Style) (*Session, error) {
	pristine := src.Clone()
	pristine.ToColor()
	factor, err := pristine.ScaleBounded(maxW, maxH)
	if err != nil {
		return nil, err
	}
	return &Session{
		pristine: pristine,
		display:  pristine.Clone(),
		factor:   factor,
		srcW:     src.Width(),
		srcH:     src.Height(),
		points:   make([]imaging.Point, 0, 4),
		style:    style,
	}, nil
}

func (s *Session) State() State { return s.state }

// Collected reports how many corners are placed.
func (s *Session) Collected() int { return len(s.points) }

// Display returns the annotated buffer to show. It changes on every click.
func (s *Session) Display() *imaging.Buffer { return s.display }

// Factor is the display scale relative to the source.
func (s *Session) Factor() float64 { return s.factor }

// Click handles a click in display coordinates. Points outside the display
// are clamped to its edge.
func (s *Session) Click(p imaging.Point) error {
	switch s.state {
	case Collecting:
	case ReadyToCommit:
		s.reset()
		return nil
	default:
		return apperrors.InvalidArgument("click in finished session (%s)", s.state)
	}

	p.X = min(max(p.X, 0), s.display.Width()-1)
	p.Y = min(max(p.Y, 0), s.display.Height()-1)

	n := len(s.points)
	if err := s.display.DrawPoint(p, s.style.MarkerRadius, imaging.CornerColor(n)); err != nil {
		return err
	}
	if n > 0 {
		if err := s.display.DrawLine(s.points[n-1], p, s.style.LineColor); err != nil {
			return err
		}
	}
	s.points = append(s.points, p)

	if len(s.points) == 4 {
		if err := s.display.DrawLine(p, s.points[0], s.style.LineColor); err != nil {
			return err
		}
		s.state = ReadyToCommit
	}
	return nil
}

// Key handles a key press. Only the commit key in ReadyToCommit does
// anything.
func (s *Session) Key(k events.KeyCode) {
	if s.state == ReadyToCommit && k.Is(s.style.CommitKey) {
		s.state = Committed
	}
}

// Cancel abandons the session.
func (s *Session) Cancel() {
	if s.state != Committed {
		s.state = Cancelled
	}
}

// Quad returns the committed corners in source coordinates, clamped to the
// source bounds.
func (s *Session) Quad() (imaging.Quad, error) {
	if s.state != Committed {
		return imaging.Quad{}, apperrors.InvalidArgument("no committed quad (%s)", s.state)
	}
	q, err := imaging.NewQuad(s.points)
	if err != nil {
		return imaging.Quad{}, err
	}
	q = q.Scale(1 / s.factor)
	for i := range q {
		q[i].X = min(q[i].X, s.srcW-1)
		q[i].Y = min(q[i].Y, s.srcH-1)
	}
	return q, nil
}

// reset discards the corners and restores the unannotated display.
func (s *Session) reset() {
	s.points = s.points[:0]
	s.display = s.pristine.Clone()
	s.state = Collecting
}
