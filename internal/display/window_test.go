package display

import (
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/ironsheep/board-vector/internal/events"
	"github.com/ironsheep/board-vector/internal/imaging"
)

func newTestWindow(t *testing.T, w, h int) *Window {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	win := New(app, "test")
	if err := win.Show(image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	return win
}

func TestPoll_Idle(t *testing.T) {
	w := newTestWindow(t, 10, 10)
	ev, err := w.Poll(time.Millisecond)
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if ev.Key != events.KeyNone || ev.Click != nil {
		t.Errorf("expected no input, got %+v", ev)
	}
}

func TestTapped_MapsToImagePixels(t *testing.T) {
	w := newTestWindow(t, 400, 200)
	w.view.Resize(fyne.NewSize(200, 100))

	tests := []struct {
		pos  fyne.Position
		want imaging.Point
	}{
		{fyne.NewPos(0, 0), imaging.Point{X: 0, Y: 0}},
		{fyne.NewPos(100, 50), imaging.Point{X: 200, Y: 100}},
		{fyne.NewPos(200, 100), imaging.Point{X: 399, Y: 199}},
	}
	for _, tt := range tests {
		w.view.Tapped(&fyne.PointEvent{Position: tt.pos})
		ev, err := w.Poll(time.Millisecond)
		if err != nil {
			t.Fatalf("Poll failed: %v", err)
		}
		if ev.Click == nil || *ev.Click != tt.want {
			t.Errorf("tap at %v: got %+v, want %s", tt.pos, ev.Click, tt.want)
		}
	}
}

func TestTapped_OutsideIgnored(t *testing.T) {
	w := newTestWindow(t, 40, 40)
	w.view.Resize(fyne.NewSize(40, 40))
	w.view.Tapped(&fyne.PointEvent{Position: fyne.NewPos(-1, 10)})

	ev, _ := w.Poll(time.Millisecond)
	if ev.Click != nil {
		t.Errorf("tap outside the view produced %s", ev.Click)
	}
}

func TestKeys(t *testing.T) {
	w := newTestWindow(t, 10, 10)

	w.typedRune('A')
	w.typedRune(' ')
	w.typedRune('é')
	w.typedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	w.typedKey(&fyne.KeyEvent{Name: fyne.KeyUp})
	w.typedKey(&fyne.KeyEvent{Name: fyne.KeyF1})

	want := []events.KeyCode{'a', events.KeySpace, events.KeyReturn, events.KeyUp}
	for i, k := range want {
		ev, err := w.Poll(time.Millisecond)
		if err != nil {
			t.Fatalf("Poll failed: %v", err)
		}
		if ev.Key != k {
			t.Errorf("key %d: got %s, want %s", i, ev.Key, k)
		}
	}
	if ev, _ := w.Poll(time.Millisecond); ev.Key != events.KeyNone {
		t.Errorf("unexpected extra key %s", ev.Key)
	}
}

func TestClosedWindowQuits(t *testing.T) {
	w := newTestWindow(t, 10, 10)
	w.Close()

	for i := 0; i < 2; i++ {
		ev, err := w.Poll(time.Second)
		if err != nil {
			t.Fatalf("Poll failed: %v", err)
		}
		if !ev.Key.IsQuit() {
			t.Errorf("poll %d after close: got %s, want a quit key", i, ev.Key)
		}
	}
}

func TestShow_RendersSnapshot(t *testing.T) {
	w := newTestWindow(t, 8, 8)
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if err := w.Show(src); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	// The capture overlay keeps drawing into its buffer after showing it
	// while fyne renders; run with -race to catch shared pixels.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			src.Pix[i%len(src.Pix)] = uint8(i) | 1
		}
	}()
	w.win.Canvas().Capture()
	<-done

	w.view.mu.RLock()
	shown := w.view.raster.Image
	w.view.mu.RUnlock()

	if shown == image.Image(src) {
		t.Fatal("window renders the caller's image instead of a copy")
	}
	snap, ok := shown.(*image.NRGBA)
	if !ok {
		t.Fatalf("shown image is %T, want *image.NRGBA", shown)
	}
	if snap.Pix[0] != 0 {
		t.Errorf("snapshot changed after Show: Pix[0] = %d", snap.Pix[0])
	}
}
