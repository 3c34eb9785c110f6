// Package display shows images in a fyne window and reports clicks and keys
// through the poll interface the capture bridge expects.
package display

import (
	"image"
	"sync"
	"time"
	"unicode"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/board-vector/internal/events"
	bvimaging "github.com/ironsheep/board-vector/internal/imaging"
)

const queueSize = 64

// Window is a fyne window that implements events.Surface. Fyne pushes input
// from its own goroutine; Window queues it until the next Poll.
type Window struct {
	win   fyne.Window
	view  *imageView
	queue chan events.Event

	closeOnce sync.Once
	closed    chan struct{}
	sized     bool
}

// New creates and shows a window titled title. The window starts empty.
func New(app fyne.App, title string) *Window {
	w := &Window{
		win:    app.NewWindow(title),
		queue:  make(chan events.Event, queueSize),
		closed: make(chan struct{}),
	}
	w.view = newImageView(w.push)
	w.win.SetContent(w.view)
	w.win.SetPadded(false)
	w.win.Canvas().SetOnTypedRune(w.typedRune)
	w.win.Canvas().SetOnTypedKey(w.typedKey)
	w.win.SetOnClosed(w.markClosed)
	w.win.Show()
	return w
}

// Show replaces the displayed image. The first image also sizes the window.
// Fyne renders a copy, so the caller may keep drawing into img.
func (w *Window) Show(img image.Image) error {
	w.view.setImage(imaging.Clone(img))
	if !w.sized {
		b := img.Bounds()
		w.win.Resize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		w.sized = true
	}
	return nil
}

// Poll waits up to wait for queued input. A closed window reports Esc so the
// bridge treats it as quitting.
func (w *Window) Poll(wait time.Duration) (events.Event, error) {
	select {
	case <-w.closed:
		return events.Press(events.KeyEsc), nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ev := <-w.queue:
		return ev, nil
	case <-w.closed:
		return events.Press(events.KeyEsc), nil
	case <-timer.C:
		return events.Idle(), nil
	}
}

// Close closes the window.
func (w *Window) Close() {
	w.win.Close()
	w.markClosed()
}

func (w *Window) markClosed() {
	w.closeOnce.Do(func() { close(w.closed) })
}

// push queues an event, dropping it when nobody polls.
func (w *Window) push(ev events.Event) {
	select {
	case w.queue <- ev:
	default:
	}
}

// typedRune reports printable keys. Letters are lower-cased so that upper
// case letters do not collide with the arrow codes.
func (w *Window) typedRune(r rune) {
	if r == ' ' {
		w.push(events.Press(events.KeySpace))
		return
	}
	r = unicode.ToLower(r)
	if r > ' ' && r < 127 {
		w.push(events.Press(events.KeyCode(r)))
	}
}

var namedKeys = map[fyne.KeyName]events.KeyCode{
	fyne.KeyReturn: events.KeyReturn,
	fyne.KeyEnter:  events.KeyEnter,
	fyne.KeyEscape: events.KeyEsc,
	fyne.KeyLeft:   events.KeyLeft,
	fyne.KeyUp:     events.KeyUp,
	fyne.KeyRight:  events.KeyRight,
	fyne.KeyDown:   events.KeyDown,
}

func (w *Window) typedKey(ev *fyne.KeyEvent) {
	if k, ok := namedKeys[ev.Name]; ok {
		w.push(events.Press(k))
	}
}

// imageView stretches an image over the widget and maps taps back to image
// pixels.
type imageView struct {
	widget.BaseWidget

	mu     sync.RWMutex
	raster *fynecanvas.Image
	imgW   int
	imgH   int
	onTap  func(events.Event)
}

func newImageView(onTap func(events.Event)) *imageView {
	v := &imageView{onTap: onTap}
	v.raster = fynecanvas.NewImageFromImage(nil)
	v.raster.FillMode = fynecanvas.ImageFillStretch
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *imageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

func (v *imageView) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (v *imageView) setImage(img image.Image) {
	b := img.Bounds()
	v.mu.Lock()
	v.imgW, v.imgH = b.Dx(), b.Dy()
	v.raster.Image = img
	v.mu.Unlock()
	v.raster.Refresh()
}

// Tapped handles left-click events.
func (v *imageView) Tapped(ev *fyne.PointEvent) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	v.mu.RLock()
	imgW, imgH := v.imgW, v.imgH
	v.mu.RUnlock()
	if imgW == 0 || imgH == 0 {
		return
	}

	p := bvimaging.Point{
		X: min(int(ev.Position.X/size.Width*float32(imgW)), imgW-1),
		Y: min(int(ev.Position.Y/size.Height*float32(imgH)), imgH-1),
	}
	v.onTap(events.Event{Key: events.KeyNone, Click: &p})
}
