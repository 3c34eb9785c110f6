package imaging

import (
	"image/color"
	"testing"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 Point
		want   []Point
	}{
		{"horizontal", Point{1, 2}, Point{4, 2}, []Point{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"vertical reversed", Point{3, 4}, Point{3, 1}, []Point{{3, 1}, {3, 2}, {3, 3}, {3, 4}}},
		{"diagonal", Point{0, 0}, Point{3, 3}, []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"single point", Point{2, 2}, Point{2, 2}, []Point{{2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newGrayBuffer(t, 6, 6, white)
			if err := buf.DrawLine(tt.p0, tt.p1, color.Black); err != nil {
				t.Fatalf("DrawLine failed: %v", err)
			}
			for _, p := range tt.want {
				if buf.GrayAt(p.X, p.Y) != black {
					t.Errorf("pixel %s not drawn", p)
				}
			}
			if got := countBlack(buf); got != len(tt.want) {
				t.Errorf("drew %d pixels, want %d", got, len(tt.want))
			}
		})
	}
}

func TestDrawLine_OutOfBounds(t *testing.T) {
	buf := newGrayBuffer(t, 5, 5, white)
	cases := [][2]Point{
		{{0, 0}, {5, 0}},
		{{-1, 0}, {2, 2}},
		{{0, 0}, {2, 9}},
	}
	for _, c := range cases {
		if err := buf.DrawLine(c[0], c[1], color.Black); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
			t.Errorf("DrawLine(%s, %s): expected invalid_argument, got %v", c[0], c[1], err)
		}
	}
	if countBlack(buf) != 0 {
		t.Error("rejected line still drew pixels")
	}
}

func TestDrawPoint(t *testing.T) {
	buf := newColorBuffer(t, 20, 20, color.NRGBA{255, 255, 255, 255})
	red := color.NRGBA{255, 0, 0, 255}

	if err := buf.DrawPoint(Point{10, 10}, 2, red); err != nil {
		t.Fatalf("DrawPoint failed: %v", err)
	}
	if got := buf.nrgba.NRGBAAt(10, 12); got != red {
		t.Errorf("disc edge: got %v, want red", got)
	}
	if got := buf.nrgba.NRGBAAt(12, 12); got == red {
		t.Error("corner outside the radius was painted")
	}

	// Clipped at the border, centre still inside.
	if err := buf.DrawPoint(Point{0, 0}, 3, red); err != nil {
		t.Errorf("DrawPoint at the corner failed: %v", err)
	}
	if err := buf.DrawPoint(Point{20, 5}, 1, red); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
		t.Errorf("DrawPoint outside: expected invalid_argument, got %v", err)
	}
	if err := buf.DrawPoint(Point{5, 5}, -1, red); err == nil {
		t.Error("negative radius should fail")
	}
}

func TestWatermark(t *testing.T) {
	buf := newGrayBuffer(t, 200, 100, white)
	buf.Watermark([]Annotation{{"blur", "5"}, {"area", "12"}})

	if buf.Mode() != Color {
		t.Fatal("Watermark should convert to color")
	}
	if buf.Width() != 200 || buf.Height() != 100 {
		t.Errorf("dimensions changed to %dx%d", buf.Width(), buf.Height())
	}

	// Text lands in the bottom-left corner.
	marked := false
	for y := 50; y < 100 && !marked; y++ {
		for x := 0; x < 100; x++ {
			if buf.nrgba.NRGBAAt(x, y) != (color.NRGBA{255, 255, 255, 255}) {
				marked = true
				break
			}
		}
	}
	if !marked {
		t.Error("no watermark pixels found in the bottom-left quarter")
	}
	if got := buf.nrgba.NRGBAAt(190, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("top-right corner touched: %v", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil {
		t.Fatalf("ParseColor failed: %v", err)
	}
	if c != (color.NRGBA{255, 128, 0, 255}) {
		t.Errorf("got %v, want {255 128 0 255}", c)
	}

	for _, bad := range []string{"", "ff8000", "#ff80", "#gg0000"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestCornerColor_Distinct(t *testing.T) {
	seen := map[color.Color]bool{}
	for i := 0; i < 4; i++ {
		c := CornerColor(i)
		if seen[c] {
			t.Errorf("corner %d reuses a color", i)
		}
		seen[c] = true
	}
	if CornerColor(4) != CornerColor(0) {
		t.Error("corner colors should cycle every four")
	}
}
