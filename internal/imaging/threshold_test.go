package imaging

import (
	"image/color"
	"math"
	"testing"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

func TestKernelValidation(t *testing.T) {
	tests := []struct {
		k    int
		want bool
	}{
		{-3, false},
		{0, false},
		{1, false},
		{2, false},
		{3, true},
		{4, false},
		{5, true},
		{10, false},
		{11, true},
		{29, true},
	}

	for _, tt := range tests {
		blurBuf := newGrayBuffer(t, 32, 32, 100)
		blurErr := blurBuf.Blur(tt.k)

		adaptBuf := newGrayBuffer(t, 32, 32, 100)
		adaptErr := adaptBuf.AdaptiveThreshold(tt.k, 2)

		for name, err := range map[string]error{"Blur": blurErr, "AdaptiveThreshold": adaptErr} {
			if tt.want && err != nil {
				t.Errorf("%s(%d) failed: %v", name, tt.k, err)
			}
			if !tt.want && !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
				t.Errorf("%s(%d): expected invalid_argument, got %v", name, tt.k, err)
			}
		}
	}
}

func TestAdaptiveThreshold_RequiresGray(t *testing.T) {
	buf := newColorBuffer(t, 10, 10, color.NRGBA{1, 2, 3, 255})
	if err := buf.AdaptiveThreshold(3, 2); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
		t.Errorf("expected invalid_argument for a color buffer, got %v", err)
	}
}

func TestAdaptiveThreshold_NonFiniteC(t *testing.T) {
	for _, c := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		buf := newGrayBuffer(t, 10, 10, 100)
		if err := buf.AdaptiveThreshold(3, c); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
			t.Errorf("AdaptiveThreshold(3, %v): expected invalid_argument, got %v", c, err)
		}
	}
}

func TestAdaptiveThreshold_Uniform(t *testing.T) {
	// A flat image sits at its own local mean, so a positive offset keeps
	// it white and a large negative one turns it black.
	buf := newGrayBuffer(t, 40, 30, 128)
	if err := buf.AdaptiveThreshold(11, 2); err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}
	if n := countBlack(buf); n != 0 {
		t.Errorf("positive offset: %d black pixels, want 0", n)
	}

	buf = newGrayBuffer(t, 40, 30, 128)
	if err := buf.AdaptiveThreshold(11, -5); err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}
	if n := countBlack(buf); n != 40*30 {
		t.Errorf("negative offset: %d black pixels, want %d", n, 40*30)
	}
}

func TestAdaptiveThreshold_DarkStroke(t *testing.T) {
	buf := newGrayBuffer(t, 41, 41, 220)
	for y := 5; y < 36; y++ {
		buf.gray.Pix[y*buf.gray.Stride+20] = 40
	}

	if err := buf.AdaptiveThreshold(15, 5); err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}
	if got := buf.GrayAt(20, 20); got != black {
		t.Errorf("stroke pixel: got %d, want black", got)
	}
	if got := buf.GrayAt(2, 2); got != white {
		t.Errorf("background pixel: got %d, want white", got)
	}
	for _, v := range buf.gray.Pix {
		if v != black && v != white {
			t.Fatalf("non-binary value %d in output", v)
		}
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name    string
		value   uint8
		percent float64
		want    uint8
	}{
		{"white goes black at zero", 255, 0, black},
		{"near white goes black at zero", 254, 0, black},
		{"above cutoff", 205, 0.2, white}, // 255 - round(51) = 204
		{"at cutoff", 204, 0.2, black},
		{"below cutoff", 203, 0.2, black},
		{"black stays black at one", 0, 1, black},
		{"anything lit is white at one", 1, 1, white},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newGrayBuffer(t, 3, 3, tt.value)
			if err := buf.Threshold(tt.percent); err != nil {
				t.Fatalf("Threshold failed: %v", err)
			}
			if got := buf.GrayAt(1, 1); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestThreshold_Row(t *testing.T) {
	// Cutoff 255 - round(25.5) = 229.
	buf, err := FromPixels(3, 1, Gray, []uint8{228, 229, 230})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	if err := buf.Threshold(0.1); err != nil {
		t.Fatalf("Threshold failed: %v", err)
	}
	want := []uint8{black, black, white}
	for x, w := range want {
		if got := buf.GrayAt(x, 0); got != w {
			t.Errorf("x=%d: got %d, want %d", x, got, w)
		}
	}
}

func TestThreshold_Invalid(t *testing.T) {
	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		buf := newGrayBuffer(t, 3, 3, 0)
		if err := buf.Threshold(p); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
			t.Errorf("Threshold(%v): expected invalid_argument, got %v", p, err)
		}
	}

	buf := newColorBuffer(t, 3, 3, color.NRGBA{0, 0, 0, 255})
	if err := buf.Threshold(0.5); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
		t.Errorf("Threshold on color: expected invalid_argument, got %v", err)
	}
}
