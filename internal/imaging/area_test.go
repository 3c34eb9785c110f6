package imaging

import (
	"image/color"
	"testing"

	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

func TestAreaThreshold_AllBlack(t *testing.T) {
	// One 10x10 region of 100 pixels.
	tests := []struct {
		minArea   int
		wantBlack int
	}{
		{1, 100},
		{100, 100},
		{101, 0},
	}

	for _, tt := range tests {
		buf := newGrayBuffer(t, 10, 10, black)
		if err := buf.AreaThreshold(tt.minArea); err != nil {
			t.Fatalf("AreaThreshold(%d) failed: %v", tt.minArea, err)
		}
		if got := countBlack(buf); got != tt.wantBlack {
			t.Errorf("AreaThreshold(%d): %d black pixels, want %d", tt.minArea, got, tt.wantBlack)
		}
	}
}

func TestAreaThreshold_BlobSizeBoundary(t *testing.T) {
	// An irregular blob of 7 pixels.
	rows := []string{
		"........",
		".##.....",
		"..###...",
		"....#...",
		"....#...",
		"........",
	}

	for _, minArea := range []int{6, 7} {
		buf := grayFromRows(t, rows...)
		if err := buf.AreaThreshold(minArea); err != nil {
			t.Fatalf("AreaThreshold failed: %v", err)
		}
		if got := countBlack(buf); got != 7 {
			t.Errorf("minArea %d: blob of 7 should survive, got %d black", minArea, got)
		}
	}

	buf := grayFromRows(t, rows...)
	if err := buf.AreaThreshold(8); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	if got := countBlack(buf); got != 0 {
		t.Errorf("minArea 8: blob of 7 should vanish, got %d black", got)
	}
}

func TestAreaThreshold_MergesLateJoin(t *testing.T) {
	// A U shape: the two arms get separate labels and only meet on the
	// bottom row. Without merging, each arm looks like 4 pixels.
	rows := []string{
		"#...#",
		"#...#",
		"#...#",
		"#####",
	}
	buf := grayFromRows(t, rows...)
	if err := buf.AreaThreshold(11); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	if got := countBlack(buf); got != 11 {
		t.Errorf("U shape of 11 should survive minArea 11, got %d black", got)
	}
}

func TestAreaThreshold_ChainedMerges(t *testing.T) {
	// Three columns joined by a bottom bar, then a second bar
	// reconnecting through an already merged label.
	rows := []string{
		"#.#.#",
		"#.#.#",
		"#####",
		"....#",
		"#####",
	}
	buf := grayFromRows(t, rows...)
	if err := buf.AreaThreshold(17); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	if got := countBlack(buf); got != 17 {
		t.Errorf("connected shape of 17 should survive, got %d black", got)
	}
}

func TestAreaThreshold_DiagonalIsNotConnected(t *testing.T) {
	rows := []string{
		"#...",
		".#..",
		"..#.",
		"...#",
	}
	buf := grayFromRows(t, rows...)
	if err := buf.AreaThreshold(2); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	if got := countBlack(buf); got != 0 {
		t.Errorf("diagonal pixels are separate regions of 1, got %d black", got)
	}
}

func TestAreaThreshold_MixedRegions(t *testing.T) {
	rows := []string{
		"##....#",
		"##.....",
		".......",
		"...###.",
		"...###.",
		"...###.",
	}
	buf := grayFromRows(t, rows...)
	if err := buf.AreaThreshold(4); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	// The 4-pixel square and the 9-pixel block stay; the lone speck goes.
	if got := countBlack(buf); got != 13 {
		t.Errorf("got %d black, want 13", got)
	}
	if buf.GrayAt(6, 0) != white {
		t.Error("single speck should be repainted white")
	}
}

func TestAreaThreshold_LeavesGrayValues(t *testing.T) {
	buf := newGrayBuffer(t, 4, 4, 100)
	buf.gray.Pix[0] = black
	if err := buf.AreaThreshold(5); err != nil {
		t.Fatalf("AreaThreshold failed: %v", err)
	}
	if got := buf.GrayAt(0, 0); got != white {
		t.Errorf("speck: got %d, want white", got)
	}
	if got := buf.GrayAt(2, 2); got != 100 {
		t.Errorf("non-black pixel changed: got %d, want 100", got)
	}
}

func TestAreaThreshold_Invalid(t *testing.T) {
	buf := newGrayBuffer(t, 4, 4, black)
	for _, a := range []int{0, -3} {
		if err := buf.AreaThreshold(a); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
			t.Errorf("AreaThreshold(%d): expected invalid_argument, got %v", a, err)
		}
	}

	colorBuf := newColorBuffer(t, 4, 4, color.NRGBA{0, 0, 0, 255})
	if err := colorBuf.AreaThreshold(1); !apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument) {
		t.Errorf("AreaThreshold on color: expected invalid_argument, got %v", err)
	}
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind()
	a, b, c, d := uf.add(), uf.add(), uf.add(), uf.add()

	uf.union(a, b)
	uf.union(c, d)
	if uf.find(a) == uf.find(c) {
		t.Fatal("separate sets share a root")
	}
	uf.union(b, d)
	if uf.find(a) != uf.find(c) {
		t.Error("sets not merged through b-d")
	}
}
