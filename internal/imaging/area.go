package imaging

import (
	apperrors "github.com/ironsheep/board-vector/internal/errors"
)

// AreaThreshold removes small specks from a binary grayscale buffer.
//
// Black (0) pixels are grouped into 4-connected regions; every region with
// fewer than minArea pixels is repainted white. Non-black pixels are never
// touched and the dimensions are unchanged.
//
// Labelling is a single row-major pass that only looks at the left and upper
// neighbours. When those belong to different labels the labels are unioned,
// which is what lets a U shape whose arms meet late count as one region.
// Memory is one int32 label per pixel plus the union-find parents.
func (b *Buffer) AreaThreshold(minArea int) error {
	if err := b.requireGray("area threshold"); err != nil {
		return err
	}
	if minArea < 1 {
		return apperrors.InvalidArgument("minimum area %d must be at least 1", minArea)
	}

	w, h := b.Width(), b.Height()
	pix, stride := b.gray.Pix, b.gray.Stride

	labels := make([]int32, w*h) // 0 means not black
	uf := newUnionFind()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if pix[y*stride+x] != black {
				continue
			}
			var left, up int32
			if x > 0 {
				left = labels[y*w+x-1]
			}
			if y > 0 {
				up = labels[(y-1)*w+x]
			}

			switch {
			case left != 0 && up != 0:
				labels[y*w+x] = left
				uf.union(left, up)
			case left != 0:
				labels[y*w+x] = left
			case up != 0:
				labels[y*w+x] = up
			default:
				labels[y*w+x] = uf.add()
			}
		}
	}

	sizes := make(map[int32]int)
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := uf.find(l)
		labels[i] = root
		sizes[root]++
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l != 0 && sizes[l] < minArea {
				pix[y*stride+x] = white
			}
		}
	}
	return nil
}

// unionFind tracks label equivalences. Label 0 is reserved for background,
// so parent[0] is unused.
type unionFind struct {
	parent []int32
	rank   []uint8
}

func newUnionFind() *unionFind {
	return &unionFind{parent: []int32{0}, rank: []uint8{0}}
}

// add creates a fresh label.
func (u *unionFind) add() int32 {
	l := int32(len(u.parent))
	u.parent = append(u.parent, l)
	u.rank = append(u.rank, 0)
	return l
}

func (u *unionFind) find(l int32) int32 {
	root := l
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[l] != root {
		next := u.parent[l]
		u.parent[l] = root
		l = next
	}
	return root
}

func (u *unionFind) union(a, b int32) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
