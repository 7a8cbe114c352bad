package grid

import (
	"fmt"
	"iter"
)

// CPos is a cell coordinate in the tile grid.
type CPos struct {
	X int
	Y int
}

// CVec is a relative offset between cells.
type CVec struct {
	X int
	Y int
}

func (c CPos) Add(v CVec) CPos { return CPos{c.X + v.X, c.Y + v.Y} }

func (c CPos) String() string { return fmt.Sprintf("%d,%d", c.X, c.Y) }

// CellRegion is an axis-aligned rectangle of cells with inclusive corners.
type CellRegion struct {
	TopLeft     CPos
	BottomRight CPos
}

func Region(left, top, right, bottom int) CellRegion {
	return CellRegion{TopLeft: CPos{left, top}, BottomRight: CPos{right, bottom}}
}

func (r CellRegion) Contains(c CPos) bool {
	return c.X >= r.TopLeft.X && c.X <= r.BottomRight.X &&
		c.Y >= r.TopLeft.Y && c.Y <= r.BottomRight.Y
}

func (r CellRegion) Width() int  { return r.BottomRight.X - r.TopLeft.X + 1 }
func (r CellRegion) Height() int { return r.BottomRight.Y - r.TopLeft.Y + 1 }

// Cells walks the region x-outer, y-inner, matching the tile codec's
// serialization order.
func (r CellRegion) Cells() iter.Seq[CPos] {
	return func(yield func(CPos) bool) {
		for x := r.TopLeft.X; x <= r.BottomRight.X; x++ {
			for y := r.TopLeft.Y; y <= r.BottomRight.Y; y++ {
				if !yield(CPos{x, y}) {
					return
				}
			}
		}
	}
}

// Layer is a dense fixed-size 2D array of T. Cells are stored x-major so
// that linear order matches the binary tile format.
type Layer[T any] struct {
	width  int
	height int
	cells  []T
}

func NewLayer[T any](width, height int) *Layer[T] {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid layer size %dx%d", width, height))
	}
	return &Layer[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

func (l *Layer[T]) Width() int  { return l.width }
func (l *Layer[T]) Height() int { return l.height }

func (l *Layer[T]) In(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

func (l *Layer[T]) index(x, y int) int {
	if !l.In(x, y) {
		panic(fmt.Sprintf("grid: cell %d,%d out of range for %dx%d layer", x, y, l.width, l.height))
	}
	return x*l.height + y
}

func (l *Layer[T]) At(x, y int) T { return l.cells[l.index(x, y)] }

func (l *Layer[T]) AtPos(c CPos) T { return l.At(c.X, c.Y) }

func (l *Layer[T]) Set(x, y int, v T) { l.cells[l.index(x, y)] = v }

func (l *Layer[T]) SetPos(c CPos, v T) { l.Set(c.X, c.Y, v) }

// Fill sets every cell to v.
func (l *Layer[T]) Fill(v T) {
	for i := range l.cells {
		l.cells[i] = v
	}
}

// Resize returns a new layer of the given size. The overlapping region is
// copied from l; newly exposed cells are filled with def. l is not mutated.
func (l *Layer[T]) Resize(width, height int, def T) *Layer[T] {
	out := NewLayer[T](width, height)
	out.Fill(def)
	cw := min(width, l.width)
	ch := min(height, l.height)
	for x := 0; x < cw; x++ {
		for y := 0; y < ch; y++ {
			out.Set(x, y, l.At(x, y))
		}
	}
	return out
}
