package imgfilter

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Grid is a rectangular 2D array of float64 values stored row-major.
// It represents both grayscale images and filter kernels.
//
// Values may be negative or fractional. Clamping to a displayable range is
// left to the caller (see Clip).
//
// Storage is a gonum dense matrix whose row stride always equals its width.
//
// Thread safety: Grid is safe for concurrent reads. Set and Fill require
// external synchronization.
type Grid struct {
	m *mat.Dense
}

// NewGrid creates a zeroed grid with the given height and width.
// Returns an error wrapping ErrInvalidArgument if either is less than 1.
func NewGrid(height, width int) (*Grid, error) {
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: grid shape %dx%d", ErrInvalidArgument, height, width)
	}
	return newGrid(height, width), nil
}

// newGrid allocates without validation. Callers guarantee a valid shape;
// mat.NewDense panics on zero dimensions.
func newGrid(height, width int) *Grid {
	return &Grid{m: mat.NewDense(height, width, nil)}
}

// GridFromRows creates a grid from a slice of rows. The rows are copied.
// Returns an error wrapping ErrInvalidArgument if there are no rows,
// the first row is empty, or the rows have different lengths.
func GridFromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: grid has no elements", ErrInvalidArgument)
	}

	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrInvalidArgument, y, len(row), width)
		}
		data = append(data, row...)
	}
	return &Grid{m: mat.NewDense(len(rows), width, data)}, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	h, _ := g.Shape()
	return h
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	_, w := g.Shape()
	return w
}

// Shape returns (height, width). An empty grid reports (0, 0).
func (g *Grid) Shape() (height, width int) {
	if g == nil || g.m == nil {
		return 0, 0
	}
	return g.m.Dims()
}

// IsEmpty reports whether g is nil or holds no elements.
func (g *Grid) IsEmpty() bool {
	h, w := g.Shape()
	return h < 1 || w < 1
}

// At returns the value at row y, column x.
// Out-of-range coordinates return 0.
func (g *Grid) At(y, x int) float64 {
	if !g.inside(y, x) {
		return 0
	}
	return g.m.At(y, x)
}

// Set stores v at row y, column x.
// Out-of-range coordinates are ignored.
func (g *Grid) Set(y, x int, v float64) {
	if !g.inside(y, x) {
		return
	}
	g.m.Set(y, x, v)
}

func (g *Grid) inside(y, x int) bool {
	h, w := g.Shape()
	return y >= 0 && y < h && x >= 0 && x < w
}

// Row returns a mutable slice for row y, or nil if y is out of range.
func (g *Grid) Row(y int) []float64 {
	if y < 0 || y >= g.Height() {
		return nil
	}
	return g.m.RawRowView(y)
}

// Rows returns a deep copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.Height())
	for y := range rows {
		rows[y] = append([]float64(nil), g.Row(y)...)
	}
	return rows
}

// raw returns the backing elements in row-major order.
func (g *Grid) raw() []float64 {
	if g.IsEmpty() {
		return nil
	}
	return g.m.RawMatrix().Data
}

// Fill sets every element to v.
func (g *Grid) Fill(v float64) {
	data := g.raw()
	for i := range data {
		data[i] = v
	}
}

// Sum returns the sum of all elements.
func (g *Grid) Sum() float64 {
	if g.IsEmpty() {
		return 0
	}
	return mat.Sum(g.m)
}

// Clone creates a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	if g.IsEmpty() {
		return &Grid{}
	}
	var m mat.Dense
	m.CloneFrom(g.m)
	return &Grid{m: &m}
}

// Clip returns a new grid with every element clamped to [lo, hi].
func (g *Grid) Clip(lo, hi float64) *Grid {
	if g.IsEmpty() {
		return &Grid{}
	}
	out := newGrid(g.Shape())
	out.m.Apply(func(_, _ int, v float64) float64 {
		return min(max(v, lo), hi)
	}, g.m)
	return out
}

// SameShape reports whether g and other have the same dimensions.
// A nil grid only matches another empty grid.
func (g *Grid) SameShape(other *Grid) bool {
	gh, gw := g.Shape()
	oh, ow := other.Shape()
	return gh == oh && gw == ow
}

// Equal reports whether g and other have the same shape and identical values.
func (g *Grid) Equal(other *Grid) bool {
	if g.IsEmpty() || other.IsEmpty() {
		return g.IsEmpty() && other.IsEmpty()
	}
	return mat.Equal(g.m, other.m)
}

// ApproxEqual reports whether g and other have the same shape and every pair
// of elements is within tol, absolutely or relative to their magnitude.
func (g *Grid) ApproxEqual(other *Grid, tol float64) bool {
	if g.IsEmpty() || other.IsEmpty() {
		return g.IsEmpty() && other.IsEmpty()
	}
	return mat.EqualApprox(g.m, other.m, tol)
}

// String formats the grid as bracketed rows, e.g. [[0 1 0] [1 -4 1] [0 1 0]]
// on separate lines. Intended for printing kernels.
func (g *Grid) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for y := range g.Height() {
		if y > 0 {
			b.WriteString("\n ")
		}
		b.WriteByte('[')
		for x, v := range g.Row(y) {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// rotate180 returns the grid rotated by 180 degrees.
func (g *Grid) rotate180() *Grid {
	out := newGrid(g.Shape())
	src, dst := g.raw(), out.raw()
	n := len(src)
	for i, v := range src {
		dst[n-1-i] = v
	}
	return out
}
