package imgfilter

import (
	"fmt"
	"strings"
)

// Boundary selects how Convolve reads samples outside the image.
// Examples show how the row "a b c d" is extended on both sides.
type Boundary int

const (
	// BoundaryReflect repeats the edge sample: d c b a | a b c d | d c b a.
	BoundaryReflect Boundary = iota

	// BoundaryMirror reflects about the edge sample: d c b | a b c d | c b a.
	BoundaryMirror

	// BoundaryNearest replicates the edge sample: a a a | a b c d | d d d.
	BoundaryNearest

	// BoundaryWrap tiles the image: b c d | a b c d | a b c.
	BoundaryWrap

	// BoundaryConstant pads with a constant (see WithConstant): k k | a b c d | k k.
	BoundaryConstant
)

var boundaryNames = [...]string{
	BoundaryReflect:  "reflect",
	BoundaryMirror:   "mirror",
	BoundaryNearest:  "nearest",
	BoundaryWrap:     "wrap",
	BoundaryConstant: "constant",
}

// String returns the lowercase name of the boundary mode.
func (b Boundary) String() string {
	if b < 0 || int(b) >= len(boundaryNames) {
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
	return boundaryNames[b]
}

// IsValid reports whether b is a known boundary mode.
func (b Boundary) IsValid() bool {
	return b >= 0 && int(b) < len(boundaryNames)
}

// ParseBoundary maps a mode name (reflect, mirror, nearest, wrap, constant)
// to a Boundary. Matching is case-insensitive.
func ParseBoundary(name string) (Boundary, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range boundaryNames {
		if n == name {
			return Boundary(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown boundary mode %q", ErrInvalidArgument, name)
}

// Boundaries returns all supported modes in declaration order.
func Boundaries() []Boundary {
	out := make([]Boundary, len(boundaryNames))
	for i := range out {
		out[i] = Boundary(i)
	}
	return out
}

// resolve maps index into [0, size) according to the mode.
// It returns -1 for out-of-range indices under BoundaryConstant.
// size must be >= 1.
func (b Boundary) resolve(index, size int) int {
	if index >= 0 && index < size {
		return index
	}

	switch b {
	case BoundaryMirror:
		if size == 1 {
			return 0
		}
		period := 2*size - 2
		index = mod(index, period)
		if index >= size {
			index = period - index
		}
		return index

	case BoundaryNearest:
		if index < 0 {
			return 0
		}
		return size - 1

	case BoundaryWrap:
		return mod(index, size)

	case BoundaryConstant:
		return -1

	default: // BoundaryReflect
		period := 2 * size
		index = mod(index, period)
		if index >= size {
			index = period - index - 1
		}
		return index
	}
}

// indexTable precomputes source indices for every output position along one
// axis: table[p*k+i] is the source index read by kernel tap i at position p.
func (b Boundary) indexTable(size, k int) []int {
	half := KernelCenter(k)
	table := make([]int, size*k)
	for p := 0; p < size; p++ {
		for i := 0; i < k; i++ {
			table[p*k+i] = b.resolve(p+i-half, size)
		}
	}
	return table
}

// mod returns the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
