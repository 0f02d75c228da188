package core

import (
	"fmt"
	"math"
)

// DataSet bundles N points of M double-precision coordinates, row-major.
// It is immutable after construction: once any search backend has seen a
// DataSet, neither the dimensions nor the coordinate values may change.
//
// The coordinate slice is referenced, never copied. The caller guarantees
// the backing array outlives every use of the DataSet.
type DataSet struct {
	n      int       // number of points, >= 1
	m      int       // coordinates per point, >= 1
	coords []float64 // len n*m, row-major, finite
}

// NewDataSet wraps coords as an n-by-m row-major point matrix.
// Returns ErrNilInput when coords is nil, ErrTooLarge when n exceeds
// MaxPointCount, and ErrInvalidInput when n < 1, m < 1, len(coords) != n*m,
// or any coordinate is NaN or infinite.
// Complexity: O(n*m) for the finiteness scan.
func NewDataSet(coords []float64, n, m int) (*DataSet, error) {
	if coords == nil {
		return nil, fmt.Errorf("core.NewDataSet: coords: %w", ErrNilInput)
	}
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("core.NewDataSet: %d points, %d dims: %w", n, m, ErrInvalidInput)
	}
	if n > MaxPointCount {
		return nil, fmt.Errorf("core.NewDataSet: %d points: %w", n, ErrTooLarge)
	}
	if len(coords) != n*m {
		return nil, fmt.Errorf("core.NewDataSet: len(coords)=%d, want %d: %w", len(coords), n*m, ErrInvalidInput)
	}
	for i, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("core.NewDataSet: coords[%d]=%g: %w", i, c, ErrInvalidInput)
		}
	}

	return &DataSet{n: n, m: m, coords: coords}, nil
}

// PointCount returns N.
func (ds *DataSet) PointCount() int { return ds.n }

// Dims returns M.
func (ds *DataSet) Dims() int { return ds.m }

// Coord returns coordinate d of point p. Bounds are the caller's problem;
// engines index with validated ids only.
func (ds *DataSet) Coord(p, d int) float64 { return ds.coords[p*ds.m+d] }

// Point returns the coordinate row of point p as a view into the backing
// array. The caller must not modify it.
func (ds *DataSet) Point(p int) []float64 {
	return ds.coords[p*ds.m : (p+1)*ds.m]
}

// PointDist returns the exact Euclidean distance between points a and b.
// Complexity: O(m).
func (ds *DataSet) PointDist(a, b int) float64 {
	ra := ds.coords[a*ds.m : (a+1)*ds.m]
	rb := ds.coords[b*ds.m : (b+1)*ds.m]
	var acc float64
	for d := 0; d < ds.m; d++ {
		diff := ra[d] - rb[d]
		acc += diff * diff
	}

	return math.Sqrt(acc)
}

// SqDist returns the squared Euclidean distance between points a and b.
// Backends compare squared distances to avoid the square root in hot loops.
func (ds *DataSet) SqDist(a, b int) float64 {
	ra := ds.coords[a*ds.m : (a+1)*ds.m]
	rb := ds.coords[b*ds.m : (b+1)*ds.m]
	var acc float64
	for d := 0; d < ds.m; d++ {
		diff := ra[d] - rb[d]
		acc += diff * diff
	}

	return acc
}
