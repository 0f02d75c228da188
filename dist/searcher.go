// This file declares the Searcher capability interface and its search
// handles. Concrete backends live in brute.go and kdtree.go.
package dist

import (
	"fmt"

	"github.com/jendov/capclust/core"
)

// Searcher supplies every distance capability the clustering engines need.
// Implementations must be deterministic given identical inputs unless they
// document otherwise (approximate KDTree settings).
type Searcher interface {
	// Compatible reports whether the backend can serve queries on ds.
	Compatible(ds *core.DataSet) bool

	// PairwiseDists returns the condensed upper triangle of the distance
	// matrix over points: for i < j the distance between points[i] and
	// points[j] is at index i*(2*len-i-3)/2 + j - 1 in the usual condensed
	// order. Length is len*(len-1)/2.
	PairwiseDists(ds *core.DataSet, points []int) ([]float64, error)

	// CrossDists returns the row-major |rows| x |cols| matrix of distances
	// between every row point and every column point.
	CrossDists(ds *core.DataSet, rows, cols []int) ([]float64, error)

	// NewMaxSearch preprocesses searchPoints for farthest-point queries.
	NewMaxSearch(ds *core.DataSet, searchPoints []int) (MaxSearch, error)

	// NewNNSearch preprocesses searchPoints for k-nearest-neighbor queries.
	// radius <= 0 means unbounded. k must be >= 1.
	NewNNSearch(ds *core.DataSet, k int, radius float64, searchPoints []int) (NNSearch, error)
}

// MaxSearch answers farthest-point queries over a fixed search set.
type MaxSearch interface {
	// Farthest returns the search point maximizing distance to query, and
	// that distance. Ties break by ascending point index.
	Farthest(query int) (point int, dist float64, err error)

	// Close releases the handle. The handle is unusable afterwards.
	Close() error
}

// NNSearch answers k-nearest-neighbor queries over a fixed search set.
type NNSearch interface {
	// Search writes the indices of the up-to-k nearest search points to
	// query into out (len(out) >= k), ordered by ascending distance with
	// ties by ascending index, and returns how many were found within the
	// radius. The query point itself is a legal result when it belongs to
	// the search set.
	Search(query int, out []int32) (int, error)

	// Close releases the handle. The handle is unusable afterwards.
	Close() error
}

// validateSearchArgs centralizes the argument checks shared by backends.
func validateSearchArgs(ds *core.DataSet, points []int) error {
	if ds == nil {
		return fmt.Errorf("dist: data set: %w", core.ErrNilInput)
	}
	n := ds.PointCount()
	for _, p := range points {
		if p < 0 || p >= n {
			return fmt.Errorf("dist: point %d outside [0,%d): %w", p, n, core.ErrInvalidInput)
		}
	}

	return nil
}

// CondensedIndex maps an (i, j) pair with i < j over len points to its
// offset in a condensed pairwise distance vector, matching PairwiseDists.
func CondensedIndex(n, i, j int) int {
	return i*(2*n-i-3)/2 + j - 1
}
