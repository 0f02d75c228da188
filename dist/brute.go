package dist

import (
	"fmt"
	"math"
	"sort"

	"github.com/jendov/capclust/core"
)

// Brute is the exact, deterministic distance backend. Every query evaluates
// Euclidean distances explicitly; no preprocessing beyond copying the
// search-point set. Brute results define the reference behavior the KDTree
// backend must match at Eps = 0.
type Brute struct{}

// Compatible reports true for any well-formed data set.
func (Brute) Compatible(ds *core.DataSet) bool { return ds != nil }

// PairwiseDists computes the condensed pairwise distance vector over points.
// Complexity: O(len^2 * m).
func (Brute) PairwiseDists(ds *core.DataSet, points []int) ([]float64, error) {
	if err := validateSearchArgs(ds, points); err != nil {
		return nil, err
	}
	n := len(points)
	out := make([]float64, n*(n-1)/2)
	pos := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out[pos] = ds.PointDist(points[i], points[j])
			pos++
		}
	}

	return out, nil
}

// CrossDists computes the dense |rows| x |cols| distance matrix, row-major.
// Complexity: O(len(rows) * len(cols) * m).
func (Brute) CrossDists(ds *core.DataSet, rows, cols []int) ([]float64, error) {
	if err := validateSearchArgs(ds, rows); err != nil {
		return nil, err
	}
	if err := validateSearchArgs(ds, cols); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows)*len(cols))
	for i, r := range rows {
		base := i * len(cols)
		for j, c := range cols {
			out[base+j] = ds.PointDist(r, c)
		}
	}

	return out, nil
}

// bruteMaxSearch scans the search set per query.
type bruteMaxSearch struct {
	ds     *core.DataSet
	points []int
	closed bool
}

// NewMaxSearch prepares farthest-point queries over searchPoints.
func (Brute) NewMaxSearch(ds *core.DataSet, searchPoints []int) (MaxSearch, error) {
	if err := validateSearchArgs(ds, searchPoints); err != nil {
		return nil, err
	}
	if len(searchPoints) == 0 {
		return nil, fmt.Errorf("dist.Brute.NewMaxSearch: empty search set: %w", core.ErrInvalidInput)
	}
	pts := make([]int, len(searchPoints))
	copy(pts, searchPoints)

	return &bruteMaxSearch{ds: ds, points: pts}, nil
}

func (s *bruteMaxSearch) Farthest(query int) (int, float64, error) {
	if s.closed {
		return 0, 0, fmt.Errorf("dist.Brute.Farthest: closed handle: %w", core.ErrDistSearch)
	}
	if query < 0 || query >= s.ds.PointCount() {
		return 0, 0, fmt.Errorf("dist.Brute.Farthest: query %d: %w", query, core.ErrInvalidInput)
	}
	best, bestSq := -1, -1.0
	for _, p := range s.points {
		sq := s.ds.SqDist(query, p)
		if sq > bestSq || (sq == bestSq && p < best) {
			best, bestSq = p, sq
		}
	}

	return best, math.Sqrt(bestSq), nil
}

func (s *bruteMaxSearch) Close() error {
	s.closed = true

	return nil
}

// bruteNNSearch keeps a scratch distance slice sized to the search set and
// selects the k best per query.
type bruteNNSearch struct {
	ds       *core.DataSet
	points   []int
	k        int
	radiusSq float64 // negative when unbounded
	scratch  []nnCand
	closed   bool
}

// nnCand pairs a search point with its squared distance to the query.
type nnCand struct {
	sq float64
	p  int32
}

// NewNNSearch prepares k-nearest-neighbor queries over searchPoints.
func (Brute) NewNNSearch(ds *core.DataSet, k int, radius float64, searchPoints []int) (NNSearch, error) {
	if err := validateSearchArgs(ds, searchPoints); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("dist.Brute.NewNNSearch: k=%d: %w", k, core.ErrInvalidInput)
	}
	radiusSq := -1.0
	if radius > 0 {
		radiusSq = radius * radius
	}
	pts := make([]int, len(searchPoints))
	copy(pts, searchPoints)

	return &bruteNNSearch{
		ds:       ds,
		points:   pts,
		k:        k,
		radiusSq: radiusSq,
		scratch:  make([]nnCand, 0, len(pts)),
	}, nil
}

func (s *bruteNNSearch) Search(query int, out []int32) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("dist.Brute.Search: closed handle: %w", core.ErrDistSearch)
	}
	if query < 0 || query >= s.ds.PointCount() {
		return 0, fmt.Errorf("dist.Brute.Search: query %d: %w", query, core.ErrInvalidInput)
	}
	if len(out) < s.k {
		return 0, fmt.Errorf("dist.Brute.Search: out holds %d, need %d: %w", len(out), s.k, core.ErrInvalidInput)
	}

	cands := s.scratch[:0]
	for _, p := range s.points {
		sq := s.ds.SqDist(query, p)
		if s.radiusSq >= 0 && sq > s.radiusSq {
			continue
		}
		cands = append(cands, nnCand{sq: sq, p: int32(p)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].sq != cands[j].sq {
			return cands[i].sq < cands[j].sq
		}

		return cands[i].p < cands[j].p
	})
	count := s.k
	if len(cands) < count {
		count = len(cands)
	}
	for i := 0; i < count; i++ {
		out[i] = cands[i].p
	}

	return count, nil
}

func (s *bruteNNSearch) Close() error {
	s.closed = true
	s.scratch = nil

	return nil
}
