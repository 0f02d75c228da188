package dist

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"github.com/jendov/capclust/core"
)

// Default construction knobs.
const (
	// DefaultLeafSize is the bucket size at or below which tree nodes stop
	// splitting.
	DefaultLeafSize = 8
)

// KDTree is the spatial-index backend. Matrix and farthest-point queries
// stay exact scans; k-NN queries run on a per-handle tree built over the
// search set.
//
// With Eps == 0 (the default) results are exact and identical to Brute,
// including tie-breaks. With Eps > 0 a reported neighbor may be up to a
// factor 1+Eps farther than the true one.
type KDTree struct {
	eps      float64
	bd       bool
	leafSize int
}

// Option configures a KDTree at construction.
type Option func(*KDTree)

// WithEps sets the approximation factor for k-NN pruning. Negative values
// are clamped to 0.
func WithEps(eps float64) Option {
	return func(t *KDTree) {
		if eps < 0 {
			eps = 0
		}
		t.eps = eps
	}
}

// WithBDTree switches node splitting from median splits to sliding-midpoint
// splits, which bound cell aspect ratios on clustered data.
func WithBDTree() Option {
	return func(t *KDTree) { t.bd = true }
}

// WithLeafSize sets the leaf bucket size. Values below 1 are clamped to 1.
func WithLeafSize(n int) Option {
	return func(t *KDTree) {
		if n < 1 {
			n = 1
		}
		t.leafSize = n
	}
}

// NewKDTree returns a KDTree backend with the given options applied.
func NewKDTree(opts ...Option) *KDTree {
	t := &KDTree{leafSize: DefaultLeafSize}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Compatible reports true for any well-formed data set.
func (t *KDTree) Compatible(ds *core.DataSet) bool { return ds != nil }

// PairwiseDists computes exact distances; the tree is not consulted.
func (t *KDTree) PairwiseDists(ds *core.DataSet, points []int) ([]float64, error) {
	return Brute{}.PairwiseDists(ds, points)
}

// CrossDists computes exact distances; the tree is not consulted.
func (t *KDTree) CrossDists(ds *core.DataSet, rows, cols []int) ([]float64, error) {
	return Brute{}.CrossDists(ds, rows, cols)
}

// NewMaxSearch prepares farthest-point queries. Maximum queries prune
// poorly on kd-trees, so the handle scans; the scan is exact and
// deterministic.
func (t *KDTree) NewMaxSearch(ds *core.DataSet, searchPoints []int) (MaxSearch, error) {
	return Brute{}.NewMaxSearch(ds, searchPoints)
}

// kdNode is one node of the search tree. Leaves hold index ranges into the
// handle's point permutation; internal nodes split on one dimension.
type kdNode struct {
	splitDim int
	splitVal float64
	lo, hi   int // leaf: range into perm; internal: unused
	left     *kdNode
	right    *kdNode
}

func (nd *kdNode) leaf() bool { return nd.left == nil && nd.right == nil }

// kdNNSearch is the k-NN handle over one search set.
type kdNNSearch struct {
	ds       *core.DataSet
	k        int
	radiusSq float64 // negative when unbounded
	pruneMul float64 // 1/(1+eps)^2 applied to the worst candidate
	perm     []int32 // search points, permuted by the build
	root     *kdNode
	best     candHeap
	off      []float64 // per-dimension offset of the current cell bound
	closed   bool
}

// NewNNSearch builds a tree over searchPoints and returns the query handle.
func (t *KDTree) NewNNSearch(ds *core.DataSet, k int, radius float64, searchPoints []int) (NNSearch, error) {
	if err := validateSearchArgs(ds, searchPoints); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("dist.KDTree.NewNNSearch: k=%d: %w", k, core.ErrInvalidInput)
	}
	radiusSq := -1.0
	if radius > 0 {
		radiusSq = radius * radius
	}
	perm := make([]int32, len(searchPoints))
	for i, p := range searchPoints {
		perm[i] = int32(p)
	}

	s := &kdNNSearch{
		ds:       ds,
		k:        k,
		radiusSq: radiusSq,
		pruneMul: 1 / ((1 + t.eps) * (1 + t.eps)),
		perm:     perm,
		best:     make(candHeap, 0, k),
		off:      make([]float64, ds.Dims()),
	}
	if len(perm) > 0 {
		s.root = t.build(ds, perm, 0, len(perm))
	}

	return s, nil
}

// build constructs the subtree over perm[lo:hi].
func (t *KDTree) build(ds *core.DataSet, perm []int32, lo, hi int) *kdNode {
	if hi-lo <= t.leafSize {
		return &kdNode{lo: lo, hi: hi}
	}

	// Widest-spread dimension, computed over the actual points.
	m := ds.Dims()
	dim, spread := 0, -1.0
	var minV, maxV float64
	for d := 0; d < m; d++ {
		minD, maxD := math.Inf(1), math.Inf(-1)
		for _, p := range perm[lo:hi] {
			v := ds.Coord(int(p), d)
			if v < minD {
				minD = v
			}
			if v > maxD {
				maxD = v
			}
		}
		if maxD-minD > spread {
			dim, spread = d, maxD-minD
			minV, maxV = minD, maxD
		}
	}
	if spread == 0 {
		// All points coincide on every dimension: one leaf.
		return &kdNode{lo: lo, hi: hi}
	}

	sub := perm[lo:hi]
	var mid int
	var splitVal float64
	if t.bd {
		// Sliding midpoint: cut at the bounds midpoint, slide a degenerate
		// cut to keep both sides populated.
		splitVal = (minV + maxV) / 2
		mid = partitionBelow(ds, sub, dim, splitVal)
		if mid == 0 || mid == len(sub) {
			sortByDim(ds, sub, dim)
			mid = len(sub) / 2
			splitVal = ds.Coord(int(sub[mid]), dim)
		}
	} else {
		sortByDim(ds, sub, dim)
		mid = len(sub) / 2
		splitVal = ds.Coord(int(sub[mid]), dim)
	}

	nd := &kdNode{splitDim: dim, splitVal: splitVal}
	nd.left = t.build(ds, perm, lo, lo+mid)
	nd.right = t.build(ds, perm, lo+mid, hi)

	return nd
}

// sortByDim orders sub by coordinate on dim, ties by point index.
func sortByDim(ds *core.DataSet, sub []int32, dim int) {
	sort.Slice(sub, func(i, j int) bool {
		vi, vj := ds.Coord(int(sub[i]), dim), ds.Coord(int(sub[j]), dim)
		if vi != vj {
			return vi < vj
		}

		return sub[i] < sub[j]
	})
}

// partitionBelow moves points with coordinate < cut before the returned
// index, preserving determinism by a final per-side index sort not being
// required (the leaves re-scan candidates exactly).
func partitionBelow(ds *core.DataSet, sub []int32, dim int, cut float64) int {
	lo, hi := 0, len(sub)
	for lo < hi {
		if ds.Coord(int(sub[lo]), dim) < cut {
			lo++
		} else {
			hi--
			sub[lo], sub[hi] = sub[hi], sub[lo]
		}
	}

	return lo
}

// candHeap is a max-heap of the current k best candidates ordered by
// (squared distance, point index) descending at the root.
type candHeap []nnCand

func (h candHeap) Len() int { return len(h) }
func (h candHeap) Less(i, j int) bool {
	if h[i].sq != h[j].sq {
		return h[i].sq > h[j].sq
	}

	return h[i].p > h[j].p
}
func (h candHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candHeap) Push(x interface{}) { *h = append(*h, x.(nnCand)) }
func (h *candHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

func (s *kdNNSearch) Search(query int, out []int32) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("dist.KDTree.Search: closed handle: %w", core.ErrDistSearch)
	}
	if query < 0 || query >= s.ds.PointCount() {
		return 0, fmt.Errorf("dist.KDTree.Search: query %d: %w", query, core.ErrInvalidInput)
	}
	if len(out) < s.k {
		return 0, fmt.Errorf("dist.KDTree.Search: out holds %d, need %d: %w", len(out), s.k, core.ErrInvalidInput)
	}

	s.best = s.best[:0]
	for d := range s.off {
		s.off[d] = 0
	}
	if s.root != nil {
		s.visit(s.root, query, 0)
	}

	// Extract in ascending (distance, index) order.
	count := len(s.best)
	for i := count - 1; i >= 0; i-- {
		out[i] = heap.Pop(&s.best).(nnCand).p
	}

	return count, nil
}

// visit descends the subtree, nearer child first. cellSq is a lower bound
// on the squared distance from the query to the node's region.
func (s *kdNNSearch) visit(nd *kdNode, query int, cellSq float64) {
	if s.radiusSq >= 0 && cellSq > s.radiusSq {
		return
	}
	if len(s.best) == s.k && cellSq > s.best[0].sq*s.pruneMul {
		return
	}

	if nd.leaf() {
		for _, p := range s.perm[nd.lo:nd.hi] {
			sq := s.ds.SqDist(query, int(p))
			if s.radiusSq >= 0 && sq > s.radiusSq {
				continue
			}
			cand := nnCand{sq: sq, p: p}
			if len(s.best) < s.k {
				heap.Push(&s.best, cand)
			} else if cand.sq < s.best[0].sq || (cand.sq == s.best[0].sq && cand.p < s.best[0].p) {
				s.best[0] = cand
				heap.Fix(&s.best, 0)
			}
		}

		return
	}

	diff := s.ds.Coord(query, nd.splitDim) - nd.splitVal
	near, far := nd.left, nd.right
	if diff >= 0 {
		near, far = nd.right, nd.left
	}
	s.visit(near, query, cellSq)

	// Reduced-distance update: replace this dimension's offset in the cell
	// bound before entering the far child, restore on the way out.
	old := s.off[nd.splitDim]
	farSq := cellSq - old*old + diff*diff
	s.off[nd.splitDim] = diff
	s.visit(far, query, farSq)
	s.off[nd.splitDim] = old
}

func (s *kdNNSearch) Close() error {
	s.closed = true
	s.root = nil
	s.perm = nil
	s.best = nil

	return nil
}
