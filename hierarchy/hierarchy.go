package hierarchy

import (
	"fmt"
	"sort"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
)

// Options configures one hierarchical clustering run.
type Options struct {
	// BatchAssign cuts blocks at multiples of the size constraint where
	// possible, instead of in half.
	BatchAssign bool

	// Existing, when non-nil, is refined: each of its clusters becomes a
	// root block. Unassigned points stay unassigned.
	Existing *core.Clustering

	// DeepCopy controls refinement ownership: true writes a fresh label
	// buffer, false relabels Existing in place and returns it.
	DeepCopy bool
}

// Cluster divides ds into clusters of at least sizeConstraint points each.
// Without an existing clustering every emitted cluster has size in
// [sizeConstraint, 2*sizeConstraint-1]; when refining, blocks smaller than
// 2*sizeConstraint pass through and only the lower bound holds for them.
// Labels are dense on [0, K).
func Cluster(ds *core.DataSet, searcher dist.Searcher, sizeConstraint int, opts Options) (*core.Clustering, error) {
	if ds == nil || searcher == nil {
		return nil, fmt.Errorf("hierarchy.Cluster: %w", core.ErrNilInput)
	}
	if !searcher.Compatible(ds) {
		return nil, fmt.Errorf("hierarchy.Cluster: backend rejects data set: %w", core.ErrInvalidInput)
	}
	n := ds.PointCount()
	if sizeConstraint < 1 {
		return nil, fmt.Errorf("hierarchy: size constraint %d: %w", sizeConstraint, core.ErrInvalidInput)
	}
	if opts.Existing == nil && sizeConstraint > n {
		return nil, fmt.Errorf("hierarchy: size constraint %d with %d points: %w", sizeConstraint, n, core.ErrNoSolution)
	}
	if opts.Existing != nil && opts.Existing.PointCount() != n {
		return nil, fmt.Errorf("hierarchy: existing clustering has %d points, data set %d: %w",
			opts.Existing.PointCount(), n, core.ErrInvalidInput)
	}

	// Root blocks: the whole point set, or the existing clusters.
	var blocks [][]int32
	if opts.Existing == nil {
		all := make([]int32, n)
		for p := range all {
			all[p] = int32(p)
		}
		blocks = [][]int32{all}
	} else {
		if err := opts.Existing.Validate(); err != nil {
			return nil, err
		}
		blocks = make([][]int32, opts.Existing.NumClusters())
		for p := 0; p < n; p++ {
			if l := opts.Existing.Label(p); l != core.Unassigned {
				blocks[l] = append(blocks[l], int32(p))
			}
		}
		for c, b := range blocks {
			if len(b) < sizeConstraint {
				return nil, fmt.Errorf("hierarchy: existing cluster %d has %d members, need %d: %w",
					c, len(b), sizeConstraint, core.ErrNoSolution)
			}
		}
	}

	splitter := &splitter{
		ds:             ds,
		searcher:       searcher,
		sizeConstraint: sizeConstraint,
		batchAssign:    opts.BatchAssign,
	}
	labels := make([]core.Label, n)
	for i := range labels {
		labels[i] = core.Unassigned
	}
	next := core.Label(0)
	for _, b := range blocks {
		var err error
		next, err = splitter.run(b, labels, next)
		if err != nil {
			return nil, err
		}
	}

	if opts.Existing != nil && !opts.DeepCopy {
		copy(opts.Existing.Labels(), labels)
		opts.Existing.Normalize()

		return opts.Existing, nil
	}
	cl, err := core.NewClusteringFromLabels(labels, int(next), false)
	if err != nil {
		return nil, err
	}
	cl.Normalize()

	return cl, nil
}

// splitter carries the per-run state of the divisive recursion.
type splitter struct {
	ds             *core.DataSet
	searcher       dist.Searcher
	sizeConstraint int
	batchAssign    bool
}

// run splits block b until every leaf is below 2*sizeConstraint, writing
// labels starting at next, and returns the next free label. An explicit
// stack replaces recursion; blocks are LIFO so memory stays proportional
// to the deepest chain.
func (s *splitter) run(b []int32, labels []core.Label, next core.Label) (core.Label, error) {
	stack := [][]int32{b}
	for len(stack) > 0 {
		blk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(blk) < 2*s.sizeConstraint {
			for _, p := range blk {
				labels[p] = next
			}
			next++

			continue
		}
		left, right, err := s.split(blk)
		if err != nil {
			return 0, err
		}
		stack = append(stack, right, left)
	}

	return next, nil
}

// split cuts blk in two along the approximate diameter axis.
func (s *splitter) split(blk []int32) ([]int32, []int32, error) {
	members := make([]int, len(blk))
	for i, p := range blk {
		members[i] = int(p)
	}

	// Two-round farthest-point probe from the first member.
	ms, err := s.searcher.NewMaxSearch(s.ds, members)
	if err != nil {
		return nil, nil, fmt.Errorf("hierarchy: open farthest-point search: %w", err)
	}
	p, _, err := ms.Farthest(members[0])
	if err != nil {
		_ = ms.Close()

		return nil, nil, fmt.Errorf("hierarchy: diameter probe: %w", err)
	}
	q, _, err := ms.Farthest(p)
	if err != nil {
		_ = ms.Close()

		return nil, nil, fmt.Errorf("hierarchy: diameter probe: %w", err)
	}
	if err := ms.Close(); err != nil {
		return nil, nil, fmt.Errorf("hierarchy: close farthest-point search: %w", err)
	}

	// Projective order: ascending dist(x,p) - dist(x,q), ties by index.
	// With p == q (every member coincident) all scores are zero and the
	// order is plain index order.
	dists, err := s.searcher.CrossDists(s.ds, []int{p, q}, members)
	if err != nil {
		return nil, nil, fmt.Errorf("hierarchy: projective distances: %w", err)
	}
	score := make([]float64, len(blk))
	for i := range blk {
		score[i] = dists[i] - dists[len(blk)+i]
	}
	order := make([]int, len(blk))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if score[order[a]] != score[order[b]] {
			return score[order[a]] < score[order[b]]
		}

		return blk[order[a]] < blk[order[b]]
	})

	cut := s.cutPoint(len(blk))
	left := make([]int32, 0, cut)
	right := make([]int32, 0, len(blk)-cut)
	for i, o := range order {
		if i < cut {
			left = append(left, blk[o])
		} else {
			right = append(right, blk[o])
		}
	}

	return left, right, nil
}

// cutPoint places the split: the floor half, or with batch assignment the
// floor half rounded down to a multiple of the size constraint, clamped so
// both sides keep at least sizeConstraint points.
func (s *splitter) cutPoint(n int) int {
	cut := n / 2
	if !s.batchAssign {
		return cut
	}
	c := s.sizeConstraint
	cut -= cut % c
	if cut < c {
		cut = c
	}
	if n-cut < c {
		cut = n - c
	}

	return cut
}
