// Assignment of points left unlabeled after seed-cluster formation. Each
// pass works against a snapshot of the labels taken when the pass starts,
// so assignments never cascade within a pass and the result is independent
// of traversal order beyond the documented index tie-breaks.
package nng

import (
	"fmt"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/digraph"
	"github.com/jendov/capclust/dist"
)

// assignPass labels the unassigned points of pts according to method.
// labels is written in place; the snapshot of assigned points and the seed
// sequence are taken from the caller. radius only constrains
// AssignClosestSeedRadius.
func assignPass(
	ds *core.DataSet,
	searcher dist.Searcher,
	g *digraph.Digraph,
	labels []core.Label,
	pts []int,
	method AssignMethod,
	radius float64,
	seeds []int32,
) error {
	if method == AssignIgnore || len(pts) == 0 {
		return nil
	}

	todo := pending(labels, pts)
	if len(todo) == 0 {
		return nil
	}

	switch method {
	case AssignAnyNeighbor:
		return assignAnyNeighbor(g, labels, todo)
	case AssignClosestAssigned:
		return assignClosestIn(ds, searcher, labels, todo, assignedSnapshot(labels), 0)
	case AssignClosestSeed:
		return assignClosestIn(ds, searcher, labels, todo, seedPoints(seeds), 0)
	case AssignClosestSeedRadius:
		return assignClosestIn(ds, searcher, labels, todo, seedPoints(seeds), radius)
	default:
		return fmt.Errorf("nng.assignPass: method %d: %w", method, core.ErrInvalidInput)
	}
}

// pending filters pts down to the still-unassigned ones, preserving index
// order.
func pending(labels []core.Label, pts []int) []int {
	out := make([]int, 0, len(pts))
	for _, p := range pts {
		if labels[p] == core.Unassigned {
			out = append(out, p)
		}
	}

	return out
}

// assignedSnapshot returns every currently labeled point in index order.
func assignedSnapshot(labels []core.Label) []int {
	var out []int
	for p, l := range labels {
		if l != core.Unassigned {
			out = append(out, p)
		}
	}

	return out
}

// seedPoints widens the seed sequence to plain point ids in seed order.
func seedPoints(seeds []int32) []int {
	out := make([]int, len(seeds))
	for i, s := range seeds {
		out[i] = int(s)
	}

	return out
}

// assignAnyNeighbor labels each pending point with the cluster of its
// lowest-index labeled out-neighbor in the k-NN digraph. Points with no
// labeled neighbor stay unassigned.
func assignAnyNeighbor(g *digraph.Digraph, labels []core.Label, pending []int) error {
	snapshot := make([]core.Label, len(labels))
	copy(snapshot, labels)
	for _, p := range pending {
		best := int32(-1)
		for _, h := range g.Heads(p) {
			if snapshot[h] != core.Unassigned && (best < 0 || h < best) {
				best = h
			}
		}
		if best >= 0 {
			labels[p] = snapshot[best]
		}
	}

	return nil
}

// assignClosestIn labels each pending point with the cluster of its nearest
// point in targets, optionally constrained by radius (0 = unbounded).
// Targets must be labeled when the pass starts.
func assignClosestIn(
	ds *core.DataSet,
	searcher dist.Searcher,
	labels []core.Label,
	pending []int,
	targets []int,
	radius float64,
) error {
	if len(targets) == 0 {
		return nil
	}
	snapshot := make([]core.Label, len(labels))
	copy(snapshot, labels)

	nn, err := searcher.NewNNSearch(ds, 1, radius, targets)
	if err != nil {
		return fmt.Errorf("nng: open assignment search: %w", err)
	}
	defer nn.Close()

	var buf [1]int32
	for _, p := range pending {
		count, err := nn.Search(p, buf[:])
		if err != nil {
			return fmt.Errorf("nng: assignment query for point %d: %w", p, err)
		}
		if count == 1 {
			labels[p] = snapshot[buf[0]]
		}
	}

	return nil
}
