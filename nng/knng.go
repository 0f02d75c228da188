// Construction of the k-NN digraph the pipeline seeds from. Arcs leave
// only seed-candidate vertices; every candidate's adjacency contains the
// candidate itself.
package nng

import (
	"fmt"
	"sort"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/digraph"
	"github.com/jendov/capclust/dist"
)

// buildKNNGraph queries the k nearest candidates (self included) for every
// candidate and assembles the CSR digraph over the full vertex range.
// cands must be sorted ascending; heads land in the CSR layout in tail
// order. A candidate with fewer than k neighbors inside radius is a hard
// core.ErrNoSolution: its cluster could never reach the size constraint.
func buildKNNGraph(ds *core.DataSet, searcher dist.Searcher, cands []int, k int, radius float64) (*digraph.Digraph, error) {
	n := ds.PointCount()
	if uint64(len(cands))*uint64(k) > core.MaxArcCount {
		return nil, fmt.Errorf("nng: %d candidates with k=%d: %w", len(cands), k, core.ErrTooLarge)
	}

	nn, err := searcher.NewNNSearch(ds, k, radius, cands)
	if err != nil {
		return nil, fmt.Errorf("nng: open k-NN search: %w", err)
	}
	defer nn.Close()

	g, err := digraph.NewEmpty(n, len(cands)*k)
	if err != nil {
		return nil, err
	}
	buf := make([]int32, k)
	for _, p := range cands {
		count, err := nn.Search(p, buf)
		if err != nil {
			return nil, fmt.Errorf("nng: k-NN query for point %d: %w", p, err)
		}
		if count < k {
			return nil, fmt.Errorf("nng: point %d has %d of %d required neighbors within the seed radius: %w",
				p, count, k, core.ErrNoSolution)
		}
		ensureSelf(buf[:count], int32(p))
		g.Head = append(g.Head, buf[:count]...)
		g.TailPtr[p+1] = core.ArcIndex(count)
	}
	accumulateTails(g)

	return g, nil
}

// ensureSelf guarantees p appears in its own adjacency: when enough
// coincident lower-index points crowd it out, the farthest result gives way.
func ensureSelf(heads []int32, p int32) {
	for _, h := range heads {
		if h == p {
			return
		}
	}
	heads[len(heads)-1] = p
}

// accumulateTails turns per-tail counts stored at TailPtr[v+1] into the
// running CSR offsets. Heads must already be appended tail by tail in
// ascending tail order.
func accumulateTails(g *digraph.Digraph) {
	for v := 0; v < g.VertexCount(); v++ {
		g.TailPtr[v+1] += g.TailPtr[v]
	}
}

// typedNeighborPlan holds the per-type and overall k-NN handles the typed
// build queries for every candidate.
type typedNeighborPlan struct {
	perType []dist.NNSearch // indexed by type label, nil when MinPerType is 0
	overall dist.NNSearch
}

func (tp *typedNeighborPlan) close() {
	for _, s := range tp.perType {
		if s != nil {
			_ = s.Close()
		}
	}
	if tp.overall != nil {
		_ = tp.overall.Close()
	}
}

// buildTypedKNNGraph assembles the typed adjacency: for every candidate
// (cands sorted ascending), the MinPerType[t] nearest candidates of each
// constrained type, filled up with the overall nearest candidates until
// kTotal members (self included).
// Candidates that cannot satisfy the minima inside the radius are not
// failed but marked inadmissible; the caller excludes them from seeding.
func buildTypedKNNGraph(
	ds *core.DataSet,
	searcher dist.Searcher,
	cands []int,
	types []core.TypeLabel,
	tc *TypeConstraints,
	kTotal int,
	radius float64,
) (*digraph.Digraph, []bool, error) {
	n := ds.PointCount()
	if uint64(len(cands))*uint64(kTotal) > core.MaxArcCount {
		return nil, nil, fmt.Errorf("nng: %d candidates with k=%d: %w", len(cands), kTotal, core.ErrTooLarge)
	}

	plan := &typedNeighborPlan{perType: make([]dist.NNSearch, len(tc.MinPerType))}
	defer plan.close()
	for t, min := range tc.MinPerType {
		if min == 0 {
			continue
		}
		var ofType []int
		for _, p := range cands {
			if int(types[p]) == t {
				ofType = append(ofType, p)
			}
		}
		if len(ofType) < min {
			// No cluster can ever satisfy this type: nothing is admissible.
			return nil, nil, fmt.Errorf("nng: %d candidates of type %d, %d required per cluster: %w",
				len(ofType), t, min, core.ErrNoSolution)
		}
		s, err := searcher.NewNNSearch(ds, min, radius, ofType)
		if err != nil {
			return nil, nil, fmt.Errorf("nng: open type-%d search: %w", t, err)
		}
		plan.perType[t] = s
	}
	overall, err := searcher.NewNNSearch(ds, kTotal, radius, cands)
	if err != nil {
		return nil, nil, fmt.Errorf("nng: open overall search: %w", err)
	}
	plan.overall = overall

	g, err := digraph.NewEmpty(n, len(cands)*kTotal)
	if err != nil {
		return nil, nil, err
	}
	inadmissible := make([]bool, n)
	for v := range inadmissible {
		inadmissible[v] = true
	}

	buf := make([]int32, kTotal)
	var adj []int32
	seen := make(map[int32]struct{}, kTotal)
	for _, p := range cands {
		adj = adj[:0]
		clear(seen)
		ok := true

		for t, s := range plan.perType {
			if s == nil {
				continue
			}
			count, err := s.Search(p, buf)
			if err != nil {
				return nil, nil, fmt.Errorf("nng: type-%d query for point %d: %w", t, p, err)
			}
			if count < tc.MinPerType[t] {
				ok = false

				break
			}
			for _, h := range buf[:count] {
				if _, dup := seen[h]; !dup {
					seen[h] = struct{}{}
					adj = append(adj, h)
				}
			}
		}
		if ok && len(adj) < kTotal {
			count, err := plan.overall.Search(p, buf)
			if err != nil {
				return nil, nil, fmt.Errorf("nng: overall query for point %d: %w", p, err)
			}
			for _, h := range buf[:count] {
				if len(adj) == kTotal {
					break
				}
				if _, dup := seen[h]; !dup {
					seen[h] = struct{}{}
					adj = append(adj, h)
				}
			}
			if len(adj) < kTotal {
				ok = false
			}
		}
		if !ok {
			// Underfilled: p keeps no arcs and may not seed a cluster.
			g.TailPtr[p+1] = 0

			continue
		}
		if _, dup := seen[int32(p)]; !dup {
			replaceForSelf(ds, p, adj, types, tc.MinPerType)
		}
		inadmissible[p] = false
		g.Head = append(g.Head, adj...)
		g.TailPtr[p+1] = core.ArcIndex(len(adj))
	}
	accumulateTails(g)

	return g, inadmissible, nil
}

// replaceForSelf swaps one adjacency member for p itself without breaking
// the per-type minima. The victim is the farthest member (ties by higher
// index) whose removal keeps every constrained type at its minimum; p's own
// type is always safe because p replaces the loss.
func replaceForSelf(ds *core.DataSet, p int, adj []int32, types []core.TypeLabel, minPerType []int) {
	counts := make(map[core.TypeLabel]int, len(minPerType))
	for _, h := range adj {
		counts[types[h]]++
	}
	selfType := types[p]

	pos := make([]int, len(adj))
	for i := range pos {
		pos[i] = i
	}
	sort.Slice(pos, func(a, b int) bool {
		da, db := ds.SqDist(p, int(adj[pos[a]])), ds.SqDist(p, int(adj[pos[b]]))
		if da != db {
			return da > db
		}

		return adj[pos[a]] > adj[pos[b]]
	})
	for _, i := range pos {
		t := types[adj[i]]
		min := 0
		if int(t) < len(minPerType) {
			min = minPerType[t]
		}
		if t == selfType || counts[t] > min {
			adj[i] = int32(p)

			return
		}
	}
	// Every member is pinned by a foreign minimum; give up the farthest.
	adj[pos[0]] = int32(p)
}
