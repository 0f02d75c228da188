// Seed selection over the symmetric k-NN digraph. A vertex is selected as
// a seed when it and all of its out-neighbors are still admissible;
// selecting it makes the whole out-neighborhood inadmissible, so no two
// seeds ever share an out-neighbor.
package nng

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/digraph"
)

// FindSeeds returns the seed sequence of g under the given ordering. Every
// vertex starts admissible; on a graph with no arcs every vertex therefore
// becomes a seed, in index order. Ties in every ordering break by ascending
// point index.
func FindSeeds(g *digraph.Digraph, method SeedMethod) ([]int32, error) {
	if g == nil {
		return nil, fmt.Errorf("nng.FindSeeds: %w", core.ErrNilInput)
	}
	if !method.valid() {
		return nil, fmt.Errorf("nng.FindSeeds: method %d: %w", method, core.ErrInvalidInput)
	}

	return findSeeds(g, method, make([]bool, g.VertexCount()))
}

// findSeeds runs seed selection with an initial exclusion mask. excluded is
// mutated: on return it marks every vertex removed by a selection or by the
// initial mask.
func findSeeds(g *digraph.Digraph, method SeedMethod, excluded []bool) ([]int32, error) {
	switch method {
	case SeedLexical:
		return seedsLexical(g, excluded), nil
	case SeedInwards:
		return seedsInwards(g, excluded, false), nil
	case SeedInwardsUpdating:
		return seedsInwards(g, excluded, true), nil
	case SeedExclusion:
		return seedsExclusion(g, excluded, false)
	case SeedExclusionUpdating:
		return seedsExclusion(g, excluded, true)
	default:
		return nil, fmt.Errorf("nng.findSeeds: method %d: %w", method, core.ErrInvalidInput)
	}
}

// selectable reports whether v and its whole out-neighborhood are
// admissible.
func selectable(g *digraph.Digraph, excluded []bool, v int) bool {
	if excluded[v] {
		return false
	}
	for _, h := range g.Heads(v) {
		if excluded[h] {
			return false
		}
	}

	return true
}

// take marks v and its out-neighborhood excluded.
func take(g *digraph.Digraph, excluded []bool, v int) {
	excluded[v] = true
	for _, h := range g.Heads(v) {
		excluded[h] = true
	}
}

func seedsLexical(g *digraph.Digraph, excluded []bool) []int32 {
	n := g.VertexCount()
	var seeds []int32
	for v := 0; v < n; v++ {
		if selectable(g, excluded, v) {
			seeds = append(seeds, int32(v))
			take(g, excluded, v)
		}
	}

	return seeds
}

// inDegrees counts arcs into each vertex.
func inDegrees(g *digraph.Digraph) []int32 {
	deg := make([]int32, g.VertexCount())
	for _, h := range g.Head[:g.ArcCount()] {
		deg[h]++
	}

	return deg
}

// keyVertex orders a heap by (key, vertex) ascending.
type keyVertex struct {
	key int32
	v   int32
}

type keyHeap []keyVertex

func (h keyHeap) Len() int { return len(h) }
func (h keyHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}

	return h[i].v < h[j].v
}
func (h keyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *keyHeap) Push(x interface{}) { *h = append(*h, x.(keyVertex)) }
func (h *keyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// seedsInwards selects by ascending in-degree. In the updating variant the
// in-degree counts only arcs from still-admissible vertices: whenever a
// vertex is excluded, its out-arcs stop counting. Stale heap entries are
// re-pushed with their current key, which keeps the order exact without a
// decrease-key primitive.
func seedsInwards(g *digraph.Digraph, excluded []bool, updating bool) []int32 {
	n := g.VertexCount()
	deg := inDegrees(g)

	if !updating {
		order := make([]int32, n)
		for v := range order {
			order[v] = int32(v)
		}
		sort.Slice(order, func(i, j int) bool {
			if deg[order[i]] != deg[order[j]] {
				return deg[order[i]] < deg[order[j]]
			}

			return order[i] < order[j]
		})
		var seeds []int32
		for _, v := range order {
			if selectable(g, excluded, int(v)) {
				seeds = append(seeds, v)
				take(g, excluded, int(v))
			}
		}

		return seeds
	}

	h := make(keyHeap, 0, n)
	for v := 0; v < n; v++ {
		if !excluded[v] {
			h = append(h, keyVertex{key: deg[v], v: int32(v)})
		}
	}
	heap.Init(&h)

	// Keys only decrease, so every key change pushes a fresh entry and pops
	// drop entries whose stored key no longer matches. The heap top with a
	// matching key is therefore the exact current minimum.
	var seeds []int32
	for h.Len() > 0 {
		top := heap.Pop(&h).(keyVertex)
		v := int(top.v)
		if excluded[v] || top.key != deg[v] {
			continue
		}
		if !selectable(g, excluded, v) {
			continue
		}
		seeds = append(seeds, top.v)
		for _, w := range markTaken(g, excluded, v) {
			for _, u := range g.Heads(int(w)) {
				deg[u]--
				if !excluded[u] {
					heap.Push(&h, keyVertex{key: deg[u], v: u})
				}
			}
		}
	}

	return seeds
}

// markTaken excludes v and its out-neighbors and returns the vertices that
// changed state.
func markTaken(g *digraph.Digraph, excluded []bool, v int) []int32 {
	var changed []int32
	if !excluded[v] {
		excluded[v] = true
		changed = append(changed, int32(v))
	}
	for _, h := range g.Heads(v) {
		if !excluded[h] {
			excluded[h] = true
			changed = append(changed, h)
		}
	}

	return changed
}

// exclusionCounter computes, for a vertex v, how many still-admissible
// vertices selecting v would remove: v itself, its out-neighbors, and every
// vertex with an out-arc into that set.
type exclusionCounter struct {
	g     *digraph.Digraph
	tr    *digraph.Digraph
	mark  []int64
	epoch int64
}

func newExclusionCounter(g *digraph.Digraph) (*exclusionCounter, error) {
	tr, err := digraph.Transpose(g)
	if err != nil {
		return nil, err
	}

	return &exclusionCounter{g: g, tr: tr, mark: make([]int64, g.VertexCount())}, nil
}

// count returns the exclusion count of v over the admissible vertices.
func (c *exclusionCounter) count(excluded []bool, v int) int32 {
	c.epoch++
	var n int32
	add := func(w int32) {
		if c.mark[w] != c.epoch && !excluded[w] {
			c.mark[w] = c.epoch
			n++
		}
	}
	add(int32(v))
	for _, h := range c.g.Heads(v) {
		add(h)
		for _, u := range c.tr.Heads(int(h)) {
			add(u)
		}
	}

	return n
}

// forAffected visits every vertex whose exclusion count may drop when w is
// excluded: the in-neighbors of w and the in-neighbors of w's out-neighbors
// (w itself is already excluded at the call site).
func (c *exclusionCounter) forAffected(w int32, fn func(int32)) {
	for _, u := range c.tr.Heads(int(w)) {
		fn(u)
	}
	for _, h := range c.g.Heads(int(w)) {
		for _, u := range c.tr.Heads(int(h)) {
			fn(u)
		}
	}
}

// seedsExclusion selects by ascending exclusion count. The static variant
// freezes the counts before any selection; the updating variant recomputes
// the counts each exclusion affects and re-pushes them, so selections
// propagate. Both break ties by index.
func seedsExclusion(g *digraph.Digraph, excluded []bool, updating bool) ([]int32, error) {
	n := g.VertexCount()
	counter, err := newExclusionCounter(g)
	if err != nil {
		return nil, err
	}

	if !updating {
		keys := make([]int32, n)
		for v := 0; v < n; v++ {
			keys[v] = counter.count(excluded, v)
		}
		order := make([]int32, n)
		for v := range order {
			order[v] = int32(v)
		}
		sort.Slice(order, func(i, j int) bool {
			if keys[order[i]] != keys[order[j]] {
				return keys[order[i]] < keys[order[j]]
			}

			return order[i] < order[j]
		})
		var seeds []int32
		for _, v := range order {
			if selectable(g, excluded, int(v)) {
				seeds = append(seeds, v)
				take(g, excluded, int(v))
			}
		}

		return seeds, nil
	}

	key := make([]int32, n)
	h := make(keyHeap, 0, n)
	for v := 0; v < n; v++ {
		if !excluded[v] {
			key[v] = counter.count(excluded, v)
			h = append(h, keyVertex{key: key[v], v: int32(v)})
		}
	}
	heap.Init(&h)

	// Exclusion counts only decrease. Excluding w lowers the count of every
	// vertex whose removal set contains w: w itself, the in-neighbors of w,
	// and the in-neighbors of the out-neighbors of w. Those recompute and
	// re-push eagerly; stale heap entries are dropped at pop time.
	var seeds []int32
	for h.Len() > 0 {
		top := heap.Pop(&h).(keyVertex)
		v := int(top.v)
		if excluded[v] || top.key != key[v] {
			continue
		}
		if !selectable(g, excluded, v) {
			continue
		}
		seeds = append(seeds, top.v)
		for _, w := range markTaken(g, excluded, v) {
			counter.forAffected(w, func(a int32) {
				if excluded[a] {
					return
				}
				cur := counter.count(excluded, int(a))
				if cur != key[a] {
					key[a] = cur
					heap.Push(&h, keyVertex{key: cur, v: a})
				}
			})
		}
	}

	return seeds, nil
}
