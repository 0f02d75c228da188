// Set-style operations over CSR digraphs. All operations run in O(arcs)
// with O(N) scratch and never reorder the heads they keep.
package digraph

import (
	"fmt"

	"github.com/jendov/capclust/core"
)

// Union returns the multiset union of the arc sets of graphs, deduplicated
// by (tail, head). All graphs must share the same vertex count. Union of an
// empty slice is the empty graph on zero vertices; union with an arcless
// graph is identity on the arc set.
// Complexity: O(total arcs) time, O(N) scratch.
func Union(graphs []*Digraph) (*Digraph, error) {
	if len(graphs) == 0 {
		return NewEmpty(0, 0)
	}
	n := graphs[0].VertexCount()
	var total uint64
	for i, g := range graphs {
		if g == nil {
			return nil, fmt.Errorf("digraph.Union: graphs[%d]: %w", i, core.ErrNilInput)
		}
		if g.VertexCount() != n {
			return nil, fmt.Errorf("digraph.Union: graphs[%d] has %d vertices, want %d: %w", i, g.VertexCount(), n, core.ErrInvalidInput)
		}
		total += uint64(g.ArcCount())
	}
	if total > core.MaxArcCount {
		return nil, fmt.Errorf("digraph.Union: %d arcs before dedup: %w", total, core.ErrTooLarge)
	}

	out := &Digraph{
		TailPtr: make([]core.ArcIndex, n+1),
		Head:    make([]int32, 0, total),
	}
	// mark[h] == v+1 records that head h was already emitted for tail v.
	mark := make([]int32, n)
	for v := 0; v < n; v++ {
		for _, g := range graphs {
			for _, h := range g.Heads(v) {
				if mark[h] == int32(v)+1 {
					continue
				}
				mark[h] = int32(v) + 1
				out.Head = append(out.Head, h)
			}
		}
		out.TailPtr[v+1] = core.ArcIndex(len(out.Head))
	}

	return out, nil
}

// DifferenceInPlace removes from g every arc that is also present in
// subtract. Both graphs must share the vertex count; subtract is read-only.
// Complexity: O(arcs of both) time, O(N) scratch.
func DifferenceInPlace(g, subtract *Digraph) error {
	if g == nil || subtract == nil {
		return fmt.Errorf("digraph.DifferenceInPlace: %w", core.ErrNilInput)
	}
	n := g.VertexCount()
	if subtract.VertexCount() != n {
		return fmt.Errorf("digraph.DifferenceInPlace: %d vs %d vertices: %w", n, subtract.VertexCount(), core.ErrInvalidInput)
	}

	mark := make([]int32, n)
	var write core.ArcIndex
	for v := 0; v < n; v++ {
		for _, h := range subtract.Heads(v) {
			mark[h] = int32(v) + 1
		}
		start := g.TailPtr[v]
		g.TailPtr[v] = write
		for _, h := range g.Head[start:g.TailPtr[v+1]] {
			if mark[h] != int32(v)+1 {
				g.Head[write] = h
				write++
			}
		}
	}
	g.TailPtr[n] = write
	g.Head = g.Head[:write]

	return nil
}

// Transpose returns a digraph with every arc of g reversed.
// Complexity: O(n + arcs).
func Transpose(g *Digraph) (*Digraph, error) {
	if g == nil {
		return nil, fmt.Errorf("digraph.Transpose: %w", core.ErrNilInput)
	}
	n := g.VertexCount()
	arcs := g.ArcCount()
	out := &Digraph{
		TailPtr: make([]core.ArcIndex, n+1),
		Head:    make([]int32, arcs),
	}
	for _, h := range g.Head[:arcs] {
		out.TailPtr[h+1]++
	}
	for v := 0; v < n; v++ {
		out.TailPtr[v+1] += out.TailPtr[v]
	}
	cursor := make([]core.ArcIndex, n)
	copy(cursor, out.TailPtr[:n])
	for v := 0; v < n; v++ {
		for _, h := range g.Heads(v) {
			out.Head[cursor[h]] = int32(v)
			cursor[h]++
		}
	}

	return out, nil
}

// InducedSubgraph returns the subgraph of g induced by the vertices with
// keep[v] == true: the same vertex set with only the arcs whose tail and
// head are both kept. Complexity: O(n + arcs).
func InducedSubgraph(g *Digraph, keep []bool) (*Digraph, error) {
	if g == nil || keep == nil {
		return nil, fmt.Errorf("digraph.InducedSubgraph: %w", core.ErrNilInput)
	}
	n := g.VertexCount()
	if len(keep) != n {
		return nil, fmt.Errorf("digraph.InducedSubgraph: len(keep)=%d, want %d: %w", len(keep), n, core.ErrInvalidInput)
	}

	out := &Digraph{
		TailPtr: make([]core.ArcIndex, n+1),
		Head:    make([]int32, 0, g.ArcCount()),
	}
	for v := 0; v < n; v++ {
		if keep[v] {
			for _, h := range g.Heads(v) {
				if keep[h] {
					out.Head = append(out.Head, h)
				}
			}
		}
		out.TailPtr[v+1] = core.ArcIndex(len(out.Head))
	}

	return out, nil
}

// AdjacencyUnionOfRows returns a bitmap of every head reachable in one step
// from any of the supplied tails. Complexity: O(len(tails) heads) time,
// O(N) result.
func AdjacencyUnionOfRows(g *Digraph, tails []int) ([]bool, error) {
	if g == nil {
		return nil, fmt.Errorf("digraph.AdjacencyUnionOfRows: %w", core.ErrNilInput)
	}
	n := g.VertexCount()
	set := make([]bool, n)
	for _, v := range tails {
		if v < 0 || v >= n {
			return nil, fmt.Errorf("digraph.AdjacencyUnionOfRows: tail %d outside [0,%d): %w", v, n, core.ErrInvalidInput)
		}
		for _, h := range g.Heads(v) {
			set[h] = true
		}
	}

	return set, nil
}
