// This file declares the Digraph type, its constructors and validation.
package digraph

import (
	"fmt"

	"github.com/jendov/capclust/core"
)

// Digraph is a directed graph over vertices [0, N) in CSR layout.
//
// TailPtr has length N+1 and is non-decreasing; the heads of the arcs
// leaving vertex v are Head[TailPtr[v]:TailPtr[v+1]]. TailPtr[N] is the
// total arc count.
type Digraph struct {
	// TailPtr indexes Head per tail vertex; len(TailPtr) == VertexCount()+1.
	TailPtr []core.ArcIndex

	// Head holds the head vertex of each arc; len(Head) >= TailPtr[N] and
	// entries past TailPtr[N] are spare capacity.
	Head []int32
}

// NewEmpty returns a digraph of n vertices and no arcs, with room for
// capacity arcs. Returns ErrInvalidInput when n < 0 or capacity < 0,
// ErrTooLarge when n exceeds the point domain or capacity the arc domain.
func NewEmpty(n, capacity int) (*Digraph, error) {
	if n < 0 || capacity < 0 {
		return nil, fmt.Errorf("digraph.NewEmpty: n=%d, capacity=%d: %w", n, capacity, core.ErrInvalidInput)
	}
	if n > core.MaxPointCount {
		return nil, fmt.Errorf("digraph.NewEmpty: n=%d: %w", n, core.ErrTooLarge)
	}
	if uint64(capacity) > core.MaxArcCount {
		return nil, fmt.Errorf("digraph.NewEmpty: capacity=%d: %w", capacity, core.ErrTooLarge)
	}

	return &Digraph{
		TailPtr: make([]core.ArcIndex, n+1),
		Head:    make([]int32, 0, capacity),
	}, nil
}

// FromArcs builds a digraph of n vertices from parallel tail/head slices.
// Arcs may arrive in any order; duplicates are kept. Returns ErrInvalidInput
// on mismatched lengths or out-of-range endpoints, ErrTooLarge past the arc
// domain. Complexity: O(n + arcs) time via counting sort on tails.
func FromArcs(n int, tails, heads []int32) (*Digraph, error) {
	if len(tails) != len(heads) {
		return nil, fmt.Errorf("digraph.FromArcs: %d tails, %d heads: %w", len(tails), len(heads), core.ErrInvalidInput)
	}
	if n < 0 || n > core.MaxPointCount {
		return nil, fmt.Errorf("digraph.FromArcs: n=%d: %w", n, core.ErrTooLarge)
	}
	if uint64(len(tails)) > core.MaxArcCount {
		return nil, fmt.Errorf("digraph.FromArcs: %d arcs: %w", len(tails), core.ErrTooLarge)
	}

	g := &Digraph{
		TailPtr: make([]core.ArcIndex, n+1),
		Head:    make([]int32, len(tails)),
	}
	for i, t := range tails {
		if t < 0 || int(t) >= n || heads[i] < 0 || int(heads[i]) >= n {
			return nil, fmt.Errorf("digraph.FromArcs: arc %d (%d->%d) outside [0,%d): %w", i, t, heads[i], n, core.ErrInvalidInput)
		}
		g.TailPtr[t+1]++
	}
	for v := 0; v < n; v++ {
		g.TailPtr[v+1] += g.TailPtr[v]
	}
	cursor := make([]core.ArcIndex, n)
	copy(cursor, g.TailPtr[:n])
	for i, t := range tails {
		g.Head[cursor[t]] = heads[i]
		cursor[t]++
	}

	return g, nil
}

// VertexCount returns N.
func (g *Digraph) VertexCount() int { return len(g.TailPtr) - 1 }

// ArcCount returns the number of arcs.
func (g *Digraph) ArcCount() int { return int(g.TailPtr[len(g.TailPtr)-1]) }

// Heads returns the out-neighbors of vertex v as a view into the head array.
func (g *Digraph) Heads(v int) []int32 {
	return g.Head[g.TailPtr[v]:g.TailPtr[v+1]]
}

// OutDegree returns the number of arcs leaving v.
func (g *Digraph) OutDegree(v int) int {
	return int(g.TailPtr[v+1] - g.TailPtr[v])
}

// Validate checks the CSR invariants: a non-nil, length-consistent
// tail-pointer array that is non-decreasing, with every head in [0, N).
// Returns ErrInvalidInput on violation. Complexity: O(n + arcs).
func (g *Digraph) Validate() error {
	if g == nil || g.TailPtr == nil {
		return fmt.Errorf("digraph.Validate: %w", core.ErrNilInput)
	}
	if len(g.TailPtr) < 1 {
		return fmt.Errorf("digraph.Validate: empty tail pointers: %w", core.ErrInvalidInput)
	}
	n := g.VertexCount()
	for v := 0; v < n; v++ {
		if g.TailPtr[v] > g.TailPtr[v+1] {
			return fmt.Errorf("digraph.Validate: TailPtr[%d] > TailPtr[%d]: %w", v, v+1, core.ErrInvalidInput)
		}
	}
	if int(g.TailPtr[n]) > len(g.Head) {
		return fmt.Errorf("digraph.Validate: arc count %d exceeds head array %d: %w", g.TailPtr[n], len(g.Head), core.ErrInvalidInput)
	}
	for _, h := range g.Head[:g.TailPtr[n]] {
		if h < 0 || int(h) >= n {
			return fmt.Errorf("digraph.Validate: head %d outside [0,%d): %w", h, n, core.ErrInvalidInput)
		}
	}

	return nil
}
