package core

import "fmt"

// Clustering assigns each of N points to one of K clusters, or to none.
// The label buffer is either owned (allocated here, freed by the garbage
// collector with the Clustering) or external (borrowed from the caller, who
// retains ownership and guarantees length N).
type Clustering struct {
	n        int
	k        int
	labels   []Label
	external bool
}

// NewClustering allocates a Clustering of n points and k clusters with every
// label initialized to Unassigned. Returns ErrInvalidInput when n < 1 or
// k < 0, ErrTooLarge when n or k exceeds the index domain.
func NewClustering(n, k int) (*Clustering, error) {
	if n < 1 || k < 0 {
		return nil, fmt.Errorf("core.NewClustering: n=%d, k=%d: %w", n, k, ErrInvalidInput)
	}
	if n > MaxPointCount || k > MaxLabel {
		return nil, fmt.Errorf("core.NewClustering: n=%d, k=%d: %w", n, k, ErrTooLarge)
	}
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Unassigned
	}

	return &Clustering{n: n, k: k, labels: labels}, nil
}

// NewClusteringFromLabels wraps an existing label buffer of length n.
// With external=true the buffer stays caller-owned and is written in place;
// otherwise the Clustering takes ownership of the slice. Labels must each be
// Unassigned or in [0, k).
func NewClusteringFromLabels(labels []Label, k int, external bool) (*Clustering, error) {
	if labels == nil {
		return nil, fmt.Errorf("core.NewClusteringFromLabels: labels: %w", ErrNilInput)
	}
	if len(labels) < 1 || k < 0 {
		return nil, fmt.Errorf("core.NewClusteringFromLabels: n=%d, k=%d: %w", len(labels), k, ErrInvalidInput)
	}
	if k > MaxLabel {
		return nil, fmt.Errorf("core.NewClusteringFromLabels: k=%d: %w", k, ErrTooLarge)
	}
	for i, l := range labels {
		if l != Unassigned && (l < 0 || int(l) >= k) {
			return nil, fmt.Errorf("core.NewClusteringFromLabels: labels[%d]=%d: %w", i, l, ErrInvalidInput)
		}
	}

	return &Clustering{n: len(labels), k: k, labels: labels, external: external}, nil
}

// PointCount returns N.
func (cl *Clustering) PointCount() int { return cl.n }

// NumClusters returns K.
func (cl *Clustering) NumClusters() int { return cl.k }

// External reports whether the label buffer is caller-owned.
func (cl *Clustering) External() bool { return cl.external }

// Label returns the label of point p.
func (cl *Clustering) Label(p int) Label { return cl.labels[p] }

// Labels returns the label buffer as a view. Engines write through it;
// external callers must treat it as read-only unless they own the buffer.
func (cl *Clustering) Labels() []Label { return cl.labels }

// SetLabel assigns label l to point p. No validation; engines call this on
// validated ids only.
func (cl *Clustering) SetLabel(p int, l Label) { cl.labels[p] = l }

// Normalize renumbers the assigned labels densely onto [0, K') in order of
// first appearance by point index, updates NumClusters, and returns K'.
// Unassigned labels are preserved. Engines may write provisional labels of
// any non-negative value through Labels before calling Normalize.
// Complexity: O(n) time, O(max label) scratch.
func (cl *Clustering) Normalize() int {
	maxLabel := Label(-1)
	for _, l := range cl.labels {
		if l > maxLabel {
			maxLabel = l
		}
	}
	remap := make([]Label, maxLabel+1)
	for i := range remap {
		remap[i] = Unassigned
	}
	var next Label
	for i, l := range cl.labels {
		if l == Unassigned {
			continue
		}
		if remap[l] == Unassigned {
			remap[l] = next
			next++
		}
		cl.labels[i] = remap[l]
	}
	cl.k = int(next)

	return cl.k
}

// Validate checks the Clustering invariants: every label is Unassigned or in
// [0, K), and every label in [0, K) occurs at least once (with K == 0 all
// labels are Unassigned). Returns ErrInvalidInput on violation.
// Complexity: O(n + k).
func (cl *Clustering) Validate() error {
	seen := make([]bool, cl.k)
	for i, l := range cl.labels {
		if l == Unassigned {
			continue
		}
		if l < 0 || int(l) >= cl.k {
			return fmt.Errorf("core.Clustering.Validate: labels[%d]=%d outside [0,%d): %w", i, l, cl.k, ErrInvalidInput)
		}
		seen[l] = true
	}
	for c, ok := range seen {
		if !ok {
			return fmt.Errorf("core.Clustering.Validate: cluster %d is empty: %w", c, ErrInvalidInput)
		}
	}

	return nil
}
