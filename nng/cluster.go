// Top-level NNG clustering pipeline: validate, build the k-NN digraph,
// select seeds, form seed clusters, assign the rest, renumber.
package nng

import (
	"fmt"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/digraph"
	"github.com/jendov/capclust/dist"
)

// Cluster partitions ds under the size constraint of opts and returns a
// clustering whose every non-empty cluster has at least SizeConstraint
// members (and satisfies the per-type minima when TypeConstraints is set).
// Labels are dense on [0, K). The output buffer is owned by the clustering;
// nothing is published on error.
//
// Identical inputs against the deterministic dist.Brute backend produce
// bit-identical label arrays.
func Cluster(ds *core.DataSet, searcher dist.Searcher, opts Options) (*core.Clustering, error) {
	if ds == nil || searcher == nil {
		return nil, fmt.Errorf("nng.Cluster: %w", core.ErrNilInput)
	}
	if !searcher.Compatible(ds) {
		return nil, fmt.Errorf("nng.Cluster: backend rejects data set: %w", core.ErrInvalidInput)
	}
	if err := validateOptions(ds, &opts); err != nil {
		return nil, err
	}

	n := ds.PointCount()
	if opts.SizeConstraint == 1 && opts.TypeConstraints == nil {
		return singletons(n)
	}
	if opts.BatchSize > 0 {
		return clusterBatch(ds, searcher, opts)
	}

	cands, isPrimary, err := primarySet(n, opts.PrimaryPoints)
	if err != nil {
		return nil, err
	}

	var (
		g            *digraph.Digraph
		inadmissible []bool
	)
	if opts.TypeConstraints != nil {
		kTotal := effectiveTotalMin(opts.SizeConstraint, opts.TypeConstraints)
		g, inadmissible, err = buildTypedKNNGraph(ds, searcher, cands, opts.TypeLabels, opts.TypeConstraints, kTotal, opts.SeedRadius)
	} else {
		g, err = buildKNNGraph(ds, searcher, cands, opts.SizeConstraint, opts.SeedRadius)
		if err == nil {
			inadmissible = make([]bool, n)
			for v := range inadmissible {
				inadmissible[v] = !isPrimary[v]
			}
		}
	}
	if err != nil {
		return nil, err
	}

	seeds, err := findSeeds(g, opts.SeedMethod, inadmissible)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("nng.Cluster: no admissible seed: %w", core.ErrNoSolution)
	}

	labels := make([]core.Label, n)
	for i := range labels {
		labels[i] = core.Unassigned
	}
	formSeedClusters(g, seeds, labels)

	primary := make([]int, 0, len(cands))
	secondary := make([]int, 0, n-len(cands))
	for p := 0; p < n; p++ {
		if isPrimary[p] {
			primary = append(primary, p)
		} else {
			secondary = append(secondary, p)
		}
	}
	if err := assignPass(ds, searcher, g, labels, primary, opts.PrimaryMethod, opts.PrimaryRadius, seeds); err != nil {
		return nil, err
	}
	if err := assignPass(ds, searcher, g, labels, secondary, opts.SecondaryMethod, opts.SecondaryRadius, seeds); err != nil {
		return nil, err
	}

	cl, err := core.NewClusteringFromLabels(labels, len(seeds), false)
	if err != nil {
		return nil, err
	}
	cl.Normalize()

	return cl, nil
}

// formSeedClusters gives each seed and its out-neighborhood a fresh label
// in seed order.
func formSeedClusters(g *digraph.Digraph, seeds []int32, labels []core.Label) {
	for c, s := range seeds {
		labels[s] = core.Label(c)
		for _, h := range g.Heads(int(s)) {
			labels[h] = core.Label(c)
		}
	}
}

// singletons implements the trivial size-1 constraint: every point is its
// own cluster.
func singletons(n int) (*core.Clustering, error) {
	labels := make([]core.Label, n)
	for i := range labels {
		labels[i] = core.Label(i)
	}

	return core.NewClusteringFromLabels(labels, n, false)
}

// primarySet normalizes the primary-point specification into a sorted,
// deduplicated candidate list and a membership mask. nil means every point.
func primarySet(n int, pts []int) ([]int, []bool, error) {
	mask := make([]bool, n)
	if pts == nil {
		cands := make([]int, n)
		for p := range cands {
			cands[p] = p
			mask[p] = true
		}

		return cands, mask, nil
	}

	for _, p := range pts {
		if p < 0 || p >= n {
			return nil, nil, fmt.Errorf("nng: primary point %d outside [0,%d): %w", p, n, core.ErrInvalidInput)
		}
		mask[p] = true
	}
	cands := make([]int, 0, len(pts))
	for p := 0; p < n; p++ {
		if mask[p] {
			cands = append(cands, p)
		}
	}
	if len(cands) == 0 {
		return nil, nil, fmt.Errorf("nng: empty primary set: %w", core.ErrInvalidInput)
	}

	return cands, mask, nil
}

// validateOptions rejects malformed arguments before any allocation of
// consequence. It leaves opts unchanged; effectiveTotalMin resolves the
// typed TotalMin default.
func validateOptions(ds *core.DataSet, opts *Options) error {
	n := ds.PointCount()
	if opts.SizeConstraint < 1 {
		return fmt.Errorf("nng: size constraint %d: %w", opts.SizeConstraint, core.ErrInvalidInput)
	}
	if opts.SizeConstraint > n {
		return fmt.Errorf("nng: size constraint %d with %d points: %w", opts.SizeConstraint, n, core.ErrNoSolution)
	}
	if !opts.SeedMethod.valid() {
		return fmt.Errorf("nng: seed method %d: %w", opts.SeedMethod, core.ErrInvalidInput)
	}
	if !opts.PrimaryMethod.valid() || !opts.SecondaryMethod.valid() {
		return fmt.Errorf("nng: assignment method %d/%d: %w", opts.PrimaryMethod, opts.SecondaryMethod, core.ErrInvalidInput)
	}
	if opts.SeedRadius < 0 || opts.PrimaryRadius < 0 || opts.SecondaryRadius < 0 {
		return fmt.Errorf("nng: negative radius: %w", core.ErrInvalidInput)
	}
	if opts.BatchSize < 0 {
		return fmt.Errorf("nng: batch size %d: %w", opts.BatchSize, core.ErrInvalidInput)
	}
	if opts.BatchSize > 0 {
		if opts.SeedMethod != SeedLexical {
			return fmt.Errorf("nng: batching requires lexical seeds: %w", core.ErrInvalidInput)
		}
		if opts.TypeConstraints != nil {
			return fmt.Errorf("nng: batching with type constraints: %w", core.ErrInvalidInput)
		}
		if opts.PrimaryMethod == AssignAnyNeighbor || opts.SecondaryMethod == AssignAnyNeighbor {
			return fmt.Errorf("nng: batching does not materialize the digraph AssignAnyNeighbor needs: %w", core.ErrInvalidInput)
		}
	}

	tc := opts.TypeConstraints
	if tc == nil {
		return nil
	}
	if len(opts.TypeLabels) != n {
		return fmt.Errorf("nng: %d type labels for %d points: %w", len(opts.TypeLabels), n, core.ErrInvalidInput)
	}
	if len(tc.MinPerType) > core.MaxTypeLabel+1 {
		return fmt.Errorf("nng: %d type minima: %w", len(tc.MinPerType), core.ErrTooLarge)
	}
	sum := 0
	for t, min := range tc.MinPerType {
		if min < 0 {
			return fmt.Errorf("nng: negative minimum for type %d: %w", t, core.ErrInvalidInput)
		}
		sum += min
	}
	if tc.TotalMin != 0 && tc.TotalMin < sum {
		return fmt.Errorf("nng: total minimum %d below per-type sum %d: %w", tc.TotalMin, sum, core.ErrInvalidInput)
	}
	if tc.TotalMin == 0 && sum == 0 {
		return fmt.Errorf("nng: empty type constraints: %w", core.ErrInvalidInput)
	}

	return nil
}

// effectiveTotalMin resolves the typed total: an unset TotalMin defaults to
// the per-type sum, and the cluster size can never drop below the untyped
// size constraint.
func effectiveTotalMin(sizeConstraint int, tc *TypeConstraints) int {
	total := tc.TotalMin
	if total == 0 {
		for _, min := range tc.MinPerType {
			total += min
		}
	}
	if sizeConstraint > total {
		total = sizeConstraint
	}

	return total
}
