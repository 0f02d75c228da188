// Batched NNG clustering: candidates are processed in fixed-size windows,
// each window queried and seeded before the next one is touched, which
// bounds peak memory to the window instead of the full k-NN digraph. The
// result honors the same size constraint as the unbatched path but the
// clusters are not guaranteed identical.
package nng

import (
	"fmt"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/digraph"
	"github.com/jendov/capclust/dist"
)

// clusterBatch implements Cluster for BatchSize > 0. Validation has already
// pinned the seed method to SeedLexical and ruled out type constraints.
func clusterBatch(ds *core.DataSet, searcher dist.Searcher, opts Options) (*core.Clustering, error) {
	n := ds.PointCount()
	k := opts.SizeConstraint
	cands, isPrimary, err := primarySet(n, opts.PrimaryPoints)
	if err != nil {
		return nil, err
	}

	nn, err := searcher.NewNNSearch(ds, k, opts.SeedRadius, cands)
	if err != nil {
		return nil, fmt.Errorf("nng: open batched k-NN search: %w", err)
	}
	defer nn.Close()

	labels := make([]core.Label, n)
	for i := range labels {
		labels[i] = core.Unassigned
	}

	// Window-local seed formation. Lexical order within the window against
	// the global label state reproduces the greedy selection rule: a point
	// seeds a cluster exactly when its whole k-NN set is still unlabeled.
	var seeds []int32
	queries := make([][]int32, 0, opts.BatchSize)
	buf := make([]int32, k)
	next := core.Label(0)
	for lo := 0; lo < len(cands); lo += opts.BatchSize {
		hi := lo + opts.BatchSize
		if hi > len(cands) {
			hi = len(cands)
		}
		window := cands[lo:hi]

		queries = queries[:0]
		for _, p := range window {
			if labels[p] != core.Unassigned {
				queries = append(queries, nil)

				continue
			}
			count, err := nn.Search(p, buf)
			if err != nil {
				return nil, fmt.Errorf("nng: batched query for point %d: %w", p, err)
			}
			if count < k {
				return nil, fmt.Errorf("nng: point %d has %d of %d required neighbors within the seed radius: %w",
					p, count, k, core.ErrNoSolution)
			}
			ensureSelf(buf[:count], int32(p))
			heads := make([]int32, count)
			copy(heads, buf[:count])
			queries = append(queries, heads)
		}

		for i, p := range window {
			heads := queries[i]
			if heads == nil || labels[p] != core.Unassigned {
				continue
			}
			free := true
			for _, h := range heads {
				if labels[h] != core.Unassigned {
					free = false

					break
				}
			}
			if !free {
				continue
			}
			for _, h := range heads {
				labels[h] = next
			}
			seeds = append(seeds, int32(p))
			next++
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("nng.Cluster: no admissible seed: %w", core.ErrNoSolution)
	}

	// The assignment passes of the unbatched path. AssignAnyNeighbor was
	// rejected in validation (the digraph it walks is never materialized
	// here), so the arcless placeholder is never consulted.
	empty, err := digraph.NewEmpty(n, 0)
	if err != nil {
		return nil, err
	}
	primary := make([]int, 0, len(cands))
	secondary := make([]int, 0, n-len(cands))
	for p := 0; p < n; p++ {
		if isPrimary[p] {
			primary = append(primary, p)
		} else {
			secondary = append(secondary, p)
		}
	}
	if err := assignPass(ds, searcher, empty, labels, primary, opts.PrimaryMethod, opts.PrimaryRadius, seeds); err != nil {
		return nil, err
	}
	if err := assignPass(ds, searcher, empty, labels, secondary, opts.SecondaryMethod, opts.SecondaryRadius, seeds); err != nil {
		return nil, err
	}

	cl, err := core.NewClusteringFromLabels(labels, len(seeds), false)
	if err != nil {
		return nil, err
	}
	cl.Normalize()

	return cl, nil
}
