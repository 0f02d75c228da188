package stats

import (
	"fmt"
	"math"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
)

// ClusteringStats summarizes a clustering over its data set. Distance
// aggregates cover within-cluster point pairs; clusters of one member
// contribute zero to the per-cluster minima and maxima averages.
type ClusteringStats struct {
	NumPopulatedClusters int
	NumAssigned          int
	NumUnassigned        int
	MinClusterSize       int
	MaxClusterSize       int
	AvgClusterSize       float64

	// SumDists is the sum of all within-cluster pairwise distances.
	SumDists float64

	// MinDist and MaxDist are the extremes over all within-cluster pairs.
	MinDist float64
	MaxDist float64

	// AvgMinDist and AvgMaxDist average each cluster's own pairwise
	// minimum and maximum over the populated clusters.
	AvgMinDist float64
	AvgMaxDist float64

	// AvgDistWithin is the mean within-cluster pairwise distance.
	AvgDistWithin float64

	// AvgDistBetween is the mean distance between cluster centroids over
	// all populated cluster pairs.
	AvgDistBetween float64
}

// Compute enumerates every within-cluster point pair through the backend
// and aggregates the statistics. Complexity: O(sum of cluster sizes
// squared) distance evaluations plus O(n*m) for the centroids.
func Compute(ds *core.DataSet, searcher dist.Searcher, cl *core.Clustering) (*ClusteringStats, error) {
	if ds == nil || searcher == nil || cl == nil {
		return nil, fmt.Errorf("stats.Compute: %w", core.ErrNilInput)
	}
	if cl.PointCount() != ds.PointCount() {
		return nil, fmt.Errorf("stats.Compute: clustering has %d points, data set %d: %w",
			cl.PointCount(), ds.PointCount(), core.ErrInvalidInput)
	}
	if err := cl.Validate(); err != nil {
		return nil, err
	}

	n := cl.PointCount()
	k := cl.NumClusters()
	members := make([][]int, k)
	for p := 0; p < n; p++ {
		if l := cl.Label(p); l != core.Unassigned {
			members[l] = append(members[l], p)
		}
	}

	st := &ClusteringStats{
		MinDist: math.Inf(1),
	}
	var (
		pairCount  int
		minSumOver float64
		maxSumOver float64
	)
	for _, mem := range members {
		if len(mem) == 0 {
			continue
		}
		st.NumPopulatedClusters++
		st.NumAssigned += len(mem)
		if st.MinClusterSize == 0 || len(mem) < st.MinClusterSize {
			st.MinClusterSize = len(mem)
		}
		if len(mem) > st.MaxClusterSize {
			st.MaxClusterSize = len(mem)
		}
		if len(mem) < 2 {
			continue
		}
		dists, err := searcher.PairwiseDists(ds, mem)
		if err != nil {
			return nil, fmt.Errorf("stats.Compute: pairwise distances: %w", err)
		}
		cMin, cMax := math.Inf(1), math.Inf(-1)
		for _, d := range dists {
			st.SumDists += d
			if d < cMin {
				cMin = d
			}
			if d > cMax {
				cMax = d
			}
		}
		pairCount += len(dists)
		minSumOver += cMin
		maxSumOver += cMax
		if cMin < st.MinDist {
			st.MinDist = cMin
		}
		if cMax > st.MaxDist {
			st.MaxDist = cMax
		}
	}
	st.NumUnassigned = n - st.NumAssigned
	if st.NumPopulatedClusters > 0 {
		st.AvgClusterSize = float64(st.NumAssigned) / float64(st.NumPopulatedClusters)
		st.AvgMinDist = minSumOver / float64(st.NumPopulatedClusters)
		st.AvgMaxDist = maxSumOver / float64(st.NumPopulatedClusters)
	}
	if pairCount > 0 {
		st.AvgDistWithin = st.SumDists / float64(pairCount)
	}
	if math.IsInf(st.MinDist, 1) {
		st.MinDist = 0
	}

	st.AvgDistBetween = avgCentroidDist(ds, members)

	return st, nil
}

// avgCentroidDist averages the Euclidean distance between the centroids of
// every pair of populated clusters. Zero when fewer than two clusters are
// populated.
func avgCentroidDist(ds *core.DataSet, members [][]int) float64 {
	m := ds.Dims()
	var centroids [][]float64
	for _, mem := range members {
		if len(mem) == 0 {
			continue
		}
		c := make([]float64, m)
		for _, p := range mem {
			row := ds.Point(p)
			for d := 0; d < m; d++ {
				c[d] += row[d]
			}
		}
		for d := 0; d < m; d++ {
			c[d] /= float64(len(mem))
		}
		centroids = append(centroids, c)
	}
	if len(centroids) < 2 {
		return 0
	}

	var sum float64
	var pairs int
	for i := 0; i < len(centroids); i++ {
		for j := i + 1; j < len(centroids); j++ {
			var acc float64
			for d := 0; d < m; d++ {
				diff := centroids[i][d] - centroids[j][d]
				acc += diff * diff
			}
			sum += math.Sqrt(acc)
			pairs++
		}
	}

	return sum / float64(pairs)
}
