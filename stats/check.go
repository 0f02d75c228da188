package stats

import (
	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/nng"
)

// CheckClustering reports whether cl satisfies the given constraints:
// well-formed dense labels, every non-empty cluster at least
// sizeConstraint members, per-type minima when typeConstraints is set
// (typeLabels then must cover every point), and every point of
// primaryPoints assigned. A nil clustering fails.
func CheckClustering(
	cl *core.Clustering,
	sizeConstraint int,
	typeLabels []core.TypeLabel,
	typeConstraints *nng.TypeConstraints,
	primaryPoints []int,
) bool {
	if cl == nil || sizeConstraint < 1 || cl.Validate() != nil {
		return false
	}
	n := cl.PointCount()
	k := cl.NumClusters()

	sizes := make([]int, k)
	for p := 0; p < n; p++ {
		if l := cl.Label(p); l != core.Unassigned {
			sizes[l]++
		}
	}
	for _, s := range sizes {
		if s < sizeConstraint {
			return false
		}
	}

	if typeConstraints != nil {
		if len(typeLabels) != n {
			return false
		}
		total := typeConstraints.TotalMin
		if total == 0 {
			for _, min := range typeConstraints.MinPerType {
				total += min
			}
		}
		for _, s := range sizes {
			if s < total {
				return false
			}
		}
		counts := make([][]int, k)
		for c := range counts {
			counts[c] = make([]int, len(typeConstraints.MinPerType))
		}
		for p := 0; p < n; p++ {
			l := cl.Label(p)
			if l == core.Unassigned {
				continue
			}
			if t := int(typeLabels[p]); t < len(typeConstraints.MinPerType) {
				counts[l][t]++
			}
		}
		for c := 0; c < k; c++ {
			for t, min := range typeConstraints.MinPerType {
				if counts[c][t] < min {
					return false
				}
			}
		}
	}

	for _, p := range primaryPoints {
		if p < 0 || p >= n || cl.Label(p) == core.Unassigned {
			return false
		}
	}

	return true
}

// ClusterSizes tallies the member count of every cluster of cl.
func ClusterSizes(cl *core.Clustering) []int {
	sizes := make([]int, cl.NumClusters())
	for p := 0; p < cl.PointCount(); p++ {
		if l := cl.Label(p); l != core.Unassigned {
			sizes[l]++
		}
	}

	return sizes
}
