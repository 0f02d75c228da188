// This file declares the seed and assignment method enums, type
// constraints, and the Options struct for the NNG pipeline.
package nng

import (
	"github.com/jendov/capclust/core"
)

// SeedMethod selects the order in which vertices are inspected for seed
// selection. The integer codes are stable and part of the binding ABI.
type SeedMethod int

const (
	// SeedLexical inspects vertices by ascending point index.
	SeedLexical SeedMethod = iota

	// SeedInwards inspects by ascending in-degree in the k-NN digraph,
	// computed once; ties by point index.
	SeedInwards

	// SeedInwardsUpdating inspects by ascending in-degree counted over the
	// still-admissible vertices, updated after every selection.
	SeedInwardsUpdating

	// SeedExclusion inspects by ascending exclusion count (how many
	// vertices selecting this one would remove), computed once.
	SeedExclusion

	// SeedExclusionUpdating inspects by ascending exclusion count over the
	// still-admissible vertices, updated as selections exclude vertices.
	SeedExclusionUpdating
)

// valid reports whether m is a declared SeedMethod.
func (m SeedMethod) valid() bool {
	return m >= SeedLexical && m <= SeedExclusionUpdating
}

// AssignMethod selects how points left unlabeled after seed-cluster
// formation are assigned. The integer codes are stable.
type AssignMethod int

const (
	// AssignIgnore leaves the point unassigned.
	AssignIgnore AssignMethod = iota

	// AssignAnyNeighbor assigns to the cluster of the lowest-index labeled
	// out-neighbor in the k-NN digraph, if any.
	AssignAnyNeighbor

	// AssignClosestAssigned assigns to the cluster of the nearest point
	// already labeled when the pass starts: the seed-cluster members, and in
	// the secondary pass also the points the primary pass assigned.
	AssignClosestAssigned

	// AssignClosestSeed assigns to the cluster whose seed is nearest.
	AssignClosestSeed

	// AssignClosestSeedRadius assigns to the cluster whose seed is nearest,
	// but only when that seed lies within the pass radius.
	AssignClosestSeedRadius
)

// valid reports whether m is a declared AssignMethod.
func (m AssignMethod) valid() bool {
	return m >= AssignIgnore && m <= AssignClosestSeedRadius
}

// TypeConstraints adds per-type minimum membership to the size constraint.
type TypeConstraints struct {
	// MinPerType holds the minimum number of members of type t every
	// cluster must contain, indexed by type label. Types past the end of
	// the slice have no minimum.
	MinPerType []int

	// TotalMin is the minimum total cluster size; when non-zero it must be
	// at least the sum of MinPerType, and 0 means that sum.
	TotalMin int
}

// Options configures one NNG clustering run. The zero value is not
// meaningful; start from DefaultOptions.
type Options struct {
	// SizeConstraint is the minimum size of every non-empty cluster.
	// Must be >= 1; without TypeConstraints the value 1 short-circuits to
	// singleton clusters.
	SizeConstraint int

	// SeedMethod picks the seed-selection ordering. Default:
	// SeedExclusionUpdating.
	SeedMethod SeedMethod

	// PrimaryPoints restricts seed candidates and mandatory assignment to
	// these points; nil means every point. Points outside the set form the
	// secondary set.
	PrimaryPoints []int

	// PrimaryMethod assigns primary points left unlabeled after
	// seed-cluster formation. Default: AssignClosestSeed.
	PrimaryMethod AssignMethod

	// SecondaryMethod assigns secondary points. Default: AssignIgnore.
	SecondaryMethod AssignMethod

	// SeedRadius bounds the k-NN build; 0 means unbounded. An unreachable
	// k-NN set inside the radius is core.ErrNoSolution (untyped) or marks
	// the candidate inadmissible (typed).
	SeedRadius float64

	// PrimaryRadius bounds AssignClosestSeedRadius in the primary pass;
	// 0 means unbounded.
	PrimaryRadius float64

	// SecondaryRadius bounds AssignClosestSeedRadius in the secondary pass;
	// 0 means unbounded.
	SecondaryRadius float64

	// TypeLabels tags each point for typed constraints; required when
	// TypeConstraints is set, ignored otherwise.
	TypeLabels []core.TypeLabel

	// TypeConstraints enables the typed variant.
	TypeConstraints *TypeConstraints

	// BatchSize > 0 enables the batched variant with windows of this many
	// candidates. Requires SeedLexical, no TypeConstraints, and assignment
	// methods other than AssignAnyNeighbor.
	BatchSize int
}

// DefaultOptions returns production defaults: size constraint 2, seeds by
// updating exclusion count, primary points assigned to the closest seed,
// secondary points ignored, unbounded radii, no types, no batching.
func DefaultOptions() Options {
	return Options{
		SizeConstraint:  2,
		SeedMethod:      SeedExclusionUpdating,
		PrimaryMethod:   AssignClosestSeed,
		SecondaryMethod: AssignIgnore,
	}
}
