// This file declares the index and label domains, their limits, the
// sentinel errors, and the numeric error kinds used by foreign bindings.
package core

import (
	"errors"
	"math"
)

// Label is a cluster label. Legal values are Unassigned or [0, NumClusters).
type Label = int32

// ArcIndex counts arcs in a digraph. Unsigned so that the full 32-bit range
// is available without doubling the memory of tail-pointer arrays.
type ArcIndex = uint32

// TypeLabel tags a point with its type for typed size constraints.
type TypeLabel = uint16

const (
	// Unassigned is the label of a point that belongs to no cluster.
	Unassigned Label = -1

	// MaxPointCount bounds the number of points in a DataSet.
	MaxPointCount = math.MaxInt32

	// MaxLabel bounds cluster labels.
	MaxLabel = math.MaxInt32

	// MaxArcCount bounds the number of arcs in a digraph.
	MaxArcCount = math.MaxUint32

	// MaxTypeLabel bounds type labels.
	MaxTypeLabel = math.MaxUint16
)

// Sentinel errors shared by all capclust packages. Engine packages wrap
// these with fmt.Errorf("...: %w", err) to add context; callers test with
// errors.Is.
var (
	// ErrNilInput indicates a required pointer or slice argument was nil.
	ErrNilInput = errors.New("capclust: nil input")

	// ErrInvalidInput indicates a malformed argument: wrong shape, value out
	// of range, or inconsistent lengths.
	ErrInvalidInput = errors.New("capclust: invalid input")

	// ErrNoSolution indicates the size or type constraints cannot be met
	// with the given data, radii and methods.
	ErrNoSolution = errors.New("capclust: no solution satisfying constraints")

	// ErrDistSearch indicates a distance-search backend failed a query.
	ErrDistSearch = errors.New("capclust: distance search failed")

	// ErrNotImplemented indicates the requested capability is unavailable.
	ErrNotImplemented = errors.New("capclust: not implemented")

	// ErrTooLarge indicates the problem exceeds an index-domain limit.
	ErrTooLarge = errors.New("capclust: problem too large")
)

// Kind is a stable numeric error code for foreign bindings. Go callers
// should use errors.Is against the sentinels instead.
type Kind int

// Kind codes. The values are part of the binding ABI and must not change.
const (
	KindOK Kind = iota
	KindOutOfMemory
	KindNilInput
	KindInvalidInput
	KindNoSolution
	KindDistSearch
	KindNotImplemented
	KindTooLarge
)

// KindOf maps an error returned by any capclust operation to its Kind.
// A nil error is KindOK. Errors from outside the library map to
// KindDistSearch when wrapped by a backend and KindInvalidInput otherwise.
// KindOutOfMemory is never produced: Go allocation failure does not return.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrNilInput):
		return KindNilInput
	case errors.Is(err, ErrNoSolution):
		return KindNoSolution
	case errors.Is(err, ErrDistSearch):
		return KindDistSearch
	case errors.Is(err, ErrNotImplemented):
		return KindNotImplemented
	case errors.Is(err, ErrTooLarge):
		return KindTooLarge
	default:
		return KindInvalidInput
	}
}
