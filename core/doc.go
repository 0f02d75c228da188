// Package core defines the central value types of capclust: the immutable
// DataSet of points, the Clustering result object, the index and label
// domains, and the sentinel error set shared by every engine package.
//
// Design goals:
//   - Flat memory: points, labels and graphs are plain slices indexed by
//     point id; no pointers between values, no hidden copies.
//   - Determinism: every operation that orders points breaks ties by
//     ascending point index.
//   - Explicit ownership: a Clustering either owns its label buffer or
//     borrows one from the caller, and says which.
//
// Errors:
//
//	ErrNilInput       - a required pointer or slice argument is nil.
//	ErrInvalidInput   - an argument is malformed (shape, range, consistency).
//	ErrNoSolution     - the size or type constraints cannot be satisfied.
//	ErrDistSearch     - a distance-search backend failed a query.
//	ErrNotImplemented - the requested capability is not available.
//	ErrTooLarge       - the problem exceeds an index-domain limit.
//
// The numeric Kind codes mirror these sentinels for foreign bindings; see
// KindOf.
//
// Values in this package are not internally synchronized. The engines are
// single-threaded and cooperative; callers that share a DataSet or a
// Clustering across goroutines must serialize access themselves.
package core
