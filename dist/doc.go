// Package dist abstracts distance computation and neighbor search over a
// core.DataSet behind the Searcher interface, with two interchangeable
// backends:
//
//   - Brute: exact, deterministic selection over explicit Euclidean
//     distances. The reference backend; identical inputs always yield
//     identical results.
//   - KDTree: a spatial index with standard median splits or, with
//     WithBDTree, sliding-midpoint splits. Exact by default; WithEps trades
//     accuracy for pruning (a neighbor within a factor 1+eps of optimal may
//     be reported instead of the true one).
//
// Contracts shared by every backend:
//
//   - Distances are Euclidean: non-negative, symmetric, and satisfy the
//     triangle inequality.
//   - A k-NN query returns exactly k neighbors when at least k candidates
//     lie within the search radius (all candidates when the radius is
//     unbounded), fewer otherwise; results are ordered by ascending
//     distance with ties broken by ascending point index.
//   - A query the backend cannot satisfy wraps core.ErrDistSearch.
//
// Search handles (MaxSearch, NNSearch) hold preprocessed state over a fixed
// search-point set and answer any number of queries before Close. Handles
// are single-threaded, like the engines that use them.
package dist
