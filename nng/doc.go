// Package nng implements size-constrained clustering over a sparse
// k-nearest-neighbor digraph.
//
// The pipeline: build a k-NN digraph over the seed-candidate points (k is
// the size constraint, counting the point itself), select a maximal
// non-adjacent seed sequence under one of five orderings, promote each seed
// with its neighbors to a cluster, then assign the remaining primary and
// secondary points with per-pass methods and radii. Per-type minimum
// constraints and a bounded-memory batched variant are supported.
//
// Every ordering and assignment breaks ties by ascending point index, so a
// run against the deterministic dist.Brute backend is reproducible
// bit-for-bit.
//
// Errors wrap the core sentinels: core.ErrInvalidInput for malformed
// arguments, core.ErrNoSolution when the constraints cannot be met within
// the given radii, core.ErrDistSearch when a backend query fails.
package nng
