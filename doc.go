// Package capclust clusters data points under hard minimum-size
// constraints: every cluster the engines emit holds at least the number of
// members you ask for, optionally with per-type minima on top.
//
// Two engines share one set of value types and one distance abstraction:
//
//	core/      — DataSet, Clustering, label domains, sentinel errors
//	digraph/   — the CSR digraph behind the k-NN pipeline
//	dist/      — distance search: exact Brute and spatial KDTree backends
//	nng/       — seed-anchored clustering on a k-nearest-neighbor digraph
//	hierarchy/ — divisive clustering along approximate diameter axes
//	stats/     — constraint checking and clustering statistics
//
// A minimal run:
//
//	ds, _ := core.NewDataSet(coords, n, 2)
//	cl, err := nng.Cluster(ds, dist.Brute{}, nng.DefaultOptions())
//
// Everything is deterministic against the Brute backend: identical inputs
// give bit-identical labelings. The engines are single-threaded and
// allocate per call; values never share hidden state, so independent runs
// may proceed in parallel on separate inputs.
package capclust
