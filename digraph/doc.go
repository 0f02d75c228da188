// Package digraph implements the compact directed graph used by the
// nearest-neighbor-graph clustering pipeline: a CSR (compressed sparse row)
// layout with a tail-pointer array into a flat head array.
//
// Arc counts use the unsigned 32-bit core.ArcIndex domain, point ids the
// signed core point domain; keeping the two apart halves the memory of the
// tail-pointer array on practical problem sizes.
//
// Operations: construction with bounds checks, multiset union with
// (tail, head) deduplication, in-place difference, transpose, induced
// subgraph, and one-step adjacency union over a set of tails. Self-loops
// are legal unless the producing engine states otherwise; no ordering of
// heads within a tail is guaranteed.
package digraph
