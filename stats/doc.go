// Package stats validates clusterings against their constraints and
// summarizes them: per-cluster sizes, within-cluster distance aggregates,
// and between-cluster centroid distances, all computed through the
// distance-search backend.
package stats
