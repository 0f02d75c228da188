// Package hierarchy implements divisive size-constrained clustering: a
// block of points splits recursively along an approximate diameter axis
// until every leaf holds between one and two size constraints of points.
//
// The split axis comes from the classic two-round farthest-point probe: an
// arbitrary block member, the block point farthest from it, and the block
// point farthest from that. Members are ordered by the difference of their
// distances to the two endpoints and cut in half (or at a multiple of the
// size constraint with batch assignment). Coincident points degrade to an
// index-order cut through the stable tie-break, so degenerate blocks still
// split.
//
// When refining an existing clustering, each existing cluster is a root
// block; blocks already below twice the size constraint pass through
// unchanged, so only the lower size bound is guaranteed for them.
package hierarchy
