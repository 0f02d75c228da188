package nng_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/digraph"
	"github.com/jendov/capclust/nng"
)

var allSeedMethods = []nng.SeedMethod{
	nng.SeedLexical,
	nng.SeedInwards,
	nng.SeedInwardsUpdating,
	nng.SeedExclusion,
	nng.SeedExclusionUpdating,
}

func TestFindSeeds_EmptyGraphYieldsAllVertices(t *testing.T) {
	g, err := digraph.NewEmpty(5, 0)
	require.NoError(t, err)

	for _, method := range allSeedMethods {
		seeds, err := nng.FindSeeds(g, method)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 1, 2, 3, 4}, seeds, "method %d", method)
	}
}

func TestFindSeeds_NilGraph(t *testing.T) {
	_, err := nng.FindSeeds(nil, nng.SeedLexical)
	assert.Error(t, err)
}

func TestFindSeeds_InvalidMethod(t *testing.T) {
	g, err := digraph.NewEmpty(1, 0)
	require.NoError(t, err)
	_, err = nng.FindSeeds(g, nng.SeedMethod(99))
	assert.Error(t, err)
}

func TestFindSeeds_TwoCores(t *testing.T) {
	// Two symmetric pairs: {0,1} and {2,3}. Every ordering selects one
	// seed per pair, lowest index first.
	g, err := digraph.FromArcs(4,
		[]int32{0, 0, 1, 1, 2, 2, 3, 3},
		[]int32{0, 1, 1, 0, 2, 3, 3, 2})
	require.NoError(t, err)

	for _, method := range allSeedMethods {
		seeds, err := nng.FindSeeds(g, method)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 2}, seeds, "method %d", method)
	}
}

func TestFindSeeds_InwardsPrefersLowInDegree(t *testing.T) {
	// Vertex 2 has the lowest in-degree (only its self-loop); the inwards
	// orderings start there, while lexical starts at 0.
	g, err := digraph.FromArcs(3,
		[]int32{0, 0, 1, 1, 2, 2},
		[]int32{0, 1, 1, 0, 2, 1})
	require.NoError(t, err)

	lex, err := nng.FindSeeds(g, nng.SeedLexical)
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, lex)

	inw, err := nng.FindSeeds(g, nng.SeedInwards)
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, inw)
}

// randomKNNGraph builds a digraph where every vertex has k out-arcs: a
// self-loop plus k-1 distinct random heads.
func randomKNNGraph(t *testing.T, n, k int, seed int64) *digraph.Digraph {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	var tails, heads []int32
	for v := 0; v < n; v++ {
		tails = append(tails, int32(v))
		heads = append(heads, int32(v))
		used := map[int32]bool{int32(v): true}
		for len(used) < k {
			h := int32(r.Intn(n))
			if !used[h] {
				used[h] = true
				tails = append(tails, int32(v))
				heads = append(heads, h)
			}
		}
	}
	g, err := digraph.FromArcs(n, tails, heads)
	require.NoError(t, err)

	return g
}

func TestFindSeeds_SelectionInvariants(t *testing.T) {
	// On arbitrary graphs every method must produce seeds with disjoint
	// closed out-neighborhoods, and no admissible vertex may be left over.
	g := randomKNNGraph(t, 60, 4, 1234)

	for _, method := range allSeedMethods {
		seeds, err := nng.FindSeeds(g, method)
		require.NoError(t, err)
		require.NotEmpty(t, seeds, "method %d", method)

		excluded := make([]bool, g.VertexCount())
		for _, s := range seeds {
			// The seed and all its out-neighbors must still be admissible
			// at selection time.
			require.False(t, excluded[s], "method %d: seed %d already excluded", method, s)
			for _, h := range g.Heads(int(s)) {
				require.False(t, excluded[h], "method %d: seeds %v share neighbor %d", method, seeds, h)
			}
			excluded[s] = true
			for _, h := range g.Heads(int(s)) {
				excluded[h] = true
			}
		}

		// Maximality: every unexcluded vertex must have an excluded
		// out-neighbor, otherwise it should have been selected.
		for v := 0; v < g.VertexCount(); v++ {
			if excluded[v] {
				continue
			}
			blocked := false
			for _, h := range g.Heads(v) {
				if excluded[h] {
					blocked = true

					break
				}
			}
			assert.True(t, blocked, "method %d: vertex %d was admissible but never selected", method, v)
		}
	}
}
