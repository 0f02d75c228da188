package hierarchy_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
	"github.com/jendov/capclust/hierarchy"
)

// clusterSizes tallies members per label.
func clusterSizes(cl *core.Clustering) []int {
	sizes := make([]int, cl.NumClusters())
	for p := 0; p < cl.PointCount(); p++ {
		if l := cl.Label(p); l != core.Unassigned {
			sizes[l]++
		}
	}

	return sizes
}

func TestCluster_TwoFarColumns(t *testing.T) {
	// Eight points: a column at x=0 and a column at x=100, size 2.
	coords := make([]float64, 0, 16)
	for y := 0; y < 4; y++ {
		coords = append(coords, 0, float64(y))
	}
	for y := 0; y < 4; y++ {
		coords = append(coords, 100, float64(y))
	}
	ds, err := core.NewDataSet(coords, 8, 2)
	require.NoError(t, err)

	cl, err := hierarchy.Cluster(ds, dist.Brute{}, 2, hierarchy.Options{})
	require.NoError(t, err)
	require.NoError(t, cl.Validate())
	assert.Equal(t, 4, cl.NumClusters())
	for _, s := range clusterSizes(cl) {
		assert.Equal(t, 2, s)
	}

	// No cluster straddles the two columns.
	for p := 0; p < 4; p++ {
		for q := 4; q < 8; q++ {
			assert.NotEqual(t, cl.Label(p), cl.Label(q))
		}
	}
}

func TestCluster_SizeBounds(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	coords := make([]float64, 2*137)
	for i := range coords {
		coords[i] = r.Float64() * 10
	}
	ds, err := core.NewDataSet(coords, 137, 2)
	require.NoError(t, err)

	for _, c := range []int{2, 3, 5, 11} {
		cl, err := hierarchy.Cluster(ds, dist.Brute{}, c, hierarchy.Options{})
		require.NoError(t, err, "constraint %d", c)
		require.NoError(t, cl.Validate())
		for label, s := range clusterSizes(cl) {
			assert.GreaterOrEqual(t, s, c, "constraint %d: cluster %d", c, label)
			assert.LessOrEqual(t, s, 2*c-1, "constraint %d: cluster %d", c, label)
		}
	}
}

func TestCluster_CoincidentPointsSplitByIndex(t *testing.T) {
	// Every point identical: the diameter probe degenerates and the split
	// falls back to index order, so the size bounds still hold.
	ds, err := core.NewDataSet(make([]float64, 12), 12, 1)
	require.NoError(t, err)

	cl, err := hierarchy.Cluster(ds, dist.Brute{}, 3, hierarchy.Options{})
	require.NoError(t, err)
	require.NoError(t, cl.Validate())
	for _, s := range clusterSizes(cl) {
		assert.GreaterOrEqual(t, s, 3)
		assert.LessOrEqual(t, s, 5)
	}
}

func TestCluster_BatchAssignCutsAtMultiples(t *testing.T) {
	// Ten collinear points with batch assignment and size 3: the first cut
	// lands on a multiple of 3, so sizes partition as 3/3/4 or similar.
	coords := make([]float64, 10)
	for i := range coords {
		coords[i] = float64(i)
	}
	ds, err := core.NewDataSet(coords, 10, 1)
	require.NoError(t, err)

	cl, err := hierarchy.Cluster(ds, dist.Brute{}, 3, hierarchy.Options{BatchAssign: true})
	require.NoError(t, err)
	require.NoError(t, cl.Validate())
	total := 0
	for _, s := range clusterSizes(cl) {
		assert.GreaterOrEqual(t, s, 3)
		assert.LessOrEqual(t, s, 5)
		total += s
	}
	assert.Equal(t, 10, total)
}

func TestCluster_RefineExisting(t *testing.T) {
	// A prior clustering with one oversized cluster: refinement splits it
	// while the small cluster passes through.
	coords := make([]float64, 12)
	for i := range coords {
		coords[i] = float64(i)
	}
	ds, err := core.NewDataSet(coords, 12, 1)
	require.NoError(t, err)

	labels := []core.Label{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	existing, err := core.NewClusteringFromLabels(labels, 2, false)
	require.NoError(t, err)

	cl, err := hierarchy.Cluster(ds, dist.Brute{}, 2, hierarchy.Options{
		Existing: existing,
		DeepCopy: true,
	})
	require.NoError(t, err)
	require.NoError(t, cl.Validate())
	assert.NotSame(t, existing, cl)
	assert.Greater(t, cl.NumClusters(), 2)
	for _, s := range clusterSizes(cl) {
		assert.GreaterOrEqual(t, s, 2)
	}
	// Points of the small original cluster stay together.
	assert.Equal(t, cl.Label(0), cl.Label(1))
	// Refinement never merges across original clusters.
	assert.NotEqual(t, cl.Label(0), cl.Label(2))

	// The in-place variant returns the existing clustering itself.
	inPlace, err := hierarchy.Cluster(ds, dist.Brute{}, 2, hierarchy.Options{
		Existing: existing,
		DeepCopy: false,
	})
	require.NoError(t, err)
	assert.Same(t, existing, inPlace)
	assert.Equal(t, cl.Labels(), inPlace.Labels())
}

func TestCluster_RefineRejectsUndersizedCluster(t *testing.T) {
	ds, err := core.NewDataSet([]float64{0, 1, 2}, 3, 1)
	require.NoError(t, err)
	existing, err := core.NewClusteringFromLabels([]core.Label{0, 1, 1}, 2, false)
	require.NoError(t, err)

	_, err = hierarchy.Cluster(ds, dist.Brute{}, 2, hierarchy.Options{Existing: existing})
	assert.ErrorIs(t, err, core.ErrNoSolution)
}

func TestCluster_InvalidArguments(t *testing.T) {
	ds, err := core.NewDataSet([]float64{0, 1}, 2, 1)
	require.NoError(t, err)

	_, err = hierarchy.Cluster(nil, dist.Brute{}, 2, hierarchy.Options{})
	assert.ErrorIs(t, err, core.ErrNilInput)

	_, err = hierarchy.Cluster(ds, dist.Brute{}, 0, hierarchy.Options{})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = hierarchy.Cluster(ds, dist.Brute{}, 3, hierarchy.Options{})
	assert.ErrorIs(t, err, core.ErrNoSolution)
}
