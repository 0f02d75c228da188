package dist_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
)

// randomDataSet draws n points in m dimensions from a fixed-seed generator
// so every run sees the same coordinates.
func randomDataSet(t *testing.T, n, m int, seed int64) *core.DataSet {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	coords := make([]float64, n*m)
	for i := range coords {
		coords[i] = r.Float64() * 100
	}
	ds, err := core.NewDataSet(coords, n, m)
	require.NoError(t, err)

	return ds
}

// searchAll runs a k-NN query for every point and returns the flattened
// result rows.
func searchAll(t *testing.T, s dist.Searcher, ds *core.DataSet, k int, radius float64, pts []int) [][]int32 {
	t.Helper()
	nn, err := s.NewNNSearch(ds, k, radius, pts)
	require.NoError(t, err)
	defer nn.Close()

	rows := make([][]int32, ds.PointCount())
	buf := make([]int32, k)
	for q := 0; q < ds.PointCount(); q++ {
		count, err := nn.Search(q, buf)
		require.NoError(t, err)
		rows[q] = append([]int32(nil), buf[:count]...)
	}

	return rows
}

func TestKDTree_MatchesBruteExactly(t *testing.T) {
	ds := randomDataSet(t, 200, 3, 42)
	pts := make([]int, 200)
	for i := range pts {
		pts[i] = i
	}

	for _, k := range []int{1, 2, 5, 17} {
		brute := searchAll(t, dist.Brute{}, ds, k, 0, pts)
		tree := searchAll(t, dist.NewKDTree(), ds, k, 0, pts)
		assert.Equal(t, brute, tree, "k=%d", k)
	}
}

func TestKDTree_MatchesBruteWithRadius(t *testing.T) {
	ds := randomDataSet(t, 150, 2, 7)
	pts := make([]int, 150)
	for i := range pts {
		pts[i] = i
	}

	brute := searchAll(t, dist.Brute{}, ds, 4, 15.0, pts)
	tree := searchAll(t, dist.NewKDTree(), ds, 4, 15.0, pts)
	assert.Equal(t, brute, tree)
}

func TestKDTree_BDSplitsMatchBrute(t *testing.T) {
	// Heavily clustered data, where midpoint splits differ most from
	// median splits; results must still be exact.
	r := rand.New(rand.NewSource(99))
	coords := make([]float64, 0, 240*2)
	for c := 0; c < 3; c++ {
		cx, cy := float64(c*1000), float64(c*-500)
		for i := 0; i < 80; i++ {
			coords = append(coords, cx+r.Float64(), cy+r.Float64())
		}
	}
	ds, err := core.NewDataSet(coords, 240, 2)
	require.NoError(t, err)
	pts := make([]int, 240)
	for i := range pts {
		pts[i] = i
	}

	brute := searchAll(t, dist.Brute{}, ds, 6, 0, pts)
	tree := searchAll(t, dist.NewKDTree(dist.WithBDTree(), dist.WithLeafSize(4)), ds, 6, 0, pts)
	assert.Equal(t, brute, tree)
}

func TestKDTree_SubsetSearchSet(t *testing.T) {
	ds := randomDataSet(t, 100, 2, 3)
	sub := make([]int, 0, 50)
	for i := 0; i < 100; i += 2 {
		sub = append(sub, i)
	}

	brute := searchAll(t, dist.Brute{}, ds, 3, 0, sub)
	tree := searchAll(t, dist.NewKDTree(), ds, 3, 0, sub)
	assert.Equal(t, brute, tree)
}

func TestKDTree_CoincidentPoints(t *testing.T) {
	// All points identical: ties everywhere, resolved by index.
	coords := make([]float64, 20*2)
	ds, err := core.NewDataSet(coords, 20, 2)
	require.NoError(t, err)
	pts := make([]int, 20)
	for i := range pts {
		pts[i] = i
	}

	tree := searchAll(t, dist.NewKDTree(dist.WithLeafSize(2)), ds, 3, 0, pts)
	for q := range tree {
		assert.Equal(t, []int32{0, 1, 2}, tree[q])
	}
}

func TestKDTree_EpsClamp(t *testing.T) {
	// A negative eps clamps to exact search.
	ds := randomDataSet(t, 60, 2, 11)
	pts := make([]int, 60)
	for i := range pts {
		pts[i] = i
	}
	brute := searchAll(t, dist.Brute{}, ds, 2, 0, pts)
	tree := searchAll(t, dist.NewKDTree(dist.WithEps(-1)), ds, 2, 0, pts)
	assert.Equal(t, brute, tree)
}
