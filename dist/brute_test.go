package dist_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
)

// lineDataSet lays points on the x-axis at the given positions.
func lineDataSet(t *testing.T, xs ...float64) *core.DataSet {
	t.Helper()
	ds, err := core.NewDataSet(xs, len(xs), 1)
	require.NoError(t, err)

	return ds
}

func TestBrute_PairwiseDists(t *testing.T) {
	ds := lineDataSet(t, 0, 1, 5)
	got, err := dist.Brute{}.PairwiseDists(ds, []int{0, 1, 2})
	require.NoError(t, err)
	// Condensed order: (0,1), (0,2), (1,2).
	assert.Equal(t, []float64{1, 5, 4}, got)
	assert.Equal(t, 1.0, got[dist.CondensedIndex(3, 0, 1)])
	assert.Equal(t, 5.0, got[dist.CondensedIndex(3, 0, 2)])
	assert.Equal(t, 4.0, got[dist.CondensedIndex(3, 1, 2)])
}

func TestBrute_CrossDists(t *testing.T) {
	ds := lineDataSet(t, 0, 1, 5, 6)
	got, err := dist.Brute{}.CrossDists(ds, []int{0, 3}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 5, 5, 1}, got)
}

func TestBrute_NNSearch_OrderAndTies(t *testing.T) {
	// Points 1 and 2 are equidistant from point 0; the tie must resolve to
	// the lower index.
	ds, err := core.NewDataSet([]float64{
		0, 0,
		0, 2,
		2, 0,
		5, 0,
	}, 4, 2)
	require.NoError(t, err)

	nn, err := dist.Brute{}.NewNNSearch(ds, 3, 0, []int{0, 1, 2, 3})
	require.NoError(t, err)
	defer nn.Close()

	out := make([]int32, 3)
	count, err := nn.Search(0, out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []int32{0, 1, 2}, out)
}

func TestBrute_NNSearch_RadiusTruncates(t *testing.T) {
	ds := lineDataSet(t, 0, 1, 10)
	nn, err := dist.Brute{}.NewNNSearch(ds, 3, 2.0, []int{0, 1, 2})
	require.NoError(t, err)
	defer nn.Close()

	out := make([]int32, 3)
	count, err := nn.Search(0, out)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []int32{0, 1}, out[:count])
}

func TestBrute_NNSearch_SubsetSearchSet(t *testing.T) {
	ds := lineDataSet(t, 0, 1, 2, 3)
	nn, err := dist.Brute{}.NewNNSearch(ds, 1, 0, []int{2, 3})
	require.NoError(t, err)
	defer nn.Close()

	out := make([]int32, 1)
	count, err := nn.Search(0, out)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	assert.Equal(t, int32(2), out[0], "queries outside the search set resolve against it")
}

func TestBrute_NNSearch_ClosedHandle(t *testing.T) {
	ds := lineDataSet(t, 0, 1)
	nn, err := dist.Brute{}.NewNNSearch(ds, 1, 0, []int{0, 1})
	require.NoError(t, err)
	require.NoError(t, nn.Close())

	_, err = nn.Search(0, make([]int32, 1))
	assert.True(t, errors.Is(err, core.ErrDistSearch))
}

func TestBrute_MaxSearch(t *testing.T) {
	ds := lineDataSet(t, 0, 4, -3, 4)
	ms, err := dist.Brute{}.NewMaxSearch(ds, []int{0, 1, 2, 3})
	require.NoError(t, err)
	defer ms.Close()

	// Points 1 and 3 coincide at the maximum; the lower index wins.
	p, d, err := ms.Farthest(0)
	require.NoError(t, err)
	assert.Equal(t, 1, p)
	assert.Equal(t, 4.0, d)
}

func TestBrute_MaxSearch_EmptySet(t *testing.T) {
	ds := lineDataSet(t, 0)
	_, err := dist.Brute{}.NewMaxSearch(ds, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
