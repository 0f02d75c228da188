package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/core"
)

func TestNewClustering_AllUnassigned(t *testing.T) {
	cl, err := core.NewClustering(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, cl.PointCount())
	assert.Equal(t, 0, cl.NumClusters())
	assert.False(t, cl.External())
	for p := 0; p < 4; p++ {
		assert.Equal(t, core.Unassigned, cl.Label(p))
	}
	assert.NoError(t, cl.Validate())
}

func TestNewClusteringFromLabels_External(t *testing.T) {
	buf := []core.Label{0, 0, 1, core.Unassigned}
	cl, err := core.NewClusteringFromLabels(buf, 2, true)
	require.NoError(t, err)
	assert.True(t, cl.External())

	// The buffer is borrowed: writes through the clustering land in it.
	cl.SetLabel(3, 1)
	assert.Equal(t, core.Label(1), buf[3])
}

func TestNewClusteringFromLabels_RejectsOutOfRange(t *testing.T) {
	_, err := core.NewClusteringFromLabels([]core.Label{0, 2}, 2, false)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = core.NewClusteringFromLabels([]core.Label{0, -2}, 2, false)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestClustering_Normalize(t *testing.T) {
	// Sparse provisional labels: 7 first seen, then 3, then 7 again.
	buf := []core.Label{7, 3, core.Unassigned, 7, 3}
	cl, err := core.NewClusteringFromLabels(buf, 8, false)
	require.NoError(t, err)

	// Labels 0..2, 4..6 are empty before Normalize, so Validate fails.
	require.Error(t, cl.Validate())

	k := cl.Normalize()
	assert.Equal(t, 2, k)
	assert.Equal(t, []core.Label{0, 1, core.Unassigned, 0, 1}, cl.Labels())
	assert.NoError(t, cl.Validate())
}

func TestClustering_ValidateEmptyCluster(t *testing.T) {
	cl, err := core.NewClusteringFromLabels([]core.Label{0, 0}, 2, false)
	require.NoError(t, err)
	assert.ErrorIs(t, cl.Validate(), core.ErrInvalidInput)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, core.KindOK, core.KindOf(nil))
	assert.Equal(t, core.KindNilInput, core.KindOf(core.ErrNilInput))
	assert.Equal(t, core.KindNoSolution, core.KindOf(core.ErrNoSolution))
	assert.Equal(t, core.KindDistSearch, core.KindOf(core.ErrDistSearch))
	assert.Equal(t, core.KindTooLarge, core.KindOf(core.ErrTooLarge))
}
