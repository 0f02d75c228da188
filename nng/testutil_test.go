package nng_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jendov/capclust/core"
)

// randomClusterInput draws n points in m dimensions from a fixed seed so
// the pipeline tests are reproducible.
func randomClusterInput(t *testing.T, n, m int, seed int64) *core.DataSet {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	coords := make([]float64, n*m)
	for i := range coords {
		coords[i] = r.Float64() * 50
	}
	ds, err := core.NewDataSet(coords, n, m)
	require.NoError(t, err)

	return ds
}
