package nng_test

import (
	"fmt"

	"github.com/jendov/capclust/core"
	"github.com/jendov/capclust/dist"
	"github.com/jendov/capclust/nng"
)

// ExampleCluster partitions two tight pairs of points under a minimum
// cluster size of two.
func ExampleCluster() {
	coords := []float64{
		0, 0,
		0, 1,
		10, 0,
		10, 1,
	}
	ds, err := core.NewDataSet(coords, 4, 2)
	if err != nil {
		panic(err)
	}

	opts := nng.DefaultOptions()
	opts.SizeConstraint = 2
	opts.SeedMethod = nng.SeedLexical
	opts.PrimaryMethod = nng.AssignAnyNeighbor

	cl, err := nng.Cluster(ds, dist.Brute{}, opts)
	if err != nil {
		panic(err)
	}
	fmt.Println(cl.NumClusters(), cl.Labels())
	// Output: 2 [0 0 1 1]
}
