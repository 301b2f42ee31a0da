package optimize_test

import (
	"fmt"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/optimize"
)

// ExampleOptimizeScenario walks a single shop from S=150 down to the level
// that exactly covers a flat demand of 100 per period.
func ExampleOptimizeScenario() {
	net, err := network.New([]network.Stage{
		{ID: "shop", MeanDemand: 100, HoldingCost: 1, BackorderCost: 10, Capacity: 1000, LeadTime: 1},
	}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sc, err := demand.FromSeries(net, 1, []float64{100, 100, 100, 100, 100, 100})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	opts := optimize.DefaultOptions()
	opts.Algorithm = optimize.SGD
	opts.LearningRate = 10
	opts.MaxIter = 8
	opts.InitialLevels = []float64{150}

	res, err := optimize.OptimizeScenario(net, sc, opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("status=%s best=%.0f cost=%.1f\n", res.Status, res.BestLevels[0], res.BestCost)

	// Output:
	// status=max_iter_reached best=100 cost=0.0
}

// ExampleNewOneCycle prints the warm-up and annealing halves of a short cycle.
func ExampleNewOneCycle() {
	s, err := optimize.NewOneCycle(6, 1, optimize.DefaultMomentumRange())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for t := 0; t < s.Len(); t++ {
		lr, mom := s.At(t)
		fmt.Printf("%d lr=%.2f mom=%.3f\n", t, lr, mom)
	}

	// Output:
	// 0 lr=0.04 mom=0.950
	// 1 lr=0.52 mom=0.900
	// 2 lr=1.00 mom=0.850
	// 3 lr=1.00 mom=0.850
	// 4 lr=0.50 mom=0.900
	// 5 lr=0.00 mom=0.950
}
