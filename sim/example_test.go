package sim_test

import (
	"fmt"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/sim"
)

// ExampleSimulate replays a single shop holding S=150 against a flat demand
// of 100 units per period with a one-period lead time. Fifty units stay on
// the shelf every period, so the expected cost is 50·h.
func ExampleSimulate() {
	net, err := network.New([]network.Stage{
		{ID: "shop", MeanDemand: 100, HoldingCost: 2, BackorderCost: 20, Capacity: 1000, LeadTime: 1},
	}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// one series, broadcast to both samples
	series := []float64{100, 100, 100, 100, 100}
	sc, err := demand.FromSeries(net, 2, series)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := sim.Simulate(net, sc, sim.Policy{BaseStock: []float64{150}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("cost=%.1f gradient=%.1f\n", res.Cost, res.Gradient[0])

	// Output:
	// cost=100.0 gradient=2.0
}
