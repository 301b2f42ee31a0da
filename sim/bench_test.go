package sim_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/sim"
)

// benchChain builds a linear chain of n stages, stage n-1 facing demand.
func benchChain(b *testing.B, n int) *network.Network {
	b.Helper()
	stages := make([]network.Stage, n)
	arcs := make([]network.Arc, 0, n-1)
	for i := 0; i < n; i++ {
		stages[i] = network.Stage{
			ID:            fmt.Sprintf("S%d", i),
			HoldingCost:   float64(i + 1),
			BackorderCost: 10 * float64(i+1),
			SafetyFactor:  1.65,
			Capacity:      1000,
			LeadTime:      1 + i%3,
		}
		if i > 0 {
			arcs = append(arcs, network.Arc{Child: stages[i-1].ID, Parent: stages[i].ID, Units: 1, Allocation: 1})
		}
	}
	stages[n-1].MeanDemand = 100
	stages[n-1].DemandStd = 20
	net, err := network.New(stages, arcs)
	if err != nil {
		b.Fatal(err)
	}

	return net
}

// BenchmarkRun_Chain5 measures one optimizer-sized call: 10 samples × 100 periods.
func BenchmarkRun_Chain5(b *testing.B) {
	net := benchChain(b, 5)
	sc, err := demand.Generate(net, 10, 100, 1)
	if err != nil {
		b.Fatal(err)
	}
	s, err := sim.New(net, sc, sim.WithWorkers(1), sim.WithoutTrajectories())
	if err != nil {
		b.Fatal(err)
	}
	p := sim.Policy{BaseStock: net.InitialBaseStock()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Run(p)
	}
}

// BenchmarkRun_Chain20_Parallel spreads 256 samples over 4 workers.
func BenchmarkRun_Chain20_Parallel(b *testing.B) {
	net := benchChain(b, 20)
	sc, err := demand.Generate(net, 256, 100, 1)
	if err != nil {
		b.Fatal(err)
	}
	s, err := sim.New(net, sc, sim.WithWorkers(4), sim.WithoutTrajectories())
	if err != nil {
		b.Fatal(err)
	}
	p := sim.Policy{BaseStock: net.InitialBaseStock()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Run(p)
	}
}
