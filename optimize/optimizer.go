// File: optimizer.go
// Role: the stateful single-step primitive shared by Optimize, the range test
//       and the One-Cycle driver.
// Determinism:
//   - The scenario is fixed at construction, so the same levels always
//     evaluate to the same cost and gradient.
// Concurrency:
//   - Not safe for concurrent use; simulations themselves fan out over the
//     simulator's worker pool.

package optimize

import (
	"fmt"
	"math"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/sim"
)

// Optimizer owns one decision vector and the state of its update rule.
type Optimizer struct {
	net    *network.Network
	sim    *sim.Simulator
	opts   Options
	rule   rule
	levels []float64
	iter   int // evaluations performed
	steps  int // updates applied

	bestCost   float64
	bestLevels []float64
	bestTraj   *sim.Trajectories
}

// New builds an Optimizer over a fixed scenario.
//
// Steps:
//  1. Validate opts.
//  2. Build the simulator (trajectories on, so the best snapshot carries them).
//  3. Warm-start from opts.InitialLevels or net.InitialBaseStock().
//
// Returns ErrNilNetwork, ErrBadOptions, ErrUnknownAlgorithm, or a sim error
// for a scenario that does not fit the network.
func New(net *network.Network, sc *demand.Scenario, opts Options) (*Optimizer, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n := net.Len()
	if opts.InitialLevels != nil && len(opts.InitialLevels) != n {
		return nil, fmt.Errorf("%w: InitialLevels has %d entries, want %d", ErrBadOptions, len(opts.InitialLevels), n)
	}

	var simOpts []sim.Option
	if opts.Workers > 0 {
		simOpts = append(simOpts, sim.WithWorkers(opts.Workers))
	}
	s, err := sim.New(net, sc, simOpts...)
	if err != nil {
		return nil, err
	}

	levels := net.InitialBaseStock()
	if opts.InitialLevels != nil {
		levels = append([]float64(nil), opts.InitialLevels...)
	}

	return &Optimizer{
		net:        net,
		sim:        s,
		opts:       opts,
		rule:       newRule(opts, n),
		levels:     levels,
		bestCost:   math.Inf(1),
		bestLevels: append([]float64(nil), levels...),
	}, nil
}

// Levels returns a copy of the current decision vector.
func (o *Optimizer) Levels() []float64 { return append([]float64(nil), o.levels...) }

// Iteration returns the number of evaluations performed so far.
func (o *Optimizer) Iteration() int { return o.iter }

// Best returns the lowest finite cost seen and a copy of its levels.
// Before any finite evaluation it returns +Inf and the starting levels.
func (o *Optimizer) Best() (float64, []float64) {
	return o.bestCost, append([]float64(nil), o.bestLevels...)
}

// BestTrajectories returns the trajectories of the best snapshot, or nil.
func (o *Optimizer) BestTrajectories() *sim.Trajectories { return o.bestTraj }

// Evaluate simulates the current levels and updates the best snapshot.
// A non-finite cost or gradient is reported through Evaluation.Diverged and
// leaves the best snapshot untouched.
func (o *Optimizer) Evaluate() (Evaluation, error) {
	res, err := o.sim.Run(sim.Policy{
		BaseStock:     o.levels,
		ReorderPoints: o.opts.ReorderPoints,
		FixedCost:     o.opts.FixedCost,
	})
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		Iteration:    o.iter,
		Cost:         res.Cost,
		Gradient:     res.Gradient,
		GradientNorm: math.Sqrt(squaredNorm(res.Gradient)),
		Levels:       o.Levels(),
	}
	o.iter++

	ev.Diverged = !isFinite(res.Cost) || !allFinite(res.Gradient)
	if !ev.Diverged && res.Cost < o.bestCost {
		o.bestCost = res.Cost
		o.bestLevels = append(o.bestLevels[:0], o.levels...)
		o.bestTraj = res.Trajectories
	}

	return ev, nil
}

// Apply performs one update of the decision vector with the given gradient,
// step size and momentum term (β1 for Adam, μ for Momentum, unused by SGD).
func (o *Optimizer) Apply(gradient []float64, lr, mom float64) {
	o.steps++
	o.rule.apply(o.levels, gradient, lr, mom, o.steps)
}

// Step evaluates the current levels and, unless the evaluation diverged,
// applies one update with lr and beta1.
func (o *Optimizer) Step(lr, beta1 float64) (Evaluation, error) {
	ev, err := o.Evaluate()
	if err != nil || ev.Diverged {
		return ev, err
	}
	o.Apply(ev.Gradient, lr, beta1)

	return ev, nil
}

// diagnostics packages the state of a diverged evaluation.
func (o *Optimizer) diagnostics(ev Evaluation) *Diagnostics {
	return &Diagnostics{
		Iteration:  ev.Iteration,
		Cost:       ev.Cost,
		Gradient:   append([]float64(nil), ev.Gradient...),
		Levels:     ev.Levels,
		Capacities: o.net.Capacities(),
	}
}

func squaredNorm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}

	return s
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func allFinite(v []float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}

	return true
}
