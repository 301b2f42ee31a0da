package optimize

import (
	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
)

// Optimize generates a demand scenario from opts.Seed and runs the
// optimization loop on it. See OptimizeScenario.
func Optimize(net *network.Network, opts Options) (*Result, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sc, err := demand.Generate(net, opts.Samples, opts.Periods, opts.Seed)
	if err != nil {
		return nil, err
	}

	return OptimizeScenario(net, sc, opts)
}

// OptimizeScenario runs the optimization loop over a caller-supplied
// scenario; opts.Samples, opts.Periods and opts.Seed are ignored.
//
// Steps per iteration t < MaxIter:
//  1. Simulate the current levels; update the best snapshot.
//  2. Non-finite cost or gradient → Diverged, record Diagnostics, stop.
//  3. Append to History.
//  4. ‖g‖² ≤ ConvergenceThreshold → Converged, stop.
//  5. Apply the update rule with the static or scheduled rates for t.
//
// Exhausting the budget yields MaxIterReached. The returned levels are the
// best snapshot in all three cases.
//
// Complexity: O(MaxIter · samples · periods · (V + A)).
func OptimizeScenario(net *network.Network, sc *demand.Scenario, opts Options) (*Result, error) {
	o, err := New(net, sc, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Status: MaxIterReached, EchelonLeadTime: net.EchelonLeadTimes()}
	for t := 0; t < opts.MaxIter; t++ {
		ev, err := o.Evaluate()
		if err != nil {
			return nil, err
		}
		if ev.Diverged {
			res.Status = Diverged
			res.Diagnostics = o.diagnostics(ev)
			break
		}
		lr, mom := opts.rates(t)
		res.History.record(ev, lr, mom)
		if squaredNorm(ev.Gradient) <= opts.ConvergenceThreshold {
			res.Status = Converged
			break
		}
		o.Apply(ev.Gradient, lr, mom)
	}

	if err := o.finish(res); err != nil {
		return nil, err
	}

	return res, nil
}

// finish copies the best snapshot into res.
func (o *Optimizer) finish(res *Result) error {
	res.Converged = res.Status == Converged
	res.Iterations = o.iter
	res.BestCost, res.BestLevels = o.Best()
	res.BestTrajectories = o.bestTraj
	local, err := o.net.LocalBaseStock(res.BestLevels)
	if err != nil {
		return err
	}
	res.LocalLevels = local

	return nil
}
