// File: lrfinder.go
// Role: exponential learning-rate range test.
// Determinism:
//   - One scenario per call; the rate sequence is MinLR·Factor^t exactly.

package optimize

import (
	"fmt"
	"math"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
)

// RangeTestOptions configures FindLearningRate.
type RangeTestOptions struct {
	MaxIter int
	Samples int
	Periods int
	Seed    int64

	// MinLR is the first rate tried; Factor multiplies it every step.
	MinLR  float64
	Factor float64

	// MaxLR stops the test once the next rate would exceed it.
	MaxLR float64

	// BurnIn is the number of steps during which a cost increase is ignored.
	BurnIn int

	// Moms.High is used as Adam's β1.
	Moms    MomentumRange
	Beta2   float64
	Epsilon float64

	InitialLevels []float64
	Workers       int
}

// DefaultRangeTestOptions returns MinLR 1e-10, Factor 2, MaxLR 10, BurnIn 5.
func DefaultRangeTestOptions() RangeTestOptions {
	return RangeTestOptions{
		MaxIter: 100,
		Samples: 10,
		Periods: 100,
		Seed:    1,
		MinLR:   1e-10,
		Factor:  2,
		MaxLR:   10,
		BurnIn:  5,
		Moms:    DefaultMomentumRange(),
		Beta2:   0.999,
		Epsilon: 1e-8,
	}
}

// RangeTestResult is the outcome of FindLearningRate.
type RangeTestResult struct {
	// Rates[i] was applied after Costs[i] was observed.
	Rates []float64
	Costs []float64

	// OptimalRate is Rates[MinCostIndex]; MinCostIndex is -1 with no finite cost.
	OptimalRate  float64
	MinCostIndex int

	BestCost    float64
	BestLevels  []float64
	LocalLevels []float64

	// Diverged reports that the test stopped on a non-finite evaluation.
	Diverged bool
}

// FindLearningRate runs the range test over a scenario generated from opts.Seed.
//
// Steps per iteration t:
//  1. Simulate; a non-finite result stops the test.
//  2. Record (lr, cost).
//  3. Stop if cost rose compared to the previous step and t > BurnIn.
//  4. Apply one Adam step with lr and β1 = Moms.High; lr *= Factor.
//  5. Stop once lr > MaxLR.
func FindLearningRate(net *network.Network, opts RangeTestOptions) (*RangeTestResult, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if opts.MinLR <= 0 || opts.Factor <= 1 || !(opts.MaxLR >= opts.MinLR) || opts.BurnIn < 0 {
		return nil, fmt.Errorf("%w: MinLR=%v Factor=%v MaxLR=%v BurnIn=%d",
			ErrBadOptions, opts.MinLR, opts.Factor, opts.MaxLR, opts.BurnIn)
	}
	if err := opts.Moms.validate(); err != nil {
		return nil, err
	}

	o := DefaultOptions()
	o.Algorithm = Adam
	o.MaxIter = opts.MaxIter
	o.Samples, o.Periods, o.Seed = opts.Samples, opts.Periods, opts.Seed
	o.Beta1 = opts.Moms.High
	o.Beta2, o.Epsilon = opts.Beta2, opts.Epsilon
	o.InitialLevels = opts.InitialLevels
	o.Workers = opts.Workers
	if err := o.Validate(); err != nil {
		return nil, err
	}

	sc, err := demand.Generate(net, o.Samples, o.Periods, o.Seed)
	if err != nil {
		return nil, err
	}
	opt, err := New(net, sc, o)
	if err != nil {
		return nil, err
	}

	res := &RangeTestResult{MinCostIndex: -1}
	lr := opts.MinLR
	prev := math.Inf(1)
	for t := 0; t < opts.MaxIter; t++ {
		ev, err := opt.Evaluate()
		if err != nil {
			return nil, err
		}
		if ev.Diverged {
			res.Diverged = true
			break
		}
		res.Rates = append(res.Rates, lr)
		res.Costs = append(res.Costs, ev.Cost)
		if ev.Cost > prev && t > opts.BurnIn {
			break
		}
		prev = ev.Cost

		opt.Apply(ev.Gradient, lr, opts.Moms.High)
		lr *= opts.Factor
		if lr > opts.MaxLR {
			break
		}
	}

	for i, c := range res.Costs {
		if res.MinCostIndex < 0 || c < res.Costs[res.MinCostIndex] {
			res.MinCostIndex = i
		}
	}
	if res.MinCostIndex >= 0 {
		res.OptimalRate = res.Rates[res.MinCostIndex]
	}

	res.BestCost, res.BestLevels = opt.Best()
	if res.LocalLevels, err = net.LocalBaseStock(res.BestLevels); err != nil {
		return nil, err
	}

	return res, nil
}
