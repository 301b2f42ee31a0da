// File: onecycle.go
// Role: the One-Cycle learning-rate/momentum schedule and the Adam driver
//       that follows it.
// Shape:
//   - first ⌊maxIter/2⌋ steps: lr linear maxLR/25 → maxLR, momentum high → low
//   - remaining steps: lr cosine maxLR → 0, momentum cosine low → high

package optimize

import (
	"fmt"
	"math"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
)

// warmupDivisor sets the starting rate of the One-Cycle warm-up.
const warmupDivisor = 25

// MomentumRange bounds the momentum term of a schedule.
type MomentumRange struct {
	Low, High float64
}

// DefaultMomentumRange returns {0.85, 0.95}.
func DefaultMomentumRange() MomentumRange { return MomentumRange{Low: 0.85, High: 0.95} }

func (m MomentumRange) validate() error {
	if !unitInterval(m.Low) || !unitInterval(m.High) || m.Low > m.High {
		return fmt.Errorf("%w: momentum range [%v, %v]", ErrBadOptions, m.Low, m.High)
	}

	return nil
}

// Schedule is a per-iteration table of learning rates and momentum terms.
type Schedule struct {
	LR       []float64
	Momentum []float64
}

// Len returns the number of scheduled iterations.
func (s *Schedule) Len() int { return len(s.LR) }

// At returns the rates for iteration t; t past the end repeats the last entry.
func (s *Schedule) At(t int) (lr, mom float64) {
	if t >= len(s.LR) {
		t = len(s.LR) - 1
	}
	if t < 0 {
		t = 0
	}

	return s.LR[t], s.Momentum[t]
}

func (s *Schedule) validate() error {
	if len(s.LR) == 0 || len(s.LR) != len(s.Momentum) {
		return fmt.Errorf("%w: schedule lengths lr=%d momentum=%d", ErrBadOptions, len(s.LR), len(s.Momentum))
	}
	for i := range s.LR {
		if !finiteNonNegative(s.LR[i]) || !unitInterval(s.Momentum[i]) {
			return fmt.Errorf("%w: schedule entry %d (lr=%v, momentum=%v)", ErrBadOptions, i, s.LR[i], s.Momentum[i])
		}
	}

	return nil
}

// NewOneCycle builds a One-Cycle schedule of exactly maxIter entries.
//
// Returns ErrBadOptions for maxIter < 1, a non-positive maxLR, or an invalid
// momentum range.
func NewOneCycle(maxIter int, maxLR float64, moms MomentumRange) (*Schedule, error) {
	if maxIter < 1 || !finiteNonNegative(maxLR) || maxLR == 0 {
		return nil, fmt.Errorf("%w: maxIter=%d maxLR=%v", ErrBadOptions, maxIter, maxLR)
	}
	if err := moms.validate(); err != nil {
		return nil, err
	}

	half := maxIter / 2
	s := &Schedule{
		LR:       make([]float64, 0, maxIter),
		Momentum: make([]float64, 0, maxIter),
	}
	s.LR = append(s.LR, linspace(maxLR/warmupDivisor, maxLR, half)...)
	s.Momentum = append(s.Momentum, linspace(moms.High, moms.Low, half)...)

	span := moms.High - moms.Low
	for _, theta := range linspace(0, math.Pi, maxIter-half) {
		c := math.Cos(theta)
		s.LR = append(s.LR, maxLR/2+maxLR/2*c)
		s.Momentum = append(s.Momentum, moms.High-span/2-span/2*c)
	}

	return s, nil
}

// linspace returns n evenly spaced values from a to b inclusive.
func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}

	return out
}

// OneCycleOptions configures OptimizeOneCycle.
type OneCycleOptions struct {
	MaxIter              int
	Samples              int
	Periods              int
	Seed                 int64
	MaxLR                float64
	Moms                 MomentumRange
	Beta2                float64
	Epsilon              float64
	ConvergenceThreshold float64
	InitialLevels        []float64
	Workers              int
}

// DefaultOneCycleOptions returns MaxIter 200, MaxLR 1, moms {0.85, 0.95}
// and a loose convergence threshold of 0.1.
func DefaultOneCycleOptions() OneCycleOptions {
	return OneCycleOptions{
		MaxIter:              200,
		Samples:              10,
		Periods:              100,
		Seed:                 1,
		MaxLR:                1.0,
		Moms:                 DefaultMomentumRange(),
		Beta2:                0.999,
		Epsilon:              1e-8,
		ConvergenceThreshold: 1e-1,
	}
}

// OneCycleResult extends Result with the schedule actually consumed.
type OneCycleResult struct {
	*Result

	// LRSchedule and MomSchedule are truncated to the executed iterations.
	LRSchedule  []float64
	MomSchedule []float64
}

// OptimizeOneCycle runs Adam with β1 and lr taken from a One-Cycle schedule.
func OptimizeOneCycle(net *network.Network, opts OneCycleOptions) (*OneCycleResult, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	sched, err := NewOneCycle(opts.MaxIter, opts.MaxLR, opts.Moms)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	o.Algorithm = Adam
	o.MaxIter = opts.MaxIter
	o.Samples, o.Periods, o.Seed = opts.Samples, opts.Periods, opts.Seed
	o.Beta2, o.Epsilon = opts.Beta2, opts.Epsilon
	o.ConvergenceThreshold = opts.ConvergenceThreshold
	o.InitialLevels = opts.InitialLevels
	o.Workers = opts.Workers
	o.Schedule = sched
	if err := o.Validate(); err != nil {
		return nil, err
	}

	sc, err := demand.Generate(net, o.Samples, o.Periods, o.Seed)
	if err != nil {
		return nil, err
	}
	res, err := OptimizeScenario(net, sc, o)
	if err != nil {
		return nil, err
	}

	n := res.Iterations
	if n > sched.Len() {
		n = sched.Len()
	}

	return &OneCycleResult{
		Result:      res,
		LRSchedule:  append([]float64(nil), sched.LR[:n]...),
		MomSchedule: append([]float64(nil), sched.Momentum[:n]...),
	}, nil
}
