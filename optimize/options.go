package optimize

import (
	"fmt"
	"math"
)

// Options configures Optimize and the Optimizer primitives.
type Options struct {
	// Algorithm selects the update rule. Default Adam.
	Algorithm Algorithm

	// MaxIter caps the number of simulator evaluations. Default 100.
	MaxIter int

	// Samples and Periods shape the generated demand scenario.
	// Ignored by OptimizeScenario. Defaults 10 and 100.
	Samples int
	Periods int

	// Seed drives the demand scenario. Default 1.
	Seed int64

	// LearningRate is the static step size. Default 1.0.
	LearningRate float64

	// Beta1 and Beta2 are Adam's moment decay rates. Defaults 0.9, 0.999.
	Beta1 float64
	Beta2 float64

	// Momentum is the velocity decay of the Momentum rule. Default 0.9.
	Momentum float64

	// Epsilon stabilizes Adam's denominator. Default 1e-8.
	Epsilon float64

	// ConvergenceThreshold bounds the squared gradient norm. Default 1e-5.
	ConvergenceThreshold float64

	// Schedule, when non-nil, replaces LearningRate and the momentum term
	// (Beta1 for Adam, Momentum for the Momentum rule) per iteration.
	Schedule *Schedule

	// InitialLevels overrides the closed-form warm start.
	InitialLevels []float64

	// ReorderPoints switches the simulator to an (s,S) rule.
	ReorderPoints []float64

	// FixedCost is charged per triggered reorder.
	FixedCost float64

	// Workers is the number of goroutines per simulation; 0 uses the
	// simulator default (one per physical core).
	Workers int
}

// DefaultOptions returns the stock hyperparameters.
func DefaultOptions() Options {
	return Options{
		Algorithm:            Adam,
		MaxIter:              100,
		Samples:              10,
		Periods:              100,
		Seed:                 1,
		LearningRate:         1.0,
		Beta1:                0.9,
		Beta2:                0.999,
		Momentum:             0.9,
		Epsilon:              1e-8,
		ConvergenceThreshold: 1e-5,
	}
}

// Validate checks every scalar field; vector lengths are checked against the
// network by New.
func (o Options) Validate() error {
	switch o.Algorithm {
	case Adam, Momentum, SGD:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(o.Algorithm))
	}
	if o.MaxIter < 1 {
		return fmt.Errorf("%w: MaxIter=%d", ErrBadOptions, o.MaxIter)
	}
	if o.Samples < 1 || o.Periods < 1 {
		return fmt.Errorf("%w: Samples=%d Periods=%d", ErrBadOptions, o.Samples, o.Periods)
	}
	if !finiteNonNegative(o.LearningRate) {
		return fmt.Errorf("%w: LearningRate=%v", ErrBadOptions, o.LearningRate)
	}
	if !unitInterval(o.Beta1) || !unitInterval(o.Beta2) || !unitInterval(o.Momentum) {
		return fmt.Errorf("%w: Beta1=%v Beta2=%v Momentum=%v", ErrBadOptions, o.Beta1, o.Beta2, o.Momentum)
	}
	if !finiteNonNegative(o.Epsilon) || o.Epsilon == 0 {
		return fmt.Errorf("%w: Epsilon=%v", ErrBadOptions, o.Epsilon)
	}
	if !finiteNonNegative(o.ConvergenceThreshold) {
		return fmt.Errorf("%w: ConvergenceThreshold=%v", ErrBadOptions, o.ConvergenceThreshold)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: Workers=%d", ErrBadOptions, o.Workers)
	}
	if o.Schedule != nil {
		if err := o.Schedule.validate(); err != nil {
			return err
		}
	}

	return nil
}

// rates returns the step size and momentum term for iteration t.
func (o Options) rates(t int) (lr, mom float64) {
	if o.Schedule != nil {
		return o.Schedule.At(t)
	}
	if o.Algorithm == Momentum {
		return o.LearningRate, o.Momentum
	}

	return o.LearningRate, o.Beta1
}

func finiteNonNegative(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

// unitInterval reports 0 ≤ x < 1.
func unitInterval(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x < 1
}
