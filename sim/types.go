package sim

import (
	"errors"

	"github.com/klauspost/cpuid/v2"
)

// Sentinel errors for simulation input validation.
var (
	// ErrNilNetwork indicates a nil network argument.
	ErrNilNetwork = errors.New("sim: network is nil")

	// ErrNilScenario indicates a nil demand scenario.
	ErrNilScenario = errors.New("sim: scenario is nil")

	// ErrScenarioMismatch indicates a scenario that does not fit the network.
	ErrScenarioMismatch = errors.New("sim: scenario does not match network")

	// ErrLengthMismatch indicates a policy vector of the wrong length.
	ErrLengthMismatch = errors.New("sim: policy length does not match stage count")

	// ErrBadPolicy indicates an invalid scalar policy parameter.
	ErrBadPolicy = errors.New("sim: invalid policy")
)

// Policy is the replenishment rule applied at every stage.
type Policy struct {
	// BaseStock holds one echelon order-up-to level S per stage.
	// Negative values are accepted and simply produce costly runs.
	BaseStock []float64

	// ReorderPoints switches to an (s,S) rule when non-nil: a stage orders
	// up to S only when its position falls below s.
	ReorderPoints []float64

	// FixedCost is charged every time a stage triggers a reorder.
	FixedCost float64
}

// Trajectories holds per-sample state histories.
//
// Echelon, Pipeline and Local are indexed [sample][stage][period] with
// Periods+1 entries (index 0 is the initial state); Orders has Periods entries.
type Trajectories struct {
	Echelon  [][][]float64
	Pipeline [][][]float64
	Local    [][][]float64
	Orders   [][][]float64
}

// Result is the outcome of one simulation call.
type Result struct {
	// Cost is the expected holding + backorder (+ fixed) cost per period.
	Cost float64

	// Gradient is the pathwise estimate of dCost/dS per stage.
	Gradient []float64

	// StageCost breaks Cost down per stage.
	StageCost []float64

	// Trajectories is nil when WithoutTrajectories is set.
	Trajectories *Trajectories
}

// Option configures a Simulator.
type Option func(o *options)

type options struct {
	workers      int
	trajectories bool
}

// defaultOptions records trajectories and uses one worker per physical core.
func defaultOptions() options {
	w := cpuid.CPU.PhysicalCores
	if w < 1 {
		w = 1
	}

	return options{workers: w, trajectories: true}
}

// WithWorkers sets the number of goroutines sharing the samples.
// Values below one are treated as one.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithoutTrajectories skips trajectory recording; Result.Trajectories is nil.
func WithoutTrajectories() Option {
	return func(o *options) { o.trajectories = false }
}
