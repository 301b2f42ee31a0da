package optimize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/invopt/sim"
)

// Sentinel errors for optimizer configuration.
var (
	// ErrNilNetwork indicates a nil network argument.
	ErrNilNetwork = errors.New("optimize: network is nil")

	// ErrUnknownAlgorithm indicates an unsupported update rule name or value.
	ErrUnknownAlgorithm = errors.New("optimize: unknown algorithm")

	// ErrBadOptions indicates an out-of-range hyperparameter.
	ErrBadOptions = errors.New("optimize: invalid options")
)

// Algorithm selects the update rule.
type Algorithm int

const (
	// Adam uses bias-corrected first and second moment estimates.
	Adam Algorithm = iota

	// Momentum uses an exponentially accumulated velocity.
	Momentum

	// SGD applies the raw gradient.
	SGD
)

// String returns the lower-case rule name.
func (a Algorithm) String() string {
	switch a {
	case Adam:
		return "adam"
	case Momentum:
		return "momentum"
	case SGD:
		return "sgd"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps "adam", "momentum" or "sgd" (case-insensitive) to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adam":
		return Adam, nil
	case "momentum":
		return Momentum, nil
	case "sgd":
		return SGD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Status is the terminal state of an optimization run.
type Status int

const (
	// MaxIterReached means the iteration budget ran out; not an error.
	MaxIterReached Status = iota

	// Converged means the squared gradient norm fell below the threshold.
	Converged

	// Diverged means cost or gradient became non-finite.
	Diverged
)

// String returns a stable, snake-case status name.
func (s Status) String() string {
	switch s {
	case MaxIterReached:
		return "max_iter_reached"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Evaluation is the outcome of simulating the current decision vector once.
type Evaluation struct {
	// Iteration is the zero-based index of this evaluation.
	Iteration int

	// Cost is the simulated expected cost per period.
	Cost float64

	// Gradient is the pathwise cost gradient per stage.
	Gradient []float64

	// GradientNorm is the L2 norm of Gradient.
	GradientNorm float64

	// Levels is a copy of the decision vector that was simulated.
	Levels []float64

	// Diverged is set when Cost or any Gradient entry is NaN or ±Inf.
	Diverged bool
}

// History records one entry per finite evaluation, in iteration order.
type History struct {
	Iteration    []int
	Cost         []float64
	GradientNorm []float64
	Levels       [][]float64

	// LearningRate and Momentum are the values consulted for the update that
	// followed the evaluation (static or scheduled).
	LearningRate []float64
	Momentum     []float64
}

// Len returns the number of recorded iterations.
func (h *History) Len() int { return len(h.Cost) }

func (h *History) record(ev Evaluation, lr, mom float64) {
	h.Iteration = append(h.Iteration, ev.Iteration)
	h.Cost = append(h.Cost, ev.Cost)
	h.GradientNorm = append(h.GradientNorm, ev.GradientNorm)
	h.Levels = append(h.Levels, ev.Levels)
	h.LearningRate = append(h.LearningRate, lr)
	h.Momentum = append(h.Momentum, mom)
}

// Diagnostics describes the point of divergence.
type Diagnostics struct {
	// Iteration is the evaluation at which cost stopped being finite.
	Iteration int

	// Cost and Gradient are the offending simulator outputs.
	Cost     float64
	Gradient []float64

	// Levels is the decision vector that produced them.
	Levels []float64

	// Capacities lists the stage capacities.
	Capacities []float64
}

// Result is the outcome of an optimization run.
type Result struct {
	// Status is the terminal state.
	Status Status

	// Converged is Status == Converged.
	Converged bool

	// BestCost is the lowest finite cost seen; +Inf if none was.
	BestCost float64

	// BestLevels is the echelon base-stock vector that achieved BestCost.
	BestLevels []float64

	// LocalLevels converts BestLevels to stage-local targets.
	LocalLevels []float64

	// BestTrajectories are the simulator trajectories of BestLevels.
	BestTrajectories *sim.Trajectories

	// History holds every finite evaluation.
	History History

	// Iterations counts simulator evaluations, including a diverged one.
	Iterations int

	// EchelonLeadTime is the per-stage ELT used for the warm start.
	EchelonLeadTime []int

	// Diagnostics is non-nil only when Status == Diverged.
	Diagnostics *Diagnostics
}
