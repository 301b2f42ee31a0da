package optimize

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
)

// ExploreLearningRates runs one independent optimization per candidate rate,
// concurrently, over a single shared scenario. opts.Schedule is ignored.
// Results are returned in the order of rates; the first error by index wins.
func ExploreLearningRates(net *network.Network, opts Options, rates []float64) ([]*Result, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no learning rates", ErrBadOptions)
	}
	opts.Schedule = nil
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sc, err := demand.Generate(net, opts.Samples, opts.Periods, opts.Seed)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(rates))
	errs := make([]error, len(rates))
	p := pool.New().WithErrors().WithMaxGoroutines(len(rates))
	for i, lr := range rates {
		i, lr := i, lr
		p.Go(func() error {
			o := opts
			o.LearningRate = lr
			results[i], errs[i] = OptimizeScenario(net, sc, o)

			return errs[i]
		})
	}
	if p.Wait() == nil {
		return results, nil
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("optimize: rate %v: %w", rates[i], err)
		}
	}

	return results, nil
}
