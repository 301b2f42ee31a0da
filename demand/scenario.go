package demand

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/invopt/network"
)

// Sentinel errors for scenario construction.
var (
	// ErrNilNetwork indicates a nil network argument.
	ErrNilNetwork = errors.New("demand: network is nil")

	// ErrBadShape indicates non-positive sample or period counts.
	ErrBadShape = errors.New("demand: samples and periods must be >= 1")

	// ErrShapeMismatch indicates a matrix or series of the wrong dimensions.
	ErrShapeMismatch = errors.New("demand: shape mismatch")

	// ErrMissingSink indicates a sink stage without a demand entry.
	ErrMissingSink = errors.New("demand: missing demand for sink stage")

	// ErrNotSink indicates a demand entry for a stage that has outgoing arcs.
	ErrNotSink = errors.New("demand: stage is not a sink")

	// ErrNotSingleSink indicates a 1-D series supplied for a multi-sink network.
	ErrNotSingleSink = errors.New("demand: series broadcast requires exactly one sink")

	// ErrBadValue indicates a negative or non-finite demand value.
	ErrBadValue = errors.New("demand: invalid demand value")
)

// Scenario is a read-only demand tensor for one network shape.
//
// values[stage] is nil for non-sink stages and a flat row-major
// Samples×Periods slice for sinks.
type Scenario struct {
	samples int
	periods int
	stages  int
	values  [][]float64
}

// Generate draws an i.i.d. Normal(μ, σ) demand truncated at zero for every
// sink of net, using one derived RNG stream per sink.
//
// Complexity: O(sinks · samples · periods).
func Generate(net *network.Network, samples, periods int, seed int64) (*Scenario, error) {
	sc, err := newScenario(net, samples, periods)
	if err != nil {
		return nil, err
	}
	for _, i := range net.Sinks() {
		st := net.Stage(i)
		rng := streamRNG(seed, i)
		row := make([]float64, samples*periods)
		for k := range row {
			row[k] = math.Max(0, st.MeanDemand+st.DemandStd*rng.NormFloat64())
		}
		sc.values[i] = row
	}

	return sc, nil
}

// FromMatrix builds a scenario from explicit per-sink matrices keyed by
// stage ID. Every sink must be present and every matrix must be exactly
// samples×periods, where samples and periods come from the first sink.
func FromMatrix(net *network.Network, values map[string][][]float64) (*Scenario, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	sinks := net.Sinks()
	first, ok := values[net.Stage(sinks[0]).ID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingSink, net.Stage(sinks[0]).ID)
	}
	samples := len(first)
	periods := 0
	if samples > 0 {
		periods = len(first[0])
	}
	sc, err := newScenario(net, samples, periods)
	if err != nil {
		return nil, fmt.Errorf("%w: %d×%d", err, samples, periods)
	}
	for id := range values {
		i, err := net.Index(id)
		if err != nil {
			return nil, err
		}
		if !net.IsSink(i) {
			return nil, fmt.Errorf("%w: %q", ErrNotSink, id)
		}
	}
	for _, i := range sinks {
		id := net.Stage(i).ID
		m, ok := values[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSink, id)
		}
		if len(m) != samples {
			return nil, fmt.Errorf("%w: %q has %d samples, want %d", ErrShapeMismatch, id, len(m), samples)
		}
		row := make([]float64, samples*periods)
		for s, series := range m {
			if len(series) != periods {
				return nil, fmt.Errorf("%w: %q sample %d has %d periods, want %d",
					ErrShapeMismatch, id, s, len(series), periods)
			}
			if err := checkValues(id, series); err != nil {
				return nil, err
			}
			copy(row[s*periods:], series)
		}
		sc.values[i] = row
	}

	return sc, nil
}

// FromSeries broadcasts one demand series across all samples of a
// single-sink network. The period count is len(series); an empty series
// fails with ErrBadShape.
func FromSeries(net *network.Network, samples int, series []float64) (*Scenario, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	sinks := net.Sinks()
	if len(sinks) != 1 {
		return nil, fmt.Errorf("%w: network has %d sinks", ErrNotSingleSink, len(sinks))
	}
	sc, err := newScenario(net, samples, len(series))
	if err != nil {
		return nil, err
	}
	id := net.Stage(sinks[0]).ID
	if err := checkValues(id, series); err != nil {
		return nil, err
	}
	row := make([]float64, samples*len(series))
	for s := 0; s < samples; s++ {
		copy(row[s*len(series):], series)
	}
	sc.values[sinks[0]] = row

	return sc, nil
}

func newScenario(net *network.Network, samples, periods int) (*Scenario, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if samples < 1 || periods < 1 {
		return nil, ErrBadShape
	}

	return &Scenario{
		samples: samples,
		periods: periods,
		stages:  net.Len(),
		values:  make([][]float64, net.Len()),
	}, nil
}

func checkValues(id string, series []float64) error {
	for t, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %q period %d = %v", ErrBadValue, id, t, v)
		}
	}

	return nil
}

// Samples returns the number of Monte-Carlo replications.
func (s *Scenario) Samples() int { return s.samples }

// Periods returns the number of simulated periods.
func (s *Scenario) Periods() int { return s.periods }

// Stages returns the stage count of the network the scenario was built for.
func (s *Scenario) Stages() int { return s.stages }

// Has reports whether the scenario holds demand for stage i.
func (s *Scenario) Has(stage int) bool {
	return stage >= 0 && stage < len(s.values) && s.values[stage] != nil
}

// At returns the demand of stage in the given sample and period.
// It returns 0 for stages without demand.
func (s *Scenario) At(stage, sample, period int) float64 {
	row := s.values[stage]
	if row == nil {
		return 0
	}

	return row[sample*s.periods+period]
}

// Row returns the demand series of one sample for a sink stage, or nil.
// The slice aliases internal storage and must not be modified.
func (s *Scenario) Row(stage, sample int) []float64 {
	row := s.values[stage]
	if row == nil {
		return nil
	}

	return row[sample*s.periods : (sample+1)*s.periods]
}

// Mean returns the average demand of a stage over all samples and periods.
func (s *Scenario) Mean(stage int) float64 {
	row := s.values[stage]
	if len(row) == 0 {
		return 0
	}
	var sum float64
	for _, v := range row {
		sum += v
	}

	return sum / float64(len(row))
}
