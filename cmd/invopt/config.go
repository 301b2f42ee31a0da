package main

import (
	"bytes"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/optimize"
)

// Config is the YAML document accepted by -config.
type Config struct {
	Stages    []StageConfig   `yaml:"stages"`
	Arcs      []ArcConfig     `yaml:"arcs"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

// StageConfig mirrors network.Stage. A missing capacity means unbounded and
// a missing safety factor is derived from the cost ratio.
type StageConfig struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name,omitempty"`
	MeanDemand      float64  `yaml:"mean_demand"`
	DemandStd       float64  `yaml:"demand_std"`
	HoldingCost     float64  `yaml:"holding_cost"`
	BackorderCost   float64  `yaml:"backorder_cost"`
	SafetyFactor    *float64 `yaml:"safety_factor,omitempty"`
	Capacity        *float64 `yaml:"capacity,omitempty"`
	LeadTime        int      `yaml:"lead_time"`
	EchelonLeadTime int      `yaml:"echelon_lead_time,omitempty"`
}

// ArcConfig mirrors network.Arc; zero units or allocation default to 1.
type ArcConfig struct {
	Child      string  `yaml:"child"`
	Parent     string  `yaml:"parent"`
	Units      float64 `yaml:"units"`
	Allocation float64 `yaml:"allocation"`
}

// OptimizerConfig overrides optimize.DefaultOptions field by field. A nil
// pointer keeps the default; an explicit zero is applied as written.
type OptimizerConfig struct {
	Algorithm            string    `yaml:"algorithm"`
	MaxIter              *int      `yaml:"max_iter,omitempty"`
	Samples              *int      `yaml:"samples,omitempty"`
	Periods              *int      `yaml:"periods,omitempty"`
	Seed                 *int64    `yaml:"seed,omitempty"`
	LearningRate         *float64  `yaml:"learning_rate,omitempty"`
	Beta1                *float64  `yaml:"beta1,omitempty"`
	Beta2                *float64  `yaml:"beta2,omitempty"`
	Momentum             *float64  `yaml:"momentum,omitempty"`
	ConvergenceThreshold *float64  `yaml:"convergence_threshold,omitempty"`
	FixedCost            float64   `yaml:"fixed_cost"`
	ReorderPoints        []float64 `yaml:"reorder_points,omitempty"`
	InitialLevels        []float64 `yaml:"initial_levels,omitempty"`
	Workers              *int      `yaml:"workers,omitempty"`
	MaxLR                *float64  `yaml:"max_lr,omitempty"`
	ExploreRates         []float64 `yaml:"explore_rates,omitempty"`
}

const sampleConfig = `stages:
  - id: supplier
    holding_cost: 1
    backorder_cost: 10
    capacity: 1000
    lead_time: 2
  - id: factory
    holding_cost: 2
    backorder_cost: 20
    capacity: 1000
    lead_time: 2
  - id: product
    mean_demand: 100
    demand_std: 20
    holding_cost: 5
    backorder_cost: 100
    capacity: 1000
    lead_time: 2
arcs:
  - {child: supplier, parent: factory}
  - {child: factory, parent: product}
optimizer:
  algorithm: adam
  max_iter: 100
  samples: 10
  periods: 100
  seed: 1
  learning_rate: 1.0
  max_lr: 1.0
  explore_rates: [0.1, 0.5, 1.0, 5.0]
`

// loadConfig reads path, or the built-in sample when path is empty.
func loadConfig(path string) (Config, error) {
	data := []byte(sampleConfig)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	return cfg, nil
}

// Network builds the validated network described by cfg.
func (c Config) Network() (*network.Network, error) {
	stages := make([]network.Stage, len(c.Stages))
	for i, s := range c.Stages {
		st := network.Stage{
			ID:              s.ID,
			Name:            s.Name,
			MeanDemand:      s.MeanDemand,
			DemandStd:       s.DemandStd,
			HoldingCost:     s.HoldingCost,
			BackorderCost:   s.BackorderCost,
			Capacity:        math.Inf(1),
			LeadTime:        s.LeadTime,
			EchelonLeadTime: s.EchelonLeadTime,
		}
		if s.Capacity != nil {
			st.Capacity = *s.Capacity
		}
		if s.SafetyFactor != nil {
			st.SafetyFactor = *s.SafetyFactor
		} else {
			st.SafetyFactor = network.DefaultSafetyFactor(s.HoldingCost, s.BackorderCost)
		}
		stages[i] = st
	}

	arcs := make([]network.Arc, len(c.Arcs))
	for i, a := range c.Arcs {
		arcs[i] = network.Arc{Child: a.Child, Parent: a.Parent, Units: orOne(a.Units), Allocation: orOne(a.Allocation)}
	}

	net, err := network.New(stages, arcs)
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}

	return net, nil
}

// Options overlays the set optimizer fields on optimize.DefaultOptions.
func (c Config) Options() (optimize.Options, error) {
	o := optimize.DefaultOptions()
	oc := c.Optimizer
	if oc.Algorithm != "" {
		a, err := optimize.ParseAlgorithm(oc.Algorithm)
		if err != nil {
			return o, err
		}
		o.Algorithm = a
	}
	set(&o.MaxIter, oc.MaxIter)
	set(&o.Samples, oc.Samples)
	set(&o.Periods, oc.Periods)
	set(&o.Workers, oc.Workers)
	set(&o.Seed, oc.Seed)
	set(&o.LearningRate, oc.LearningRate)
	set(&o.Beta1, oc.Beta1)
	set(&o.Beta2, oc.Beta2)
	set(&o.Momentum, oc.Momentum)
	set(&o.ConvergenceThreshold, oc.ConvergenceThreshold)
	o.FixedCost = oc.FixedCost
	o.ReorderPoints = oc.ReorderPoints
	o.InitialLevels = oc.InitialLevels

	return o, o.Validate()
}

// RangeTestOptions derives the range test configuration.
func (c Config) RangeTestOptions() optimize.RangeTestOptions {
	o := optimize.DefaultRangeTestOptions()
	oc := c.Optimizer
	set(&o.MaxIter, oc.MaxIter)
	set(&o.Samples, oc.Samples)
	set(&o.Periods, oc.Periods)
	set(&o.Workers, oc.Workers)
	set(&o.Seed, oc.Seed)
	o.InitialLevels = oc.InitialLevels

	return o
}

// OneCycleOptions derives the One-Cycle configuration.
func (c Config) OneCycleOptions() optimize.OneCycleOptions {
	o := optimize.DefaultOneCycleOptions()
	oc := c.Optimizer
	set(&o.MaxIter, oc.MaxIter)
	set(&o.Samples, oc.Samples)
	set(&o.Periods, oc.Periods)
	set(&o.Workers, oc.Workers)
	set(&o.Seed, oc.Seed)
	set(&o.MaxLR, oc.MaxLR)
	o.InitialLevels = oc.InitialLevels

	return o
}

func orOne(x float64) float64 {
	if x == 0 {
		return 1
	}

	return x
}

// set copies *v into dst when v is non-nil.
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
