package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/optimize"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// smallConfig trims the sample so a run finishes quickly.
func smallConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := loadConfig("")
	require.NoError(t, err)
	cfg.Optimizer.MaxIter = ptr(8)
	cfg.Optimizer.Samples = ptr(2)
	cfg.Optimizer.Periods = ptr(20)
	cfg.Optimizer.Workers = ptr(1)

	return cfg
}

func ptr[T any](v T) *T { return &v }

func TestLoadConfig_Sample(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Len(t, cfg.Stages, 3)
	require.Len(t, cfg.Arcs, 2)

	net, err := cfg.Network()
	require.NoError(t, err)
	assert.Equal(t, []string{"supplier", "factory", "product"}, net.IDs())
	assert.Equal(t, []int{2}, net.Sinks())
	assert.Equal(t, network.DefaultSafetyFactor(5, 100), net.Stage(2).SafetyFactor)
	assert.Equal(t, 1.0, net.Successors(0)[0].Units)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, optimize.Adam, opts.Algorithm)
	assert.Equal(t, 100, opts.MaxIter)
	assert.Equal(t, int64(1), opts.Seed)
	assert.Equal(t, 0.999, opts.Beta2)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	doc := `stages:
  - id: shop
    mean_demand: 50
    demand_std: 5
    holding_cost: 1
    backorder_cost: 9
    safety_factor: 2
    lead_time: 3
optimizer:
  algorithm: momentum
  seed: 0
  learning_rate: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	net, err := cfg.Network()
	require.NoError(t, err)
	assert.True(t, math.IsInf(net.Stage(0).Capacity, 1))
	assert.Equal(t, 2.0, net.Stage(0).SafetyFactor)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, optimize.Momentum, opts.Algorithm)
	assert.Equal(t, int64(0), opts.Seed)
	assert.Equal(t, 0.5, opts.LearningRate)
}

func TestLoadConfig_ExplicitZeroOverridesDefault(t *testing.T) {
	cfg, err := parseConfig([]byte(`stages:
  - id: shop
    mean_demand: 10
    holding_cost: 1
    backorder_cost: 9
    lead_time: 1
optimizer:
  algorithm: momentum
  beta1: 0
  momentum: 0
  convergence_threshold: 0
`))
	require.NoError(t, err)

	def := optimize.DefaultOptions()
	require.NotZero(t, def.Beta1)
	require.NotZero(t, def.Momentum)
	require.NotZero(t, def.ConvergenceThreshold)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Zero(t, opts.Beta1)
	assert.Zero(t, opts.Momentum)
	assert.Zero(t, opts.ConvergenceThreshold)
	assert.Equal(t, def.Beta2, opts.Beta2, "unset field keeps the default")
	assert.Equal(t, def.MaxIter, opts.MaxIter)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = parseConfig([]byte("stages:\n  - id: a\n    colour: red\n"))
	assert.Error(t, err)

	cfg, err := parseConfig([]byte("stages:\n  - id: a\n    lead_time: 0\n"))
	require.NoError(t, err)
	_, err = cfg.Network()
	assert.ErrorIs(t, err, network.ErrBadLeadTime)

	cfg.Optimizer.Algorithm = "newton"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, optimize.ErrUnknownAlgorithm)
}

func decodeReport(t *testing.T, buf *bytes.Buffer) Report {
	t.Helper()
	var r Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err)

	return r
}

func TestRun_Modes(t *testing.T) {
	for _, mode := range []string{"optimize", "find-lr", "one-cycle", "explore"} {
		t.Run(mode, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, run(&buf, quietLogger(), smallConfig(t), mode))

			r := decodeReport(t, &buf)
			assert.Equal(t, mode, r.Mode)
			require.NotNil(t, r.BestCost)
			assert.Greater(t, *r.BestCost, 0.0)
			require.Len(t, r.Stages, 3)
			assert.Equal(t, "product", r.Stages[2].ID)
			assert.Equal(t, 2, r.Stages[2].EchelonLeadTime)
		})
	}
}

func TestRun_ExploreReportsEveryRate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, quietLogger(), smallConfig(t), "explore"))

	r := decodeReport(t, &buf)
	require.Len(t, r.Explored, 4)
	assert.Equal(t, 0.1, r.Explored[0].LearningRate)
	assert.Contains(t, []float64{0.1, 0.5, 1.0, 5.0}, r.OptimalRate)
}

func TestRun_OneCycleSchedules(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, quietLogger(), smallConfig(t), "one-cycle"))

	r := decodeReport(t, &buf)
	assert.Len(t, r.LRSchedule, r.Iterations)
	assert.Len(t, r.MomSchedule, r.Iterations)
}

func TestRun_DivergedReport(t *testing.T) {
	cfg, err := parseConfig([]byte(`stages:
  - id: shop
    mean_demand: 100
    holding_cost: 1
    backorder_cost: 9
    lead_time: 1
optimizer:
  algorithm: sgd
  learning_rate: 1e308
  initial_levels: [50]
  max_iter: 5
  samples: 2
  periods: 10
  workers: 1
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, run(&buf, quietLogger(), cfg, "optimize"))

	r := decodeReport(t, &buf)
	assert.Equal(t, optimize.Diverged.String(), r.Status)
	require.NotNil(t, r.Diagnostics)
	require.Len(t, r.Diagnostics.Levels, 1)
	assert.Nil(t, r.Diagnostics.Levels[0], "non-finite level is written as null")
	require.Len(t, r.Diagnostics.Capacities, 1)
	assert.Nil(t, r.Diagnostics.Capacities[0])
	require.NotNil(t, r.BestCost)
	require.Len(t, r.Stages, 1)
	assert.Equal(t, 50.0, r.Stages[0].EchelonLevel)
}

func TestRun_UnknownMode(t *testing.T) {
	var buf bytes.Buffer
	err := run(&buf, quietLogger(), smallConfig(t), "simplex")
	assert.ErrorContains(t, err, "unknown mode")
	assert.Zero(t, buf.Len())
}

func TestFinite(t *testing.T) {
	assert.Nil(t, finite(math.Inf(1)))
	assert.Nil(t, finite(math.NaN()))
	require.NotNil(t, finite(2))
	assert.Equal(t, 2.0, *finite(2))
	assert.Equal(t, "+Inf", costValue(math.Inf(1)))
	assert.Equal(t, 3.0, costValue(3))

	xs := finiteAll([]float64{1, math.Inf(-1), math.NaN()})
	require.Len(t, xs, 3)
	assert.Equal(t, 1.0, *xs[0])
	assert.Nil(t, xs[1])
	assert.Nil(t, xs[2])
}
