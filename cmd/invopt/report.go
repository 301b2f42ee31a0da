package main

import (
	"fmt"
	"math"

	"github.com/katalvlaran/invopt/network"
	"github.com/katalvlaran/invopt/optimize"
)

// StageReport is one row of the per-stage policy table.
type StageReport struct {
	ID              string  `json:"id"`
	EchelonLevel    float64 `json:"echelon_base_stock"`
	LocalLevel      float64 `json:"local_base_stock"`
	EchelonLeadTime int     `json:"echelon_lead_time"`
	InitialLevel    float64 `json:"initial_base_stock"`
}

// Report is the JSON document written to stdout.
type Report struct {
	RunID      string        `json:"run_id"`
	Mode       string        `json:"mode"`
	Status     string        `json:"status,omitempty"`
	Converged  bool          `json:"converged"`
	BestCost   *float64      `json:"best_cost"`
	Iterations int           `json:"iterations"`
	Stages     []StageReport `json:"stages"`
	CostTrace  []float64     `json:"cost_trace,omitempty"`

	OptimalRate float64   `json:"optimal_learning_rate,omitempty"`
	Rates       []float64 `json:"learning_rates,omitempty"`
	LRSchedule  []float64 `json:"lr_schedule,omitempty"`
	MomSchedule []float64 `json:"momentum_schedule,omitempty"`

	Explored []ExploreReport `json:"explored,omitempty"`

	Diagnostics *DiagnosticsReport `json:"diagnostics,omitempty"`
}

// DiagnosticsReport is the JSON form of optimize.Diagnostics. Non-finite
// levels and unbounded capacities are written as null.
type DiagnosticsReport struct {
	Iteration  int        `json:"iteration"`
	Levels     []*float64 `json:"levels"`
	Capacities []*float64 `json:"capacities"`
}

// ExploreReport summarizes one candidate rate.
type ExploreReport struct {
	LearningRate float64  `json:"learning_rate"`
	Status       string   `json:"status"`
	BestCost     *float64 `json:"best_cost"`
	Iterations   int      `json:"iterations"`
}

// finite returns nil for ±Inf/NaN, which encoding/json rejects.
func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}

	return &x
}

func finiteAll(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		out[i] = finite(x)
	}

	return out
}

// costValue keeps non-finite costs loggable by slog's JSON handler.
func costValue(x float64) any {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return fmt.Sprint(x)
	}

	return x
}

func stageRows(net *network.Network, best, local []float64) []StageReport {
	elt := net.EchelonLeadTimes()
	init := net.InitialBaseStock()
	rows := make([]StageReport, net.Len())
	for i := range rows {
		rows[i] = StageReport{
			ID:              net.Stage(i).ID,
			EchelonLevel:    best[i],
			LocalLevel:      local[i],
			EchelonLeadTime: elt[i],
			InitialLevel:    init[i],
		}
	}

	return rows
}

func resultReport(runID, mode string, net *network.Network, res *optimize.Result) Report {
	r := Report{
		RunID:      runID,
		Mode:       mode,
		Status:     res.Status.String(),
		Converged:  res.Converged,
		BestCost:   finite(res.BestCost),
		Iterations: res.Iterations,
		Stages:     stageRows(net, res.BestLevels, res.LocalLevels),
		CostTrace:  res.History.Cost,
	}
	if d := res.Diagnostics; d != nil {
		r.Diagnostics = &DiagnosticsReport{
			Iteration:  d.Iteration,
			Levels:     finiteAll(d.Levels),
			Capacities: finiteAll(d.Capacities),
		}
	}

	return r
}

func rangeTestReport(runID string, net *network.Network, res *optimize.RangeTestResult) Report {
	r := Report{
		RunID:       runID,
		Mode:        "find-lr",
		BestCost:    finite(res.BestCost),
		Iterations:  len(res.Costs),
		Stages:      stageRows(net, res.BestLevels, res.LocalLevels),
		CostTrace:   res.Costs,
		OptimalRate: res.OptimalRate,
		Rates:       res.Rates,
	}
	if res.Diverged {
		r.Status = optimize.Diverged.String()
	}

	return r
}

func exploreReport(runID string, net *network.Network, rates []float64, results []*optimize.Result) Report {
	r := Report{RunID: runID, Mode: "explore"}
	best := -1
	for i, res := range results {
		r.Explored = append(r.Explored, ExploreReport{
			LearningRate: rates[i],
			Status:       res.Status.String(),
			BestCost:     finite(res.BestCost),
			Iterations:   res.Iterations,
		})
		if best < 0 || res.BestCost < results[best].BestCost {
			best = i
		}
	}
	if best >= 0 {
		r.OptimalRate = rates[best]
		r.BestCost = finite(results[best].BestCost)
		r.Stages = stageRows(net, results[best].BestLevels, results[best].LocalLevels)
	}

	return r
}
