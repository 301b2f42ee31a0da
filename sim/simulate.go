// File: simulate.go
// Role: the Monte-Carlo replay kernel (Simulator.Run) and its per-sample loop.
// Determinism:
//   - Stages are visited in network.ReverseOrder; periods ascend.
//   - Per-sample sums are reduced in sample order after all workers finish.
// Concurrency:
//   - Each worker owns its sample state; shared inputs are read-only.

package sim

import (
	"fmt"
	"math"

	"github.com/sourcegraph/conc/pool"

	"github.com/katalvlaran/invopt/demand"
	"github.com/katalvlaran/invopt/network"
)

// Simulator binds a network and a demand scenario; Run may be called any
// number of times with different policies. A Simulator holds no mutable
// state and is safe for concurrent use.
type Simulator struct {
	net  *network.Network
	sc   *demand.Scenario
	opts options

	// flattened network, built once
	order    []int
	succ     [][]network.Link
	pred     [][]network.Link
	sink     []bool
	lead     []int
	holding  []float64
	backlog  []float64
	capacity []float64
	maxLead  int
}

// New validates that sc fits net and returns a Simulator.
func New(net *network.Network, sc *demand.Scenario, opts ...Option) (*Simulator, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if sc == nil {
		return nil, ErrNilScenario
	}
	if sc.Stages() != net.Len() {
		return nil, fmt.Errorf("%w: scenario has %d stages, network %d",
			ErrScenarioMismatch, sc.Stages(), net.Len())
	}
	for _, i := range net.Sinks() {
		if !sc.Has(i) {
			return nil, fmt.Errorf("%w: no demand for sink %q", ErrScenarioMismatch, net.Stage(i).ID)
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := net.Len()
	s := &Simulator{
		net:      net,
		sc:       sc,
		opts:     o,
		order:    net.ReverseOrder(),
		succ:     make([][]network.Link, n),
		pred:     make([][]network.Link, n),
		sink:     make([]bool, n),
		lead:     make([]int, n),
		holding:  make([]float64, n),
		backlog:  make([]float64, n),
		capacity: make([]float64, n),
		maxLead:  net.MaxLeadTime(),
	}
	for i := 0; i < n; i++ {
		st := net.Stage(i)
		s.succ[i] = net.Successors(i)
		s.pred[i] = net.Predecessors(i)
		s.sink[i] = net.IsSink(i)
		s.lead[i] = st.LeadTime
		s.holding[i] = st.HoldingCost
		s.backlog[i] = st.BackorderCost
		s.capacity[i] = st.Capacity
	}

	return s, nil
}

// Simulate is a one-shot helper: New followed by Run.
func Simulate(net *network.Network, sc *demand.Scenario, p Policy, opts ...Option) (*Result, error) {
	s, err := New(net, sc, opts...)
	if err != nil {
		return nil, err
	}

	return s.Run(p)
}

// Network returns the simulated network.
func (s *Simulator) Network() *network.Network { return s.net }

// Scenario returns the demand scenario shared by every Run.
func (s *Simulator) Scenario() *demand.Scenario { return s.sc }

// validatePolicy checks vector lengths and the fixed cost.
func (s *Simulator) validatePolicy(p Policy) error {
	n := s.net.Len()
	if len(p.BaseStock) != n {
		return fmt.Errorf("%w: base stock has %d entries, want %d", ErrLengthMismatch, len(p.BaseStock), n)
	}
	if p.ReorderPoints != nil && len(p.ReorderPoints) != n {
		return fmt.Errorf("%w: reorder points have %d entries, want %d", ErrLengthMismatch, len(p.ReorderPoints), n)
	}
	if math.IsNaN(p.FixedCost) || math.IsInf(p.FixedCost, 0) || p.FixedCost < 0 {
		return fmt.Errorf("%w: fixed cost %v", ErrBadPolicy, p.FixedCost)
	}

	return nil
}

// sampleSums holds the per-stage accumulators of one sample.
type sampleSums struct {
	cost []float64
	grad []float64
}

// Run simulates policy p over every sample of the scenario.
//
// Steps:
//  1. Validate the policy against the stage count.
//  2. Allocate per-sample accumulators (and trajectories if enabled).
//  3. Replay the samples, split across workers.
//  4. Reduce cost and gradient in sample order and average over samples×periods.
//
// Complexity: O(samples · periods · (V + A)).
func (s *Simulator) Run(p Policy) (*Result, error) {
	// 1) Policy
	if err := s.validatePolicy(p); err != nil {
		return nil, err
	}

	// 2) Buffers
	n := s.net.Len()
	samples, periods := s.sc.Samples(), s.sc.Periods()
	sums := make([]sampleSums, samples)
	var traj *Trajectories
	if s.opts.trajectories {
		traj = newTrajectories(samples, n, periods)
	}

	// 3) Replay
	forEachSample(samples, s.opts.workers, func(k int) {
		sums[k] = s.runSample(k, p, traj)
	})

	// 4) Reduce
	res := &Result{
		Gradient:     make([]float64, n),
		StageCost:    make([]float64, n),
		Trajectories: traj,
	}
	for k := 0; k < samples; k++ {
		for i := 0; i < n; i++ {
			res.StageCost[i] += sums[k].cost[i]
			res.Gradient[i] += sums[k].grad[i]
		}
	}
	scale := 1 / float64(samples*periods)
	for i := 0; i < n; i++ {
		res.StageCost[i] *= scale
		res.Gradient[i] *= scale
		res.Cost += res.StageCost[i]
	}

	return res, nil
}

// runSample replays one sample path and returns its per-stage sums.
func (s *Simulator) runSample(k int, p Policy, traj *Trajectories) sampleSums {
	n := len(s.order)
	periods := s.sc.Periods()
	S := p.BaseStock

	local := make([]float64, n)    // on-hand minus backlog at the stage
	pipeline := make([]float64, n) // shipped to the stage, not yet arrived
	echelon := make([]float64, n)  // local plus everything downstream
	order := make([]float64, n)    // this period's replenishment quantity
	ring := make([][]float64, n)   // pending arrivals indexed by t mod maxLead
	for i := range ring {
		ring[i] = make([]float64, s.maxLead)
	}
	out := sampleSums{cost: make([]float64, n), grad: make([]float64, n)}

	// Initial state: echelon stock equals S, nothing in transit.
	for _, i := range s.order {
		echelon[i] = S[i]
		local[i] = S[i]
		for _, l := range s.succ[i] {
			local[i] -= l.Weight() * S[l.Stage]
		}
	}
	if traj != nil {
		for i := 0; i < n; i++ {
			traj.Echelon[k][i][0] = echelon[i]
			traj.Local[k][i][0] = local[i]
		}
	}

	demandRow := make([][]float64, n)
	for i := 0; i < n; i++ {
		if s.sink[i] {
			demandRow[i] = s.sc.Row(i, k)
		}
	}

	for t := 0; t < periods; t++ {
		for _, i := range s.order {
			// 1) outflow
			var outflow float64
			if s.sink[i] {
				outflow = demandRow[i][t]
			} else {
				for _, l := range s.succ[i] {
					outflow += order[l.Stage] * l.Weight()
				}
			}

			// 2) arrival and echelon stock
			arrival := ring[i][mod(t-s.lead[i], s.maxLead)]
			local[i] += arrival - outflow
			pipeline[i] -= arrival
			e := local[i]
			for _, l := range s.succ[i] {
				e += l.Weight() * (pipeline[l.Stage] + echelon[l.Stage])
			}
			echelon[i] = e
			position := e + pipeline[i]

			// 3) replenishment decision
			var q float64
			triggered := false
			if p.ReorderPoints != nil {
				if position < p.ReorderPoints[i] {
					q = S[i] - position
					triggered = true
				}
			} else {
				q = S[i] - position
				triggered = q > 0
			}
			q = math.Max(0, math.Min(q, s.capacity[i]))
			for _, l := range s.pred[i] {
				share := l.Allocation * math.Max(0, local[l.Stage])
				q = math.Min(q, share/l.Weight())
			}

			// 4) ship
			ring[i][t%s.maxLead] = q
			pipeline[i] += q
			order[i] = q

			// 5) cost, 6) gradient
			if local[i] >= 0 {
				out.cost[i] += s.holding[i] * local[i]
				out.grad[i] += s.holding[i]
			} else {
				out.cost[i] -= s.backlog[i] * local[i]
				out.grad[i] -= s.backlog[i]
			}
			if triggered {
				out.cost[i] += p.FixedCost
			}

			if traj != nil {
				traj.Echelon[k][i][t+1] = echelon[i]
				traj.Pipeline[k][i][t+1] = pipeline[i]
				traj.Local[k][i][t+1] = local[i]
				traj.Orders[k][i][t] = q
			}
		}
	}

	return out
}

// mod returns a non-negative remainder of a/m.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}

	return r
}

func newTrajectories(samples, stages, periods int) *Trajectories {
	alloc := func(width int) [][][]float64 {
		out := make([][][]float64, samples)
		for k := range out {
			out[k] = make([][]float64, stages)
			for i := range out[k] {
				out[k][i] = make([]float64, width)
			}
		}

		return out
	}

	return &Trajectories{
		Echelon:  alloc(periods + 1),
		Pipeline: alloc(periods + 1),
		Local:    alloc(periods + 1),
		Orders:   alloc(periods),
	}
}

// forEachSample runs body(0..n-1) with at most limit goroutines in flight.
// With limit 1 it runs inline.
func forEachSample(n, limit int, body func(k int)) {
	if limit <= 1 || n <= 1 {
		for k := 0; k < n; k++ {
			body(k)
		}

		return
	}
	p := pool.New().WithMaxGoroutines(limit)
	for k := 0; k < n; k++ {
		k := k
		p.Go(func() { body(k) })
	}
	p.Wait()
}
