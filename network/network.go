// File: network.go
// Role: construction and validation (New) plus read-only accessors.
// Determinism:
//   - Stage indices follow the order of the input table.
//   - Successors/Predecessors are sorted by stage index.
// Concurrency:
//   - A *Network is never mutated after New; accessors copy.

package network

import (
	"fmt"
	"math"
	"sort"
)

// New validates the stage and arc tables and builds an immutable Network.
//
// Steps:
//  1. Validate every stage record (ID, costs, capacity, lead time, demand).
//  2. Index stages by ID, rejecting duplicates.
//  3. Resolve arcs to indices, rejecting unknown endpoints, loops, duplicates
//     and non-positive weights.
//  4. Check Σα ≤ 1 on every child with outgoing arcs (unless disabled).
//  5. Compute the topological order; a back-edge yields ErrCycleDetected.
//  6. Record sinks and max lead time.
//
// Complexity: O(V + A·log A).
func New(stages []Stage, arcs []Arc, opts ...Option) (*Network, error) {
	// 1) Options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	// 2) Stages
	n := len(stages)
	net := &Network{
		stages: make([]Stage, n),
		index:  make(map[string]int, n),
		succ:   make([][]Link, n),
		pred:   make([][]Link, n),
	}
	for i, s := range stages {
		if err := validateStage(s); err != nil {
			return nil, err
		}
		if _, dup := net.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStage, s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		net.stages[i] = s
		net.index[s.ID] = i
		if s.LeadTime > net.maxLeadTime {
			net.maxLeadTime = s.LeadTime
		}
	}

	// 3) Arcs
	seen := make(map[[2]int]struct{}, len(arcs))
	for _, a := range arcs {
		c, ok := net.index[a.Child]
		if !ok {
			return nil, fmt.Errorf("%w: arc child %q", ErrStageNotFound, a.Child)
		}
		p, ok := net.index[a.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: arc parent %q", ErrStageNotFound, a.Parent)
		}
		if c == p {
			return nil, fmt.Errorf("%w: %q", ErrSelfLoop, a.Child)
		}
		if !positiveFinite(a.Units) || !positiveFinite(a.Allocation) {
			return nil, fmt.Errorf("%w: %s→%s units=%v allocation=%v",
				ErrBadArc, a.Child, a.Parent, a.Units, a.Allocation)
		}
		key := [2]int{c, p}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s→%s", ErrDuplicateArc, a.Child, a.Parent)
		}
		seen[key] = struct{}{}
		net.succ[c] = append(net.succ[c], Link{Stage: p, Units: a.Units, Allocation: a.Allocation})
		net.pred[p] = append(net.pred[p], Link{Stage: c, Units: a.Units, Allocation: a.Allocation})
	}
	for i := 0; i < n; i++ {
		sortLinks(net.succ[i])
		sortLinks(net.pred[i])
	}

	// 4) Allocation shares
	if o.checkAllocation {
		for i := 0; i < n; i++ {
			var sum float64
			for _, l := range net.succ[i] {
				sum += l.Allocation
			}
			if sum > 1+allocationTol {
				return nil, fmt.Errorf("%w: stage %q sums to %v",
					ErrAllocationExceeded, net.stages[i].ID, sum)
			}
		}
	}

	// 5) Topological order
	order, err := topologicalOrder(net.succ)
	if err != nil {
		return nil, err
	}
	net.order = order

	// 6) Sinks
	for i := 0; i < n; i++ {
		if len(net.succ[i]) == 0 {
			net.sinks = append(net.sinks, i)
		}
	}

	return net, nil
}

// validateStage checks the scalar fields of one stage record.
func validateStage(s Stage) error {
	if s.ID == "" {
		return ErrEmptyStageID
	}
	if !nonNegativeFinite(s.HoldingCost) || !nonNegativeFinite(s.BackorderCost) {
		return fmt.Errorf("%w: stage %q h=%v b=%v", ErrBadCost, s.ID, s.HoldingCost, s.BackorderCost)
	}
	if math.IsNaN(s.Capacity) || s.Capacity < 0 {
		return fmt.Errorf("%w: stage %q capacity=%v", ErrBadCapacity, s.ID, s.Capacity)
	}
	if s.LeadTime < 1 {
		return fmt.Errorf("%w: stage %q lead time=%d", ErrBadLeadTime, s.ID, s.LeadTime)
	}
	if !nonNegativeFinite(s.MeanDemand) || !nonNegativeFinite(s.DemandStd) {
		return fmt.Errorf("%w: stage %q mean=%v std=%v", ErrBadDemand, s.ID, s.MeanDemand, s.DemandStd)
	}
	if math.IsNaN(s.SafetyFactor) || math.IsInf(s.SafetyFactor, 0) {
		return fmt.Errorf("%w: stage %q safety factor=%v", ErrBadDemand, s.ID, s.SafetyFactor)
	}
	if s.EchelonLeadTime < 0 {
		return fmt.Errorf("%w: stage %q echelon lead time=%d", ErrBadLeadTime, s.ID, s.EchelonLeadTime)
	}

	return nil
}

func nonNegativeFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

func positiveFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

func sortLinks(ls []Link) {
	sort.Slice(ls, func(a, b int) bool { return ls[a].Stage < ls[b].Stage })
}

// Len returns the number of stages.
func (n *Network) Len() int { return len(n.stages) }

// Stage returns a copy of the i-th stage record.
func (n *Network) Stage(i int) Stage { return n.stages[i] }

// Stages returns a copy of the stage table in index order.
func (n *Network) Stages() []Stage {
	out := make([]Stage, len(n.stages))
	copy(out, n.stages)

	return out
}

// Index returns the position of the stage with the given ID.
func (n *Network) Index(id string) (int, error) {
	i, ok := n.index[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrStageNotFound, id)
	}

	return i, nil
}

// Successors returns the parents of stage i (the stages it supplies).
func (n *Network) Successors(i int) []Link {
	return append([]Link(nil), n.succ[i]...)
}

// Predecessors returns the children of stage i (its suppliers).
func (n *Network) Predecessors(i int) []Link {
	return append([]Link(nil), n.pred[i]...)
}

// IsSink reports whether stage i has no outgoing arc.
func (n *Network) IsSink(i int) bool { return len(n.succ[i]) == 0 }

// IsRoot reports whether stage i has no supplier.
func (n *Network) IsRoot(i int) bool { return len(n.pred[i]) == 0 }

// Sinks returns the indices of demand-facing stages in ascending order.
func (n *Network) Sinks() []int { return append([]int(nil), n.sinks...) }

// TopologicalOrder returns stage indices with every child before its parents.
func (n *Network) TopologicalOrder() []int { return append([]int(nil), n.order...) }

// ReverseOrder returns stage indices with every parent before its children,
// i.e. the customer side first.
func (n *Network) ReverseOrder() []int {
	out := make([]int, len(n.order))
	for i, v := range n.order {
		out[len(n.order)-1-i] = v
	}

	return out
}

// MaxLeadTime returns max(L) over all stages, the ring buffer length.
func (n *Network) MaxLeadTime() int { return n.maxLeadTime }

// Capacities returns the per-stage capacity vector.
func (n *Network) Capacities() []float64 {
	out := make([]float64, len(n.stages))
	for i, s := range n.stages {
		out[i] = s.Capacity
	}

	return out
}

// IDs returns the stage IDs in index order.
func (n *Network) IDs() []string {
	out := make([]string, len(n.stages))
	for i, s := range n.stages {
		out[i] = s.ID
	}

	return out
}
