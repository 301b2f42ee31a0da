// Package network defines the Stage and Arc records, sentinel errors,
// construction options, and the Network type.
package network

import "errors"

// Sentinel errors for network construction and queries.
var (
	// ErrNoStages indicates that New received an empty stage table.
	ErrNoStages = errors.New("network: no stages")

	// ErrEmptyStageID indicates a stage with an empty ID.
	ErrEmptyStageID = errors.New("network: stage ID is empty")

	// ErrDuplicateStage indicates that two stages share the same ID.
	ErrDuplicateStage = errors.New("network: duplicate stage ID")

	// ErrStageNotFound indicates an arc endpoint or lookup ID that is not a stage.
	ErrStageNotFound = errors.New("network: stage not found")

	// ErrSelfLoop indicates an arc whose child and parent are the same stage.
	ErrSelfLoop = errors.New("network: self-loop arc")

	// ErrDuplicateArc indicates the same child→parent pair listed twice.
	ErrDuplicateArc = errors.New("network: duplicate arc")

	// ErrCycleDetected indicates that the arcs do not form a DAG.
	ErrCycleDetected = errors.New("network: cycle detected")

	// ErrBadLeadTime indicates a lead time below one period.
	ErrBadLeadTime = errors.New("network: lead time must be >= 1")

	// ErrBadCost indicates a negative or non-finite holding/backorder cost.
	ErrBadCost = errors.New("network: invalid cost")

	// ErrBadCapacity indicates a negative or NaN capacity.
	ErrBadCapacity = errors.New("network: invalid capacity")

	// ErrBadDemand indicates a negative or non-finite demand mean or std.
	ErrBadDemand = errors.New("network: invalid demand parameters")

	// ErrBadArc indicates non-positive or non-finite units/allocation on an arc.
	ErrBadArc = errors.New("network: invalid arc weights")

	// ErrAllocationExceeded indicates that a child's allocation shares sum above one.
	ErrAllocationExceeded = errors.New("network: allocation shares exceed one")

	// ErrLengthMismatch indicates a per-stage vector whose length differs from Len().
	ErrLengthMismatch = errors.New("network: vector length does not match stage count")
)

// allocationTol is the slack allowed when checking Σα ≤ 1 for a child.
const allocationTol = 1e-9

// Stage is one node of the supply network.
//
// Only sinks (stages without outgoing arcs) generate stochastic demand;
// MeanDemand/DemandStd on other stages add to the echelon demand estimate
// used for the warm start and are otherwise ignored.
type Stage struct {
	// ID uniquely identifies the stage within its Network.
	ID string

	// Name is a human-readable label; defaults to ID when empty.
	Name string

	// MeanDemand is μ, the mean demand per period.
	MeanDemand float64

	// DemandStd is σ, the standard deviation of demand per period.
	DemandStd float64

	// HoldingCost is h, charged per unit of positive local stock per period.
	HoldingCost float64

	// BackorderCost is b, charged per unit of local backlog per period.
	BackorderCost float64

	// SafetyFactor is z, used only by InitialBaseStock.
	SafetyFactor float64

	// Capacity bounds the replenishment quantity per period; +Inf disables it.
	Capacity float64

	// LeadTime is L, the production/procurement delay in periods (>= 1).
	LeadTime int

	// EchelonLeadTime is the cumulative delay to the end customer.
	// Zero means "derive from the graph".
	EchelonLeadTime int
}

// Arc is a bill-of-materials link child→parent.
type Arc struct {
	// Child is the supplying stage ID.
	Child string

	// Parent is the consuming stage ID.
	Parent string

	// Units is φ, the quantity of Child consumed per unit produced by Parent.
	Units float64

	// Allocation is α, the share of Child's output routed to Parent.
	Allocation float64
}

// Option configures a Network before validation.
type Option func(o *options)

// options holds construction-time toggles.
type options struct {
	checkAllocation bool // reject Σα > 1 per child
}

// defaultOptions returns the strict defaults.
func defaultOptions() options {
	return options{checkAllocation: true}
}

// WithUncheckedAllocation skips the Σα ≤ 1 check for children with several
// parents, leaving feasibility of the split to the caller.
func WithUncheckedAllocation() Option {
	return func(o *options) { o.checkAllocation = false }
}

// Link is a resolved arc as seen from one endpoint.
type Link struct {
	// Stage is the index of the other endpoint: the parent in Successors,
	// the child in Predecessors.
	Stage int

	// Units is φ of the underlying arc.
	Units float64

	// Allocation is α of the underlying arc.
	Allocation float64
}

// Weight returns φ·α, the child quantity pulled per unit of parent intake.
func (l Link) Weight() float64 { return l.Units * l.Allocation }

// Network is an immutable, validated supply network.
//
// All accessors return copies; a *Network is safe for concurrent readers.
type Network struct {
	stages []Stage
	index  map[string]int // stage ID → position

	succ [][]Link // succ[i]: parents of i (downstream)
	pred [][]Link // pred[i]: children of i (upstream suppliers)

	order []int // topological order: children before parents
	sinks []int // stages with no outgoing arc, ascending

	maxLeadTime int
}
