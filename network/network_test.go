package network_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/invopt/network"
)

// chainStages returns a supplier → factory → product chain.
func chainStages() ([]network.Stage, []network.Arc) {
	stages := []network.Stage{
		{ID: "supplier", HoldingCost: 1, BackorderCost: 10, SafetyFactor: 1.65, Capacity: 1000, LeadTime: 2},
		{ID: "factory", HoldingCost: 2, BackorderCost: 20, SafetyFactor: 1.65, Capacity: 1000, LeadTime: 2},
		{ID: "product", MeanDemand: 100, DemandStd: 20, HoldingCost: 5, BackorderCost: 100, SafetyFactor: 1.65, Capacity: 1000, LeadTime: 2},
	}
	arcs := []network.Arc{
		{Child: "supplier", Parent: "factory", Units: 1, Allocation: 1},
		{Child: "factory", Parent: "product", Units: 1, Allocation: 1},
	}

	return stages, arcs
}

// TestNew_Chain verifies adjacency, sinks and orders on a linear chain.
func TestNew_Chain(t *testing.T) {
	stages, arcs := chainStages()
	net, err := network.New(stages, arcs)
	require.NoError(t, err)

	assert.Equal(t, 3, net.Len())
	assert.Equal(t, []int{2}, net.Sinks())
	assert.True(t, net.IsRoot(0))
	assert.False(t, net.IsRoot(2))
	assert.True(t, net.IsSink(2))
	assert.Equal(t, []int{0, 1, 2}, net.TopologicalOrder())
	assert.Equal(t, []int{2, 1, 0}, net.ReverseOrder())
	assert.Equal(t, 2, net.MaxLeadTime())
	assert.Equal(t, []string{"supplier", "factory", "product"}, net.IDs())
	assert.Equal(t, "factory", net.Stage(1).Name, "empty name defaults to ID")

	succ := net.Successors(0)
	require.Len(t, succ, 1)
	assert.Equal(t, 1, succ[0].Stage)
	assert.Equal(t, 1.0, succ[0].Weight())

	pred := net.Predecessors(2)
	require.Len(t, pred, 1)
	assert.Equal(t, 1, pred[0].Stage)

	idx, err := net.Index("product")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	_, err = net.Index("ghost")
	assert.ErrorIs(t, err, network.ErrStageNotFound)
}

// TestNew_Assembly checks a two-component assembly where the order lists the
// parent first; topological order must still place children first.
func TestNew_Assembly(t *testing.T) {
	stages := []network.Stage{
		{ID: "car", MeanDemand: 10, DemandStd: 2, HoldingCost: 5, BackorderCost: 50, Capacity: math.Inf(1), LeadTime: 1},
		{ID: "engine", HoldingCost: 2, BackorderCost: 5, Capacity: math.Inf(1), LeadTime: 2},
		{ID: "wheel", HoldingCost: 1, BackorderCost: 5, Capacity: math.Inf(1), LeadTime: 1},
	}
	arcs := []network.Arc{
		{Child: "engine", Parent: "car", Units: 1, Allocation: 1},
		{Child: "wheel", Parent: "car", Units: 4, Allocation: 1},
	}
	net, err := network.New(stages, arcs)
	require.NoError(t, err)

	order := net.TopologicalOrder()
	pos := make(map[int]int, len(order))
	for p, v := range order {
		pos[v] = p
	}
	assert.Less(t, pos[1], pos[0])
	assert.Less(t, pos[2], pos[0])
	assert.Equal(t, []int{0}, net.Sinks())
	assert.Len(t, net.Predecessors(0), 2)
}

// TestNew_Errors covers every validation sentinel.
func TestNew_Errors(t *testing.T) {
	base := func() []network.Stage {
		s, _ := chainStages()
		return s
	}
	_, arcs := chainStages()

	cases := []struct {
		name   string
		stages []network.Stage
		arcs   []network.Arc
		want   error
	}{
		{"empty", nil, nil, network.ErrNoStages},
		{"empty id", func() []network.Stage { s := base(); s[0].ID = ""; return s }(), arcs, network.ErrEmptyStageID},
		{"duplicate id", func() []network.Stage { s := base(); s[1].ID = "supplier"; return s }(), nil, network.ErrDuplicateStage},
		{"negative h", func() []network.Stage { s := base(); s[0].HoldingCost = -1; return s }(), arcs, network.ErrBadCost},
		{"nan b", func() []network.Stage { s := base(); s[2].BackorderCost = math.NaN(); return s }(), arcs, network.ErrBadCost},
		{"negative capacity", func() []network.Stage { s := base(); s[1].Capacity = -5; return s }(), arcs, network.ErrBadCapacity},
		{"zero lead time", func() []network.Stage { s := base(); s[1].LeadTime = 0; return s }(), arcs, network.ErrBadLeadTime},
		{"negative sigma", func() []network.Stage { s := base(); s[2].DemandStd = -1; return s }(), arcs, network.ErrBadDemand},
		{"unknown child", base(), []network.Arc{{Child: "x", Parent: "product", Units: 1, Allocation: 1}}, network.ErrStageNotFound},
		{"unknown parent", base(), []network.Arc{{Child: "supplier", Parent: "x", Units: 1, Allocation: 1}}, network.ErrStageNotFound},
		{"self loop", base(), []network.Arc{{Child: "product", Parent: "product", Units: 1, Allocation: 1}}, network.ErrSelfLoop},
		{"zero units", base(), []network.Arc{{Child: "supplier", Parent: "factory", Units: 0, Allocation: 1}}, network.ErrBadArc},
		{"inf allocation", base(), []network.Arc{{Child: "supplier", Parent: "factory", Units: 1, Allocation: math.Inf(1)}}, network.ErrBadArc},
		{"duplicate arc", base(), append(arcs, arcs[0]), network.ErrDuplicateArc},
		{"cycle", base(), append(arcs, network.Arc{Child: "product", Parent: "supplier", Units: 1, Allocation: 1}), network.ErrCycleDetected},
		{"allocation", base(), []network.Arc{
			{Child: "supplier", Parent: "factory", Units: 1, Allocation: 0.7},
			{Child: "supplier", Parent: "product", Units: 1, Allocation: 0.7},
		}, network.ErrAllocationExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net, err := network.New(tc.stages, tc.arcs)
			assert.Nil(t, net)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestNew_UncheckedAllocation confirms the Σα check can be disabled.
func TestNew_UncheckedAllocation(t *testing.T) {
	stages, _ := chainStages()
	arcs := []network.Arc{
		{Child: "supplier", Parent: "factory", Units: 1, Allocation: 1},
		{Child: "supplier", Parent: "product", Units: 1, Allocation: 1},
	}
	_, err := network.New(stages, arcs)
	assert.ErrorIs(t, err, network.ErrAllocationExceeded)

	net, err := network.New(stages, arcs, network.WithUncheckedAllocation())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, net.Sinks())
}

// TestAccessors_ReturnCopies ensures callers cannot mutate internal state.
func TestAccessors_ReturnCopies(t *testing.T) {
	stages, arcs := chainStages()
	net, err := network.New(stages, arcs)
	require.NoError(t, err)

	succ := net.Successors(0)
	succ[0].Stage = 99
	assert.Equal(t, 1, net.Successors(0)[0].Stage)

	order := net.TopologicalOrder()
	order[0] = 42
	assert.Equal(t, 0, net.TopologicalOrder()[0])

	stages[0].HoldingCost = 1e9
	assert.Equal(t, 1.0, net.Stage(0).HoldingCost, "New must copy the stage table")
}
