// Package network models a multi-echelon supply network as an immutable
// directed acyclic graph of stages joined by bill-of-materials arcs.
//
// A Network G = (V, A) is built once by New and never mutated afterwards:
//
//   - V — stages (Stage): costs, capacity, lead time, demand parameters.
//   - A — arcs (Arc) child→parent: the parent consumes Units (φ) of the child
//     per unit it produces; Allocation (α) is the share of the child's output
//     routed to that parent when the child feeds several parents.
//   - Sinks — stages without outgoing arcs; exactly these face customer demand.
//
// Storage is index-based: stages keep the order in which they were supplied,
// successors/predecessors are []int adjacency lists, and a topological order
// (children before parents) is computed once with a three-colour DFS.
//
// Echelon helpers:
//
//	EchelonLeadTimes()  // ELT[i] = L[i] + max_{j∈succ(i)} ELT[j] unless supplied
//	EchelonDemand()     // demand mean/std seen by every echelon
//	InitialBaseStock()  // S[i] = μe·ELT + z·σe·√ELT   (warm start only)
//	LocalBaseStock(S)   // S[i] − Σ_{j∈succ(i)} S[j]
//
// Errors:
//
//	ErrNoStages           - empty stage table.
//	ErrEmptyStageID       - zero-length stage ID.
//	ErrDuplicateStage     - stage ID repeated.
//	ErrStageNotFound      - arc endpoint missing from the stage table.
//	ErrSelfLoop           - arc from a stage to itself.
//	ErrDuplicateArc       - the same child→parent pair listed twice.
//	ErrCycleDetected      - arcs do not form a DAG.
//	ErrBadLeadTime        - lead time below one period.
//	ErrBadCost            - holding or backorder cost negative or non-finite.
//	ErrBadCapacity        - capacity negative or NaN (+Inf means uncapacitated).
//	ErrBadDemand          - mean or std negative or non-finite.
//	ErrBadArc             - units or allocation not strictly positive and finite.
//	ErrAllocationExceeded - a child's allocation shares sum above one.
//	ErrLengthMismatch     - per-stage vector has the wrong length.
//
// Complexity: New is O(V + A); every query is O(1) or O(V + A).
package network
