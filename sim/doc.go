// Package sim replays a base-stock controlled supply network over a fixed
// demand scenario and returns the expected cost, a pathwise cost gradient
// with respect to every echelon base-stock level, and the full trajectories.
//
// Model (per sample, per period t, stages visited customer side first):
//
//  1. outflow   = demand (sink) or Σ_j q_j·φ(i,j)·α(i,j) (parents' intake)
//  2. arrival   = ring[i][(t−L_i) mod maxL]; local += arrival − outflow
//     echelon   = local + Σ_j φα·(pipeline_j + echelon_j)
//  3. position  = echelon + pipeline
//     q         = max(0, S − position)            base-stock
//     q         = S − position if position < s    (s,S) reorder point
//     q         = min(q, capacity, supplier shares)
//  4. ring[i][t mod maxL] = q; pipeline += q − arrival
//  5. cost     += h·max(0, local) + b·max(0, −local) [+ fixed cost on reorder]
//  6. gradient += h if local ≥ 0 else −b
//
// The supplier clamp keeps φ(k,i)·α(k,i)·q ≤ α(k,i)·max(0, local_k): each
// child's on-hand stock at the start of the period is split into per-parent
// shares and no parent draws more than its share.
//
// Cost and gradient are averaged over samples × periods. Results depend only
// on (network, scenario, policy); every call allocates fresh state and no
// goroutine outlives the call.
//
// Concurrency:
//   - Samples are independent and may run on several goroutines (WithWorkers).
//     Partial sums are reduced in sample order, so the result is bit-identical
//     for every worker count.
//   - The order of stages and periods inside one sample is strictly sequential.
//
// Errors:
//
//	ErrNilNetwork       - nil network.
//	ErrNilScenario      - nil scenario.
//	ErrScenarioMismatch - scenario built for a different stage table or missing a sink.
//	ErrLengthMismatch   - S or s does not have one entry per stage.
//	ErrBadPolicy        - fixed cost negative or non-finite.
package sim
