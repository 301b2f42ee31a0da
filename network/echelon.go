// File: echelon.go
// Role: echelon-level derived quantities: echelon lead time, echelon demand,
//       warm-start base-stock levels, echelon→local conversion, and the
//       newsvendor safety factor.
// Determinism:
//   - All helpers walk ReverseOrder (parents first), so a stage always sees
//     its downstream values already computed.

package network

import (
	"fmt"
	"math"
)

const quantileClamp = 1e-6

// EchelonLeadTimes returns the cumulative delay from each stage to the end
// customer. A positive Stage.EchelonLeadTime is taken as supplied; otherwise
//
//	ELT[i] = L[i] + max_{j∈succ(i)} ELT[j]
//
// Complexity: O(V + A).
func (n *Network) EchelonLeadTimes() []int {
	elt := make([]int, len(n.stages))
	for _, i := range n.ReverseOrder() {
		if n.stages[i].EchelonLeadTime > 0 {
			elt[i] = n.stages[i].EchelonLeadTime
			continue
		}
		longest := 0
		for _, l := range n.succ[i] {
			if elt[l.Stage] > longest {
				longest = elt[l.Stage]
			}
		}
		elt[i] = n.stages[i].LeadTime + longest
	}

	return elt
}

// EchelonDemand returns per-stage demand mean and standard deviation as seen
// by each echelon, in units of that stage:
//
//	μe[i]  = μ[i]  + Σ_j φα·μe[j]
//	σe²[i] = σ²[i] + Σ_j (φα)²·σe²[j]
//
// Downstream streams are treated as independent.
func (n *Network) EchelonDemand() (mean, std []float64) {
	mean = make([]float64, len(n.stages))
	variance := make([]float64, len(n.stages))
	for _, i := range n.ReverseOrder() {
		mean[i] = n.stages[i].MeanDemand
		variance[i] = n.stages[i].DemandStd * n.stages[i].DemandStd
		for _, l := range n.succ[i] {
			w := l.Weight()
			mean[i] += w * mean[l.Stage]
			variance[i] += w * w * variance[l.Stage]
		}
	}
	std = make([]float64, len(n.stages))
	for i, v := range variance {
		std[i] = math.Sqrt(v)
	}

	return mean, std
}

// InitialBaseStock returns the closed-form echelon base-stock heuristic
//
//	S[i] = μe[i]·ELT[i] + z[i]·σe[i]·√ELT[i]
//
// It is a warm start for the optimizer, not an optimal policy.
func (n *Network) InitialBaseStock() []float64 {
	elt := n.EchelonLeadTimes()
	mean, std := n.EchelonDemand()
	s := make([]float64, len(n.stages))
	for i := range s {
		t := float64(elt[i])
		s[i] = mean[i]*t + n.stages[i].SafetyFactor*std[i]*math.Sqrt(t)
	}

	return s
}

// LocalBaseStock converts echelon levels into stage-local targets:
//
//	local[i] = S[i] − Σ_{j∈succ(i)} S[j]
//
// The sum is unweighted. The simulator's starting local stock subtracts
// Σ φα·S[j] instead, so the two agree only when every arc has φα = 1.
//
// Returns ErrLengthMismatch when len(echelon) != Len().
func (n *Network) LocalBaseStock(echelon []float64) ([]float64, error) {
	if len(echelon) != len(n.stages) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(echelon), len(n.stages))
	}
	local := make([]float64, len(echelon))
	for i := range echelon {
		local[i] = echelon[i]
		for _, l := range n.succ[i] {
			local[i] -= echelon[l.Stage]
		}
	}

	return local, nil
}

// DefaultSafetyFactor returns the newsvendor quantile z = Φ⁻¹(b/(b+h)).
// When h+b is zero it returns 0; the ratio is clamped to [1e-6, 1−1e-6] so
// the result stays finite when either cost is zero.
func DefaultSafetyFactor(h, b float64) float64 {
	if h+b <= 0 {
		return 0
	}
	p := math.Min(math.Max(b/(b+h), quantileClamp), 1-quantileClamp)

	return math.Sqrt2 * math.Erfinv(2*p-1)
}
