package optimize

import "math"

// rule is one update rule. apply mutates levels in place; step is the
// one-based update count used for Adam's bias correction.
type rule interface {
	apply(levels, grad []float64, lr, mom float64, step int)
}

// newRule returns the update rule for o.Algorithm sized for n stages.
func newRule(o Options, n int) rule {
	switch o.Algorithm {
	case Momentum:
		return &momentumRule{v: make([]float64, n)}
	case SGD:
		return sgdRule{}
	default:
		return &adamRule{
			beta2: o.Beta2,
			eps:   o.Epsilon,
			m:     make([]float64, n),
			v:     make([]float64, n),
		}
	}
}

// adamRule implements Adam with bias correction; mom acts as β1.
//
//	m[i] = β1·m[i] + (1−β1)·g[i]
//	v[i] = β2·v[i] + (1−β2)·g[i]²
//	S[i] -= lr · (m[i]/(1−β1^t)) / (√(v[i]/(1−β2^t)) + ε)
type adamRule struct {
	beta2 float64
	eps   float64
	m, v  []float64
}

func (a *adamRule) apply(levels, grad []float64, lr, beta1 float64, step int) {
	c1 := 1 - math.Pow(beta1, float64(step))
	c2 := 1 - math.Pow(a.beta2, float64(step))
	for i, g := range grad {
		a.m[i] = beta1*a.m[i] + (1-beta1)*g
		a.v[i] = a.beta2*a.v[i] + (1-a.beta2)*g*g
		mHat := a.m[i] / c1
		vHat := a.v[i] / c2
		levels[i] -= lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}

// momentumRule accumulates v = μ·v + lr·g and steps S -= v.
type momentumRule struct {
	v []float64
}

func (r *momentumRule) apply(levels, grad []float64, lr, mom float64, _ int) {
	for i, g := range grad {
		r.v[i] = mom*r.v[i] + lr*g
		levels[i] -= r.v[i]
	}
}

// sgdRule steps S -= lr·g.
type sgdRule struct{}

func (sgdRule) apply(levels, grad []float64, lr, _ float64, _ int) {
	for i, g := range grad {
		levels[i] -= lr * g
	}
}
