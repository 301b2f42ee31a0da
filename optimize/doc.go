// Package optimize tunes the echelon base-stock levels of a supply network
// by stochastic gradient descent on the simulated expected cost.
//
// The control loop owns one decision vector S (one level per stage). Each
// iteration simulates S against a fixed demand scenario, keeps the best
// snapshot seen so far, stops when the squared gradient norm drops below a
// threshold, and otherwise applies one of three update rules:
//
//	Adam      m = β1·m + (1−β1)·g;  v = β2·v + (1−β2)·g²
//	          S −= lr · m̂ / (√v̂ + ε)          (bias-corrected m̂, v̂)
//	Momentum  v = μ·v + lr·g;  S −= v
//	SGD       S −= lr·g
//
// Outcomes are terminal states, not errors:
//
//	Converged       squared gradient norm ≤ ConvergenceThreshold
//	MaxIterReached  iteration budget spent
//	Diverged        cost or gradient became NaN/±Inf; Result.Diagnostics
//	                carries the offending levels and the stage capacities
//
// The returned levels are always the best snapshot, never blindly the last
// iterate: an update can overshoot.
//
// Learning-rate discovery:
//
//	FindLearningRate   exponential range test (1e-10, doubling, Adam)
//	NewOneCycle        linear warm-up + cosine annealing for lr, mirrored momentum
//	OptimizeOneCycle   Adam driven by a One-Cycle schedule
//	ExploreLearningRates  independent runs for several candidate rates
//
// All three reuse the single-step primitives of Optimizer (Evaluate, Apply)
// without the stopping logic of Optimize.
//
// Concurrency: an Optimizer is not safe for concurrent use; it is the only
// writer of its decision vector. Independent Optimizers may share one
// *demand.Scenario and one *network.Network.
package optimize
