// Package invopt optimizes multi-echelon inventory networks: it simulates
// echelon base-stock policies over a bill-of-materials DAG and tunes the
// order-up-to levels by stochastic gradient descent.
//
// 🚀 What is in the box?
//
//	• Network model: stages, child→parent arcs with units (φ) and allocation (α)
//	• Demand scenarios: seeded Normal demand per sink, or caller-supplied series
//	• Simulator: periodic review, pipeline ring buffers, capacity and supplier
//	  clamps, pathwise cost gradients, optional (s,S) reorder points
//	• Optimizer: Adam, Momentum and SGD with best-snapshot tracking and
//	  divergence diagnostics
//	• Learning-rate discovery: range test, One-Cycle schedule, rate exploration
//
// Everything is organized under four subpackages plus a command:
//
//	network/     — validated DAG, topological orders, echelon lead time & demand
//	demand/      — reproducible demand scenarios shared across simulations
//	sim/         — the echelon simulator (Simulate, Simulator.Run)
//	optimize/    — Optimize, FindLearningRate, OptimizeOneCycle, ExploreLearningRates
//	cmd/invopt/  — YAML config in, JSON report out
//
// Quick ASCII example:
//
//	supplier ──▶ factory ──▶ product ──▶ customers
//	   L=2          L=2         L=2
//
//	echelon S[factory] covers factory stock, product stock and the
//	pipeline between them.
//
//	go run github.com/katalvlaran/invopt/cmd/invopt -mode optimize
package invopt
