// Package demand builds the fixed demand scenario shared by every simulation
// of one optimization run.
//
// A Scenario holds, for every sink stage of a network, a Samples × Periods
// matrix of non-negative demand values. It is created once and then only
// read: passing the same *Scenario to every simulator call keeps the random
// realization identical across optimizer iterations (common random numbers),
// so successive gradient estimates differ only through the policy.
//
// Constructors:
//
//	Generate(net, samples, periods, seed) // i.i.d. Normal(μ,σ) truncated at 0
//	FromMatrix(net, values)               // explicit tensor, strict shape checks
//	FromSeries(net, samples, series)      // 1-D series broadcast to every sample
//
// Determinism:
//   - Same seed ⇒ bit-identical scenario. seed==0 maps to a fixed default.
//   - Each sink draws from its own stream derived from the seed, so adding a
//     stage elsewhere in the table does not shift another sink's draws.
//
// Errors:
//
//	ErrNilNetwork     - nil *network.Network.
//	ErrBadShape       - samples or periods below one.
//	ErrShapeMismatch  - a matrix or series has the wrong dimensions.
//	ErrMissingSink    - a sink stage has no demand entry.
//	ErrNotSink        - a demand entry names a non-sink stage.
//	ErrNotSingleSink  - FromSeries used on a network with several sinks.
//	ErrBadValue       - negative, NaN or infinite demand value.
package demand
