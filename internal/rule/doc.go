// Package rule defines rewrite rules, the patterns they match and the call
// objects through which they produce output.
//
// A rule pairs a Matcher with a callback. For every way the matcher binds
// against the node under consideration, the engine invokes the callback
// with a call object carrying that binding. The callback inspects the
// binding and yields zero or one replacement.
//
// Simplification rules yield expressions (SimplificationCall). Computation
// rules yield an expression paired with an auxiliary result
// (ComputationCall), and can read the results already attached to the
// children of the node under consideration.
package rule
