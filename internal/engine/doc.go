// Package engine implements the bottom-up fixpoint rewrite engine.
//
// ARCHITECTURE:
//
// Post-order traversal:
// A run visits every node after its children. Children are rewritten
// first; if any child changed, the node is rebuilt over the new children
// before rules are tried on it.
//
// Fixpoint per node:
// Rules are tried in declaration order, and every match of a rule's
// pattern is offered before moving on to the next rule:
//
//	noChange         the rule yielded nothing, or yielded the current node
//	changedRestart   the rule yielded a different node; it becomes current
//	                 and the scan restarts from the first rule
//	exhausted        every rule and match was offered without a change
//
// The node is done once the scan is exhausted. Change is detected by node
// identity, never by structure: a rule that rebuilds an equal tree keeps
// the loop going, which is a bug in the rule and is caught by the step
// quota.
//
// Root visibility:
// Calls made at the root position see the current node as the root, so a
// root whose children were just rewritten is visible as rewritten.
//
// Computation runs:
// Compute additionally records, per node identity, the auxiliary result
// yielded with each adopted or confirmed expression. The last yield for a
// node wins. The run returns the result recorded for the final root.
//
// CRITICAL PATTERNS:
//
// Deterministic scheduling:
// Rules are evaluated in declaration order and matches in the order the
// pattern produces them. No randomness, no concurrency within a run.
//
// Logical clock:
// Trace events are stamped from a Sequencer, never from wall-clock time.
//
// Termination:
// Every adopted rewrite counts against a per-run step quota
// (DefaultMaxSteps unless configured with WithMaxSteps).
package engine
