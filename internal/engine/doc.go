// Package engine drives a reasoner.
//
// A Reasoner owns one memory.Memory and runs its cycle. The cycle owner is
// whichever goroutine calls Step or Run; every other goroutine reaches the
// memory through Input, Inspect or Snapshot, which wait for the current
// cycle to finish.
//
// Each cycle:
//  1. spend one cycle of the budget, if one is set
//  2. poll every input channel in registration order, parse the lines and
//     hand the tasks to memory intake
//  3. run one memory cycle
//  4. render the cycle's emissions and send them to every output channel
//     in registration order
//
// Malformed input and failing outputs are logged and reported, never fatal.
package engine
