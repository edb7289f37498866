// Package calculus implements the truth-value and budget functions of the
// logic as pure functions over ir values.
//
// Every function clamps its result into range: frequency and budget fields
// into [0,1], confidence into [0, ir.MaxConfidence]. Callers never need to
// re-validate a computed value.
//
// Weak rules work in evidence space: confidence c corresponds to evidence
// weight w = k*c/(1-c) and back via c = w/(w+k), with horizon k = 1.
package calculus
