// Package ir provides the value types every other package exchanges:
// Truth, Budget, Stamp, Sentence and Task.
//
// This package contains type definitions and their range rules only.
// Constructors reject out-of-range input (RangeError); the calculus package
// clamps its outputs, so values that flow through the reasoner are always
// valid.
//
// Key design constraints:
//   - frequency, priority, durability and quality live in [0,1]
//   - confidence lives in [0,1) and is capped at MaxConfidence
//   - stamps never exceed MaxEvidenceLength evidence ids
//   - all JSON tags use snake_case
package ir
