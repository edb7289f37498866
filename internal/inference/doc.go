// Package inference selects and applies inference rules.
//
// The engine is stateless apart from the term table it interns conclusions
// into and its configuration. Two-premise inference is a table lookup keyed
// by the shapes of the task and belief terms and the figure (which of their
// subjects and predicates coincide); a missing entry means no rule applies,
// which is a normal outcome. Single-premise structural rules are applied by
// Structural.
//
// Rule families:
//   - local: identical terms, revision of judgments
//   - syllogistic: deduction, exemplification, induction, abduction,
//     comparison, analogy, resemblance
//   - compositional: intersection, union and difference terms built from two
//     premises that share a subject or predicate
//   - structural: conversion, contraposition, image conversion, decomposition
package inference
