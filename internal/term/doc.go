// Package term implements the term model of the reasoner.
//
// Terms are atomic names, compounds (operator plus ordered components) or
// statements (subject, copula, predicate). All terms live in a Table arena
// and are referred to by ID. Construction canonicalises structure, so two
// terms are identical exactly when their IDs are equal; the rest of the
// system relies on that for concept identity and premise matching.
package term
