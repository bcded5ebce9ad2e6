// Package costsat implements the combination layer on top of projection
// abstractions: saturated cost partitioning, order generation, the
// unsolvability heuristic, and the online diversifying driver.
package costsat

import "github.com/gitrdm/scp-heuristic/pdbs"

// Abstraction is the capability set every abstraction variant must expose to
// the cost-partitioning layer.
// *pdbs.Projection implements it; Cartesian or other future abstraction
// kinds would too, without any other virtual dispatch needed in the hot
// path.
type Abstraction interface {
	GetAbstractStateID(concreteState []int) int
	ComputeHValues(costs []int) []int
	ComputeSaturatedCosts(hValues []int, numOperators int) []int
	OperatorIsActive(opID int) bool
	OperatorInducesSelfLoop(opID int) bool
	NumStates() int
	GoalStates() []int
}

// AbstractionFunction is the lightweight hash-only mapper retained for an
// abstraction after the improve phase ends.
type AbstractionFunction interface {
	GetAbstractStateID(concreteState []int) int
}

var (
	_ Abstraction         = (*pdbs.Projection)(nil)
	_ AbstractionFunction = (*pdbs.AbstractionFunction)(nil)
)

// Order is a permutation of abstraction indices, total over the
// abstractions slice it was generated for.
type Order []int

// GetAbstractStateIDs maps a concrete state to one abstract-state id per
// abstraction, in abstraction order.
func GetAbstractStateIDs(abstractions []Abstraction, state []int) []int {
	ids := make([]int, len(abstractions))
	for i, a := range abstractions {
		ids[i] = a.GetAbstractStateID(state)
	}
	return ids
}

// GetAbstractStateIDsFromFunctions is the post-freeze analogue of
// GetAbstractStateIDs, over the lightweight AbstractionFunction slice.
func GetAbstractStateIDsFromFunctions(functions []AbstractionFunction, state []int) []int {
	ids := make([]int, len(functions))
	for i, f := range functions {
		if f == nil {
			continue
		}
		ids[i] = f.GetAbstractStateID(state)
	}
	return ids
}
