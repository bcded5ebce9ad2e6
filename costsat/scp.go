package costsat

import "github.com/gitrdm/scp-heuristic/cost"

// Saturator selects the cost-saturation strategy used by the online driver
type Saturator int

const (
	// SaturatorAll runs the plain saturated cost partitioning pass for
	// every order.
	SaturatorAll Saturator = iota
	// SaturatorPerimstar runs the perimeter-biased pass first, and — only
	// if it strictly improves on the portfolio's current max h — appends a
	// second plain pass over the costs left over from the perimeter pass
	SaturatorPerimstar
)

// perimeterAbstraction is the optional capability an Abstraction may expose
// to support SaturatorPerimstar. *pdbs.Projection implements it, but it is
// deliberately not part of the Abstraction interface (see
// pdbs.Projection.ComputeDistancesToState).
type perimeterAbstraction interface {
	ComputeDistancesToState(costs []int, target int) []int
}

// ComputeSaturatedCostPartitioning runs the main saturated cost partitioning
// loop: for each abstraction in order, compute its goal-directed h-values under
// the current residual costs, record them, then reduce the residual costs
// by the abstraction's saturated costs. costs is read-only; a private copy
// is threaded through the loop.
func ComputeSaturatedCostPartitioning(abstractions []Abstraction, order Order, costs []int, numOperators int) CostPartitioningHeuristic {
	residual := append([]int(nil), costs...)
	return computeSCPInPlace(abstractions, order, residual, numOperators)
}

// computeSCPInPlace is ComputeSaturatedCostPartitioning with the residual
// cost vector mutated in place, shared by the plain and perimeter variants.
func computeSCPInPlace(abstractions []Abstraction, order Order, residual []int, numOperators int) CostPartitioningHeuristic {
	var result CostPartitioningHeuristic
	for _, i := range order {
		a := abstractions[i]
		h := a.ComputeHValues(residual)
		result.AddHValues(i, h)
		sat := a.ComputeSaturatedCosts(h, numOperators)
		for op := range residual {
			residual[op] = cost.ResidualSubSat(residual[op], sat[op])
		}
	}
	return result
}

// ComputePerimSaturatedCostPartitioningChangeCosts implements the perimeter
// variant. For each abstraction in order it blends the ordinary
// goal-directed h-values with a triangle-inequality bound derived from the
// distance to the evaluated state's own abstract-state id
// (h(query)-d(query,s), which is a valid lower bound wherever it exceeds the
// plain goal distance), records the blended h-values, and reduces costs by
// the resulting saturated costs. costs is mutated in place — the "_change_
// costs" in the name — so a caller can run a second, plain SCP pass over
// whatever cost remains.
//
// Abstractions that do not implement the optional perimeterAbstraction
// capability fall back to the plain goal-directed h-values for that step
// (no bonus, but still correct and admissible).
func ComputePerimSaturatedCostPartitioningChangeCosts(abstractions []Abstraction, order Order, costs []int, abstractStateIDs []int, numOperators int) CostPartitioningHeuristic {
	var result CostPartitioningHeuristic
	for _, i := range order {
		a := abstractions[i]
		hGoal := a.ComputeHValues(costs)
		hPerim := hGoal
		if pa, ok := a.(perimeterAbstraction); ok {
			query := abstractStateIDs[i]
			dQuery := pa.ComputeDistancesToState(costs, query)
			hQuery := hGoal[query]
			blended := make([]int, len(hGoal))
			for s := range blended {
				bonus := cost.SubSat(hQuery, dQuery[s])
				blended[s] = cost.Max(hGoal[s], bonus)
			}
			hPerim = blended
		}
		result.AddHValues(i, hPerim)
		sat := a.ComputeSaturatedCosts(hPerim, numOperators)
		for op := range costs {
			costs[op] = cost.ResidualSubSat(costs[op], sat[op])
		}
	}
	return result
}
