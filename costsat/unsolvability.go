package costsat

import "github.com/gitrdm/scp-heuristic/cost"

// UnsolvabilityHeuristic is a cheap, order-independent dead-end test:
// the set of (abstraction, abstract state) pairs with h=+∞ under the given
// costs (unit costs by default).
type UnsolvabilityHeuristic struct {
	// deadEnds[i] is the boolean dead-end table for abstraction i.
	deadEnds [][]bool
	// hasDeadEnd[i] reports whether deadEnds[i] actually witnessed any dead
	// end; a table can be non-nil and still be all-false.
	hasDeadEnd []bool
}

// NewUnsolvabilityHeuristic precomputes the dead-end tables for every
// abstraction, using costs (typically unit costs, or the task's own costs
// if requested).
func NewUnsolvabilityHeuristic(abstractions []Abstraction, costs []int) *UnsolvabilityHeuristic {
	u := &UnsolvabilityHeuristic{
		deadEnds:   make([][]bool, len(abstractions)),
		hasDeadEnd: make([]bool, len(abstractions)),
	}
	for i, a := range abstractions {
		h := a.ComputeHValues(costs)
		dead := make([]bool, len(h))
		for s, v := range h {
			if cost.IsInfinite(v) {
				dead[s] = true
				u.hasDeadEnd[i] = true
			}
		}
		u.deadEnds[i] = dead
	}
	return u
}

// UnitCosts returns a costs vector of length numOperators with every entry
// set to 1, the default basis for unsolvability detection.
func UnitCosts(numOperators int) []int {
	costs := make([]int, numOperators)
	for i := range costs {
		costs[i] = 1
	}
	return costs
}

// IsUnsolvable reports whether any abstraction classifies
// abstractStateIDs[i] as a dead end.
func (u *UnsolvabilityHeuristic) IsUnsolvable(abstractStateIDs []int) bool {
	for i, id := range u.deadEnds {
		if id == nil {
			continue
		}
		if abstractStateIDs[i] < 0 || abstractStateIDs[i] >= len(id) {
			continue
		}
		if id[abstractStateIDs[i]] {
			return true
		}
	}
	return false
}

// MarkUsefulAbstractions sets useful[i]=true for every abstraction that
// actually witnessed a dead end, unioned with whatever CostPartitioningHeuristic
// tables already marked.
func (u *UnsolvabilityHeuristic) MarkUsefulAbstractions(useful []bool) {
	for i, has := range u.hasDeadEnd {
		if has {
			useful[i] = true
		}
	}
}
