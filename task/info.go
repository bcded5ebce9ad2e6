package task

import "sort"

// Info holds precomputed indices over a Task: which operators are relevant
// to each variable (have an effect on it), used to avoid
// rescanning every operator's fact list when building a Projection for each
// candidate pattern.
type Info struct {
	task *Task

	// relevantOperators[v] lists the indices into task.Operators of every
	// operator with an effect on variable v. Operators with no effect on v
	// never produce an abstract operator for a pattern containing v
	relevantOperators [][]int
}

// NewInfo builds an Info for t. t must already have passed Validate.
func NewInfo(t *Task) *Info {
	info := &Info{
		task:              t,
		relevantOperators: make([][]int, t.NumVariables()),
	}
	for opID, op := range t.Operators {
		seen := make(map[int]bool, len(op.Effects))
		for _, eff := range op.Effects {
			if seen[eff.Var] {
				continue
			}
			seen[eff.Var] = true
			info.relevantOperators[eff.Var] = append(info.relevantOperators[eff.Var], opID)
		}
	}
	return info
}

// RelevantOperators returns the operator indices with an effect on v.
func (i *Info) RelevantOperators(v int) []int {
	return i.relevantOperators[v]
}

// Task returns the underlying task.
func (i *Info) Task() *Task {
	return i.task
}

// RelevantOperatorsForPattern returns the union, without duplicates, of
// RelevantOperators(v) for every v in pattern. The result is sorted by
// operator id ascending, which keeps Projection construction deterministic.
func (i *Info) RelevantOperatorsForPattern(pattern []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range pattern {
		for _, opID := range i.relevantOperators[v] {
			if seen[opID] {
				continue
			}
			seen[opID] = true
			out = append(out, opID)
		}
	}
	// Insertion order above is operator-id ascending per variable but not
	// globally; restore a total order so two patterns sharing variables in a
	// different sequence build identical abstract-operator orderings.
	sort.Ints(out)
	return out
}
