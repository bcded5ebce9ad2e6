// Package pdbs implements projection abstractions (pattern databases): the
// per-pattern abstract operators, match tree, perfect-hash state indexing,
// and shortest-path h-value/saturated-cost computation.
package pdbs

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/gitrdm/scp-heuristic/task"
)

// Pattern is a strictly increasing, duplicate-free sequence of task variable
// indices.
type Pattern []int

// Validate checks the Pattern invariants: non-empty, strictly increasing,
// duplicate-free, and every variable a valid task variable.
func (p Pattern) Validate(numVars int) error {
	if len(p) == 0 {
		return errors.New("pattern must contain at least one variable")
	}
	for i, v := range p {
		if v < 0 || v >= numVars {
			return errors.Errorf("pattern variable %d out of range [0,%d)", v, numVars)
		}
		if i > 0 && p[i-1] >= v {
			return errors.Errorf("pattern variables must be strictly increasing, got %v", []int(p))
		}
	}
	return nil
}

func (p Pattern) String() string {
	return fmt.Sprintf("%v", []int(p))
}

// indexOf returns the pattern-relative index of v, or -1 if v is not in p.
// p is assumed sorted (an invariant of Pattern).
func (p Pattern) indexOf(v int) int {
	i := sort.SearchInts(p, v)
	if i < len(p) && p[i] == v {
		return i
	}
	return -1
}

// hashMultipliers computes the perfect-hash multipliers M: M[0]=1,
// M[i+1] = M[i]*domain(P[i]).
// Returns the multipliers slice (length len(p)) and the total number of
// abstract states, num_states = M[len(p)-1]*domain(P[len(p)-1]).
//
// An explicit overflow check precedes the multiplication:
// a pattern whose product of domain sizes would overflow int, or whose
// product exceeds maxPDBSize, is reported via the returned ok=false rather
// than silently wrapping.
func hashMultipliers(p Pattern, domainSizes []int, maxPDBSize int) (multipliers []int, numStates int, ok bool) {
	multipliers = make([]int, len(p))
	numStates = 1
	for i, v := range p {
		multipliers[i] = numStates
		d := domainSizes[v]
		if d <= 0 {
			return nil, 0, false
		}
		if numStates > maxPDBSize/d {
			// numStates*d would exceed maxPDBSize (or overflow int); skip.
			return nil, 0, false
		}
		numStates *= d
	}
	if numStates > maxPDBSize {
		return nil, 0, false
	}
	return multipliers, numStates, true
}

// unhash decodes an abstract state index into per-pattern-position values
// using the multipliers produced by hashMultipliers: the inverse of the
// perfect hash. Projection.decodeInto performs the same decoding in place.
func unhash(index int, domainSizes []int, p Pattern, multipliers []int) []int {
	values := make([]int, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		d := domainSizes[p[i]]
		values[i] = (index / multipliers[i]) % d
	}
	return values
}

// relevantOperators returns, in ascending order, the ids of every concrete
// operator with at least one effect on a variable in p.
func relevantOperators(info *task.Info, p Pattern) []int {
	return info.RelevantOperatorsForPattern(p)
}
